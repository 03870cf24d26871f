package model

// VehicleInfo is the static description of an enrolled vehicle.
type VehicleInfo struct {
	VIN                  string `json:"vin"`
	Name                 string `json:"name"`
	Model                string `json:"model"`
	ModelCode            string `json:"modelCode"`
	ModelYear            string `json:"modelYear"`
	EnrollmentDate       string `json:"enrollmentDate"`
	DashboardURL         string `json:"dashboardUrl"`
	ImageURL             string `json:"imageUrl"`
	EngineTypeCombustion bool   `json:"engineTypeCombustian"`
	EngineTypeElectric   bool   `json:"engineTypeElectric"`
}

// Openings holds per opening states, e.g. "OPEN" or "CLOSED".
type Openings struct {
	FrontLeft  string `json:"frontLeft,omitempty"`
	FrontRight string `json:"frontRight,omitempty"`
	RearLeft   string `json:"rearLeft,omitempty"`
	RearRight  string `json:"rearRight,omitempty"`
	Hood       string `json:"hood,omitempty"`
	Tailgate   string `json:"tailgate,omitempty"`
}

// Vehicle is the latest status report of a vehicle.
type Vehicle struct {
	Info           VehicleInfo `json:"info"`
	Odometer       float64     `json:"odometer"`
	TotalRange     int         `json:"totalRange"`
	FuelRange      int         `json:"fuelRange"`
	ElectricRange  int         `json:"electricRange"`
	FuelLevel      int         `json:"fuelLevel"`
	BatteryLevel   int         `json:"batteryLevel"`
	CarLocked      bool        `json:"carLocked"`
	Doors          Openings    `json:"doors"`
	Windows        Openings    `json:"windows"`
	LastConnection string      `json:"lastConnection"`
}

func (v *Vehicle) Kind() Kind { return KindVehicle }

func (v *Vehicle) clone() Payload {
	c := *v

	return &c
}

// Trip is the latest aggregated trip statistic.
type Trip struct {
	TripID                     string  `json:"tripId"`
	Timestamp                  string  `json:"timestamp"`
	Mileage                    float64 `json:"mileage"`
	TravelTime                 int     `json:"travelTime"`
	AverageSpeed               float64 `json:"averageSpeed"`
	AverageFuelConsumption     float64 `json:"averageFuelConsumption"`
	AverageElectricConsumption float64 `json:"averageElectricConsumption"`
}

func (t *Trip) Kind() Kind { return KindTrip }

func (t *Trip) clone() Payload {
	c := *t

	return &c
}

// Position is the last reported vehicle position.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *Position) Kind() Kind { return KindLocation }

func (p *Position) clone() Payload {
	c := *p

	return &c
}
