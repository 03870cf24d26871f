package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

const (
	vehiclesURI       = "-/mainnavigation/get-fully-loaded-cars"
	selectVehicleURI  = "-/mainnavigation/load-car-details/"
	vehicleStatusURI  = "-/vsr/get-vsr"
	vehicleDetailsURI = "-/vehicle-info/get-vehicle-details"
	latestTripURI     = "-/rts/get-latest-trip-statistics"
	positionURI       = "-/cf/get-location"

	okErrorCode = "0"

	openingClosed = "CLOSED"
	openingOpen   = "OPEN"

	closedValue = 3
	lockedValue = 2
)

// VehicleClient talks to the JSON endpoints of the connected-car portal within a logged in portal session.
type VehicleClient interface {
	// Vehicles lists every vehicle enrolled in the account, including those not fully loaded yet.
	Vehicles(ctx context.Context, ps *PortalSession) ([]model.VehicleInfo, error)
	// SelectVehicle makes the vehicle the target of subsequent calls.
	SelectVehicle(ctx context.Context, ps *PortalSession, vin string) error
	// VehicleStatus returns ranges, levels, openings and odometer of the selected vehicle.
	VehicleStatus(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Vehicle, error)
	// LatestTrip returns the newest aggregated trip statistic of the selected vehicle.
	LatestTrip(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Trip, error)
	// Position returns the last known position of the selected vehicle.
	Position(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Position, error)
}

type vehicleClient struct {
	transport Transport
}

// NewVehicleClient creates a new connected-car client.
func NewVehicleClient(transport Transport) VehicleClient {
	return &vehicleClient{transport: transport}
}

func (c *vehicleClient) Vehicles(ctx context.Context, ps *PortalSession) ([]model.VehicleInfo, error) {
	body, err := c.post(ctx, ps, ps.BaseURL+vehiclesURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vehicles")
	}

	response := gjson.GetBytes(body, "fullyLoadedVehiclesResponse")
	if !response.Exists() {
		return nil, errors.New("vehicle list response does not contain expected data")
	}

	var vehicles []model.VehicleInfo

	for _, list := range []string{"completeVehicles", "vehiclesNotFullyLoaded"} {
		for _, item := range response.Get(list).Array() {
			var info model.VehicleInfo

			if err := json.Unmarshal([]byte(item.Raw), &info); err != nil {
				return nil, errors.Wrap(err, "could not decode vehicle")
			}

			if info.VIN == "" {
				continue
			}

			vehicles = append(vehicles, info)
		}
	}

	return vehicles, nil
}

func (c *vehicleClient) SelectVehicle(ctx context.Context, ps *PortalSession, vin string) error {
	if _, err := c.post(ctx, ps, ps.BaseURL+selectVehicleURI+url.PathEscape(vin)); err != nil {
		return errors.Wrapf(err, "failed to select vehicle %s", vin)
	}

	return nil
}

func (c *vehicleClient) VehicleStatus(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Vehicle, error) {
	base := vehicleBase(ps, info)

	status, err := c.post(ctx, ps, base+vehicleStatusURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vehicle status")
	}

	details, err := c.post(ctx, ps, base+vehicleDetailsURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vehicle details")
	}

	return parseVehicle(info, status, details), nil
}

func (c *vehicleClient) LatestTrip(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Trip, error) {
	body, err := c.post(ctx, ps, vehicleBase(ps, info)+latestTripURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trip statistics")
	}

	return parseLatestTrip(body)
}

func (c *vehicleClient) Position(ctx context.Context, ps *PortalSession, info model.VehicleInfo) (*model.Position, error) {
	body, err := c.post(ctx, ps, vehicleBase(ps, info)+positionURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}

	position := gjson.GetBytes(body, "position")
	if !position.Get("lat").Exists() || !position.Get("lng").Exists() {
		return nil, errors.New("position response does not contain expected data")
	}

	return &model.Position{
		Latitude:  position.Get("lat").Float(),
		Longitude: position.Get("lng").Float(),
	}, nil
}

func (c *vehicleClient) post(ctx context.Context, ps *PortalSession, u string) ([]byte, error) {
	req, err := newRequestBuilder(ctx, http.MethodPost, u).
		withProfile(jsonProfile).
		withReferer(ps.Referer).
		addHeader(csrfHeader, ps.XCSRFToken).
		build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp, http.StatusOK)
	}

	if !gjson.ValidBytes(resp.Body) {
		return nil, errors.New("response is not valid json")
	}

	if code := gjson.GetBytes(resp.Body, "errorCode").String(); code != okErrorCode {
		return nil, errors.Errorf("portal returned error code %q", code)
	}

	return resp.Body, nil
}

// vehicleBase returns the endpoint prefix of a vehicle dashboard, falling back to the session base.
func vehicleBase(ps *PortalSession, info model.VehicleInfo) string {
	if info.DashboardURL == "" {
		return ps.BaseURL
	}

	base, err := resolve(ps.BaseURL, info.DashboardURL)
	if err != nil {
		return ps.BaseURL
	}

	return strings.TrimSuffix(base, "/") + "/"
}

func parseVehicle(info model.VehicleInfo, status, details []byte) *model.Vehicle {
	data := gjson.GetBytes(status, "vehicleStatusData")
	render := data.Get("carRenderData")

	vehicle := &model.Vehicle{
		Info:          info,
		TotalRange:    int(data.Get("totalRange").Int()),
		FuelRange:     int(data.Get("primaryEngineRange").Int()),
		ElectricRange: int(data.Get("batteryRange").Int()),
		FuelLevel:     int(data.Get("fuelLevel").Int()),
		BatteryLevel:  int(data.Get("batteryLevel").Int()),
		CarLocked:     carLocked(data.Get("lockData")),
		Doors: model.Openings{
			FrontLeft:  openingState(render.Get("doors.left_front")),
			FrontRight: openingState(render.Get("doors.right_front")),
			RearLeft:   openingState(render.Get("doors.left_back")),
			RearRight:  openingState(render.Get("doors.right_back")),
			Tailgate:   openingState(render.Get("doors.trunk")),
			Hood:       openingState(render.Get("hood")),
		},
		Windows: model.Openings{
			FrontLeft:  openingState(render.Get("windows.left_front")),
			FrontRight: openingState(render.Get("windows.right_front")),
			RearLeft:   openingState(render.Get("windows.left_back")),
			RearRight:  openingState(render.Get("windows.right_back")),
		},
	}

	vehicleDetails := gjson.GetBytes(details, "vehicleDetails")

	if distance := digitsOnly(vehicleDetails.Get("distanceCovered").String()); distance != "" {
		vehicle.Odometer, _ = strconv.ParseFloat(distance, 64)
	}

	var timestamp []string
	for _, part := range vehicleDetails.Get("lastConnectionTimeStamp").Array() {
		timestamp = append(timestamp, part.String())
	}

	vehicle.LastConnection = strings.Join(timestamp, " ")

	return vehicle
}

func parseLatestTrip(body []byte) (*model.Trip, error) {
	var latest gjson.Result

	for _, trip := range gjson.GetBytes(body, "rtsViewModel.tripStatistics").Array() {
		if trip.Get("aggregatedStatistics").Exists() && trip.Get("aggregatedStatistics").Type != gjson.Null {
			latest = trip.Get("aggregatedStatistics")
		}
	}

	if !latest.Exists() {
		return nil, errors.New("trip statistics response does not contain any trip")
	}

	return &model.Trip{
		TripID:                     latest.Get("tripId").String(),
		Timestamp:                  latest.Get("timestamp").String(),
		Mileage:                    latest.Get("mileage").Float(),
		TravelTime:                 int(latest.Get("travelTime").Int()),
		AverageSpeed:               latest.Get("averageSpeed").Float(),
		AverageFuelConsumption:     latest.Get("averageFuelConsumption").Float(),
		AverageElectricConsumption: latest.Get("averageElectricConsumption").Float(),
	}, nil
}

func openingState(value gjson.Result) string {
	switch {
	case !value.Exists() || value.Int() == 0:
		return ""
	case value.Int() == closedValue:
		return openingClosed
	default:
		return openingOpen
	}
}

// carLocked reports true only when every lock reports the locked value.
func carLocked(locks gjson.Result) bool {
	found := false
	locked := true

	locks.ForEach(func(_, value gjson.Result) bool {
		found = true

		if value.Int() != lockedValue {
			locked = false

			return false
		}

		return true
	})

	return found && locked
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, value)
}
