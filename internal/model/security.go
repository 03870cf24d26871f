package model

import (
	"slices"
)

// Lock states reported by the portal.
const (
	LockStateLocked   = "LOCKED"
	LockStateUnlocked = "UNLOCKED"
	LockStatePending  = "PENDING"
)

// Alarm arm states.
const (
	ArmStateDisarmed  = "DISARMED"
	ArmStateArmedHome = "ARMED_HOME"
	ArmStateArmedAway = "ARMED_AWAY"
)

// DeviceRef identifies a physical device inside an installation.
type DeviceRef struct {
	DeviceLabel string `json:"deviceLabel"`
	Area        string `json:"area"`
}

// ErrorCode is an alarm error entry.
type ErrorCode struct {
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Alarm is the arm state of an installation.
type Alarm struct {
	Type                string      `json:"type"`
	StatusType          string      `json:"statusType"`
	Date                string      `json:"date"`
	Name                string      `json:"name"`
	ChangedVia          string      `json:"changedVia"`
	AllowedForFirstLine bool        `json:"allowedForFirstLine"`
	Allowed             bool        `json:"allowed"`
	ErrorCodes          []ErrorCode `json:"errorCodes"`
}

func (a *Alarm) Kind() Kind { return KindAlarm }

func (a *Alarm) clone() Payload {
	c := *a
	c.ErrorCodes = slices.Clone(a.ErrorCodes)

	return &c
}

// VolumeSettings are the smart lock sound settings.
type VolumeSettings struct {
	Volume               string   `json:"volume"`
	VoiceLevel           string   `json:"voiceLevel"`
	AvailableVolumes     []string `json:"availableVolumes"`
	AvailableVoiceLevels []string `json:"availableVoiceLevels"`
}

// SmartLockDetails come from the legacy door lock overview endpoint.
type SmartLockDetails struct {
	AutoRelockEnabled bool            `json:"autoRelockEnabled"`
	VolumeSettings    *VolumeSettings `json:"doorLockVolumeSettings"`
}

// SmartLock is a single door lock.
type SmartLock struct {
	Device           DeviceRef         `json:"device"`
	CurrentLockState string            `json:"currentLockState"`
	EventTime        string            `json:"eventTime"`
	SecureModeActive bool              `json:"secureModeActive"`
	MotorJam         bool              `json:"motorJam"`
	UserString       string            `json:"userString"`
	Method           string            `json:"method"`
	Details          *SmartLockDetails `json:"details,omitempty"`
}

func (s *SmartLock) Kind() Kind { return KindSmartLock }

func (s *SmartLock) clone() Payload {
	c := *s

	if s.Details != nil {
		d := *s.Details

		if d.VolumeSettings != nil {
			v := *d.VolumeSettings
			v.AvailableVolumes = slices.Clone(v.AvailableVolumes)
			v.AvailableVoiceLevels = slices.Clone(v.AvailableVoiceLevels)
			d.VolumeSettings = &v
		}

		c.Details = &d
	}

	return &c
}

// Pending reports whether the lock is still moving to its target state.
func (s *SmartLock) Pending() bool {
	return s.CurrentLockState == LockStatePending
}

// SmartPlug is a switchable plug.
type SmartPlug struct {
	Device       DeviceRef `json:"device"`
	CurrentState string    `json:"currentState"`
	Icon         string    `json:"icon"`
	IsHazardous  bool      `json:"isHazardous"`
}

func (s *SmartPlug) Kind() Kind { return KindSmartPlug }

func (s *SmartPlug) clone() Payload {
	c := *s

	return &c
}

// ClimateDevice carries the GUI label next to the device reference.
type ClimateDevice struct {
	DeviceLabel string `json:"deviceLabel"`
	Area        string `json:"area"`
	GUI         struct {
		Label string `json:"label"`
	} `json:"gui"`
}

// Climate is a temperature and humidity sensor.
type Climate struct {
	Device               ClimateDevice `json:"device"`
	HumidityEnabled      bool          `json:"humidityEnabled"`
	HumidityTimestamp    string        `json:"humidityTimestamp"`
	HumidityValue        float64       `json:"humidityValue"`
	TemperatureTimestamp string        `json:"temperatureTimestamp"`
	TemperatureValue     float64       `json:"temperatureValue"`
}

func (c *Climate) Kind() Kind { return KindClimate }

func (c *Climate) clone() Payload {
	cc := *c

	return &cc
}

// DoorWindow is an opening sensor.
type DoorWindow struct {
	Device     DeviceRef `json:"device"`
	Type       string    `json:"type"`
	State      string    `json:"state"`
	Wired      bool      `json:"wired"`
	ReportTime string    `json:"reportTime"`
}

func (d *DoorWindow) Kind() Kind { return KindDoorWindow }

func (d *DoorWindow) clone() Payload {
	c := *d

	return &c
}

// UserPresence is a tracked user of an installation.
type UserPresence struct {
	IsCallingUser            bool   `json:"isCallingUser"`
	WebAccount               string `json:"webAccount"`
	Status                   string `json:"status"`
	XbnContactID             string `json:"xbnContactId"`
	CurrentLocationName      string `json:"currentLocationName"`
	DeviceID                 string `json:"deviceId"`
	Name                     string `json:"name"`
	CurrentLocationTimestamp string `json:"currentLocationTimestamp"`
	DeviceName               string `json:"deviceName"`
	CurrentLocationID        string `json:"currentLocationId"`
}

func (u *UserPresence) Kind() Kind { return KindUserPresence }

func (u *UserPresence) clone() Payload {
	c := *u

	return &c
}

// Broadband is the installation broadband connection test result.
type Broadband struct {
	TestDate             string `json:"testDate"`
	IsBroadbandConnected bool   `json:"isBroadbandConnected"`
}

func (b *Broadband) Kind() Kind { return KindBroadband }

func (b *Broadband) clone() Payload {
	c := *b

	return &c
}
