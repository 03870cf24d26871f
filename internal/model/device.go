package model

import (
	"regexp"
	"time"
)

// Kind identifies the sub-resource a device record was produced from.
type Kind string

// Supported kinds.
const (
	KindAlarm        Kind = "alarm"
	KindSmartLock    Kind = "smartlock"
	KindSmartPlug    Kind = "smartplug"
	KindClimate      Kind = "climate"
	KindDoorWindow   Kind = "doorwindow"
	KindUserPresence Kind = "userpresence"
	KindBroadband    Kind = "broadband"
	KindVehicle      Kind = "vehicle"
	KindTrip         Kind = "trip"
	KindLocation     Kind = "location"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Payload is the kind specific body of a record. Implemented only by types in this package.
type Payload interface {
	Kind() Kind

	clone() Payload
}

// DeviceRecord is a single device or vehicle view kept by the registry.
type DeviceRecord struct {
	DeviceID         string    `json:"deviceId"`
	Label            string    `json:"label"`
	InstallationID   string    `json:"installationId"`
	InstallationName string    `json:"installationName"`
	Location         string    `json:"location,omitempty"`
	Kind             Kind      `json:"kind"`
	Payload          Payload   `json:"payload"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the record.
func (r DeviceRecord) Clone() DeviceRecord {
	if r.Payload != nil {
		r.Payload = r.Payload.clone()
	}

	return r
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Normalize strips every non alphanumeric character from a vendor identifier.
func Normalize(id string) string {
	return nonAlphanumeric.ReplaceAllString(id, "")
}

// Installation is a site listed for the account.
type Installation struct {
	ID      string `json:"giid"`
	Name    string `json:"alias"`
	PinCode string `json:"-"`
}

// HasPinCode reports whether a PIN is configured for the installation.
func (i Installation) HasPinCode() bool {
	return i.PinCode != ""
}
