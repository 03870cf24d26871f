// Package graphql holds the GraphQL operation envelopes posted to the home-security API.
// The envelopes are sent byte for byte as the vendor web client sends them, some wrapped in a
// batch array and some as a bare object, so they are kept as templates instead of being marshaled.
package graphql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is a ready to send GraphQL request body.
type Operation struct {
	Name string
	Body string
	// Batched operations are wrapped in an array and so is their response.
	Batched bool
}

// DataPath returns the gjson path of a field below "data" in the operation response.
func (o Operation) DataPath(field string) string {
	if o.Batched {
		return "0.data." + field
	}

	return "data." + field
}

// ErrorsPath returns the gjson path of the error list in the operation response.
func (o Operation) ErrorsPath() string {
	if o.Batched {
		return "0.errors"
	}

	return "errors"
}

const accountInstallationsTemplate = `[{"operationName":"AccountInstallations","variables":{"email":"%s"},"query":"query AccountInstallations($email: String!) {\n  account(email: $email) {\n    owainstallations {\n      giid\n      alias\n      type\n      subsidiary\n      dealerId\n      __typename\n    }\n    __typename\n  }\n}\n"}]`

const armStateTemplate = `[{"operationName":"ArmState","variables":{"giid":"%s"},"query":"query ArmState($giid: String!) {\n  installation(giid: $giid) {\n    armState {\n      type\n      statusType\n      date\n      name\n      changedVia\n      allowedForFirstLine\n      allowed\n      errorCodes {\n        value\n        message\n        __typename\n      }\n      __typename\n    }\n    __typename\n  }\n}\n"}]`

const doorLockTemplate = `[{"operationName":"DoorLock","variables":{"giid":"%s"},"query":"query DoorLock($giid: String!) {\n  installation(giid: $giid) {\n    doorlocks {\n      device {\n        deviceLabel\n        area\n        __typename\n      }\n      currentLockState\n      eventTime\n      secureModeActive\n      motorJam\n      userString\n      method\n      __typename\n    }\n    __typename\n  }\n}\n"}]` + "\n"

const smartPlugTemplate = `{"operationName":"SmartPlug","variables":{"giid":"%s"},"query":"query SmartPlug($giid: String!) {\n installation(giid: $giid) {\n smartplugs {\n device {\n deviceLabel\n area\n __typename\n }\n currentState\n icon\n isHazardous\n __typename\n }\n __typename\n }\n}\n"}`

const climateTemplate = `{"operationName":"Climate","variables":{"giid":"%s"},"query":"query Climate($giid: String!) {\n installation(giid: $giid) {\n climates {\n device {\n deviceLabel\n area\n gui {\n label\n __typename\n }\n __typename\n }\n humidityEnabled\n humidityTimestamp\n humidityValue\n temperatureTimestamp\n temperatureValue\n __typename\n }\n __typename\n }\n}\n"}`

const doorWindowTemplate = `{"operationName":"DoorWindow","variables":{"giid":"%s"},"query":"query DoorWindow($giid: String!) {\n installation(giid: $giid) {\n doorWindows {\n device {\n deviceLabel\n area\n __typename\n }\n type\n state\n wired\n reportTime\n __typename\n }\n __typename\n }\n}\n"}`

const broadbandTemplate = `{"operationName":"Broadband","variables":{"giid":"%s"},"query":"query Broadband($giid: String!) {\n installation(giid: $giid) {\n broadband {\n testDate\n isBroadbandConnected\n __typename\n }\n __typename\n }\n}\n"}`

const userTrackingsTemplate = `{"operationName":"userTrackings","variables":{"giid":"%s"},"query":"query userTrackings($giid: String!) {\n  installation(giid: $giid) {\n    userTrackings {\n      isCallingUser\n      webAccount\n      status\n      xbnContactId\n      currentLocationName\n      deviceId\n      name\n      currentLocationTimestamp\n      deviceName\n      currentLocationId\n      __typename\n    }\n    __typename\n  }\n}\n"}`

const armStateChangeTemplate = `[{"operationName":"%s","variables":{"giid":"%s","code":"%s"},"query":"mutation %s($giid: String!, $code: String!) {\n  %s(giid: $giid, code: $code)\n}\n"}]` + "\n"

const doorLockChangeTemplate = `[{"operationName":"%s","variables":{"giid":"%s","deviceLabel":"%s","input":{"code":"%s"}},"query":"mutation %s($giid: String!, $deviceLabel: String!, $input: LockDoorInput!) {\n  %s(giid: $giid, deviceLabel: $deviceLabel, input: $input)\n}\n"}]`

// AccountInstallations lists the installations of the account.
func AccountInstallations(email string) Operation {
	return Operation{Name: "AccountInstallations", Body: fmt.Sprintf(accountInstallationsTemplate, escape(email)), Batched: true}
}

// ArmState queries the alarm state.
func ArmState(giid string) Operation {
	return Operation{Name: "ArmState", Body: fmt.Sprintf(armStateTemplate, escape(giid)), Batched: true}
}

// DoorLocks queries all smart locks.
func DoorLocks(giid string) Operation {
	return Operation{Name: "DoorLock", Body: fmt.Sprintf(doorLockTemplate, escape(giid)), Batched: true}
}

// SmartPlugs queries all smart plugs.
func SmartPlugs(giid string) Operation {
	return Operation{Name: "SmartPlug", Body: fmt.Sprintf(smartPlugTemplate, escape(giid))}
}

// Climates queries all climate sensors.
func Climates(giid string) Operation {
	return Operation{Name: "Climate", Body: fmt.Sprintf(climateTemplate, escape(giid))}
}

// DoorWindows queries all door and window sensors.
func DoorWindows(giid string) Operation {
	return Operation{Name: "DoorWindow", Body: fmt.Sprintf(doorWindowTemplate, escape(giid))}
}

// Broadband queries the broadband connection test.
func Broadband(giid string) Operation {
	return Operation{Name: "Broadband", Body: fmt.Sprintf(broadbandTemplate, escape(giid))}
}

// UserTrackings queries user presence.
func UserTrackings(giid string) Operation {
	return Operation{Name: "userTrackings", Body: fmt.Sprintf(userTrackingsTemplate, escape(giid))}
}

// ArmTarget is a target alarm state.
type ArmTarget int

const (
	Disarm ArmTarget = iota
	ArmHome
	ArmAway
)

var armTargets = map[ArmTarget][2]string{
	Disarm:  {"disarm", "armStateDisarm"},
	ArmHome: {"armHome", "armStateArmHome"},
	ArmAway: {"armAway", "armStateArmAway"},
}

// ArmStateChange changes the alarm state.
func ArmStateChange(giid, code string, target ArmTarget) (Operation, error) {
	names, ok := armTargets[target]
	if !ok {
		return Operation{}, fmt.Errorf("graphql: unknown arm target %d", target)
	}

	operation, field := names[0], names[1]
	body := fmt.Sprintf(armStateChangeTemplate, operation, escape(giid), escape(code), operation, field)

	return Operation{Name: operation, Body: body, Batched: true}, nil
}

// DoorLockChange locks or unlocks a smart lock.
func DoorLockChange(giid, deviceLabel, code string, lock bool) Operation {
	operation := "DoorUnlock"
	if lock {
		operation = "DoorLock"
	}

	body := fmt.Sprintf(doorLockChangeTemplate, operation, escape(giid), escape(deviceLabel), escape(code), operation, operation)

	return Operation{Name: operation, Body: body, Batched: true}
}

// escape makes a value safe to place between JSON quotes.
func escape(value string) string {
	b, _ := json.Marshal(value) //nolint:errchkjson

	return strings.TrimSuffix(strings.TrimPrefix(string(b), `"`), `"`)
}
