// Package command decodes host commands and sends them to the home-security portal.
package command

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

var (
	// ErrMissingPinCode is returned for privileged operations on an installation without a PIN code.
	ErrMissingPinCode = errors.New("pin code is not configured for the installation")
	// ErrUnknownDevice is returned when the target device is not known.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrUnsupported is returned for channels or values that can not be sent to the device.
	ErrUnsupported = errors.New("unsupported command")
)

// Operation is a command understood by the dispatcher.
type Operation int

const (
	OpDisarm Operation = iota + 1
	OpArmHome
	OpArmAway
	OpLock
	OpUnlock
	OpAutoRelock
	OpLockVolume
	OpLockVoiceLevel
	OpSmartPlug
)

var operationNames = map[Operation]string{
	OpDisarm:         "disarm",
	OpArmHome:        "arm_home",
	OpArmAway:        "arm_away",
	OpLock:           "lock",
	OpUnlock:         "unlock",
	OpAutoRelock:     "auto_relock",
	OpLockVolume:     "lock_volume",
	OpLockVoiceLevel: "lock_voice_level",
	OpSmartPlug:      "smart_plug",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}

	return "unknown"
}

// Privileged reports whether the operation needs the installation PIN code.
func (o Operation) Privileged() bool {
	switch o { //nolint:exhaustive
	case OpDisarm, OpArmHome, OpArmAway, OpLock, OpUnlock:
		return true
	default:
		return false
	}
}

// Kind returns the device kind the operation applies to.
func (o Operation) Kind() model.Kind {
	switch o { //nolint:exhaustive
	case OpDisarm, OpArmHome, OpArmAway:
		return model.KindAlarm
	case OpSmartPlug:
		return model.KindSmartPlug
	default:
		return model.KindSmartLock
	}
}

// Channels accepted by Parse.
const (
	ChannelAlarmState = "alarm_state"
	ChannelLockState  = "lock_state"
	ChannelAutoRelock = "auto_relock"
	ChannelVolume     = "volume"
	ChannelVoiceLevel = "voice_level"
	ChannelPlugState  = "plug_state"
)

// Command is a decoded host command.
type Command struct {
	Operation Operation
	// On is the requested switch position of auto relock and smart plug commands.
	On bool
	// Value is the requested volume or voice level.
	Value string
}

// Parse decodes a channel and value pair sent by the host.
func Parse(channel, value string) (Command, error) {
	value = strings.TrimSpace(value)

	switch channel {
	case ChannelAlarmState:
		switch strings.ToUpper(value) {
		case model.ArmStateDisarmed:
			return Command{Operation: OpDisarm}, nil
		case model.ArmStateArmedHome:
			return Command{Operation: OpArmHome}, nil
		case model.ArmStateArmedAway:
			return Command{Operation: OpArmAway}, nil
		}
	case ChannelLockState:
		switch strings.ToUpper(value) {
		case model.LockStateLocked, "ON", "TRUE":
			return Command{Operation: OpLock}, nil
		case model.LockStateUnlocked, "OFF", "FALSE":
			return Command{Operation: OpUnlock}, nil
		}
	case ChannelAutoRelock, ChannelPlugState:
		on, ok := parseSwitch(value)
		if !ok {
			break
		}

		op := OpAutoRelock
		if channel == ChannelPlugState {
			op = OpSmartPlug
		}

		return Command{Operation: op, On: on}, nil
	case ChannelVolume, ChannelVoiceLevel:
		if value == "" {
			break
		}

		op := OpLockVolume
		if channel == ChannelVoiceLevel {
			op = OpLockVoiceLevel
		}

		return Command{Operation: op, Value: strings.ToUpper(value)}, nil
	}

	return Command{}, errors.Wrapf(ErrUnsupported, "channel %q, value %q", channel, value)
}

func parseSwitch(value string) (bool, bool) {
	switch strings.ToUpper(value) {
	case "ON", "TRUE", "1":
		return true, true
	case "OFF", "FALSE", "0":
		return false, true
	default:
		return false, false
	}
}
