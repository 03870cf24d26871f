package command

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/api"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/graphql"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

const (
	autoRelockURI = "/settings/setautorelock.cmd"
	volumeURI     = "/settings/setvolume.cmd"
	smartPlugURI  = "/settings/smartplug/onoffplug.cmd"

	autoRelockFlags = "doorLockDevices%5B0%5D.autoRelockEnabled=true&_doorLockDevices%5B0%5D.autoRelockEnabled=on"
	volumePrefix    = "keypad.volume=MEDIUM&keypad.beepOnKeypress=true&_keypad.beepOnKeypress=on&siren.volume=MEDIUM" +
		"&voiceDevice.volume=MEDIUM"
	volumeSuffix = "&_devices%5B0%5D.on=on&devices%5B1%5D.on=true&_devices%5B1%5D.on=on&devices%5B2%5D.on=true" +
		"&_devices%5B2%5D.on=on&_devices%5B3%5D.on=on&_keypad.keypadsPlayChime=on&_siren.sirensPlayChime=on"
)

// Dispatcher sends commands to the portal.
type Dispatcher interface {
	// Dispatch sends the command to the device of the installation and returns the HTTP status of the final call.
	// A status of 200 means the portal accepted the command.
	Dispatch(ctx context.Context, username string, installation model.Installation, device model.DeviceRecord, cmd Command) (int, error)
}

type dispatcher struct {
	client api.SecurityClient
}

// NewDispatcher creates a new command dispatcher.
func NewDispatcher(client api.SecurityClient) Dispatcher {
	return &dispatcher{client: client}
}

func (d *dispatcher) Dispatch(
	ctx context.Context,
	username string,
	installation model.Installation,
	device model.DeviceRecord,
	cmd Command,
) (int, error) {
	status, err := d.dispatch(ctx, username, installation, device, cmd)

	result := metrics.ResultSuccess
	if err != nil || status != http.StatusOK {
		result = metrics.ResultFailure
	}

	metrics.CommandCounter.WithLabelValues(cmd.Operation.String(), result).Inc()

	return status, err
}

func (d *dispatcher) dispatch(
	ctx context.Context,
	username string,
	installation model.Installation,
	device model.DeviceRecord,
	cmd Command,
) (int, error) {
	if device.Kind != cmd.Operation.Kind() {
		return 0, errors.Wrapf(ErrUnsupported, "%s can not be sent to a %s device", cmd.Operation, device.Kind)
	}

	if cmd.Operation.Privileged() && !installation.HasPinCode() {
		log.WithField("giid", installation.ID).WithField("operation", cmd.Operation).
			Error("command: pin code is not configured for the installation, check the pin code configuration")

		return 0, ErrMissingPinCode
	}

	body, err := formBody(device, cmd)
	if err != nil {
		return 0, err
	}

	csrf, err := api.PrepareInstallation(ctx, d.client, username, installation.ID)
	if err != nil {
		return 0, err
	}

	log.WithField("device_id", device.DeviceID).WithField("operation", cmd.Operation).Info("command: sending command")

	switch cmd.Operation {
	case OpDisarm, OpArmHome, OpArmAway:
		op, err := graphql.ArmStateChange(installation.ID, installation.PinCode, armTarget(cmd.Operation))
		if err != nil {
			return 0, err
		}

		return d.client.Mutate(ctx, op)
	case OpLock, OpUnlock:
		lock, ok := device.Payload.(*model.SmartLock)
		if !ok {
			return 0, errors.Wrap(ErrUnsupported, "device is not a smart lock")
		}

		op := graphql.DoorLockChange(installation.ID, lock.Device.DeviceLabel, installation.PinCode, cmd.Operation == OpLock)

		return d.client.Mutate(ctx, op)
	case OpAutoRelock:
		return d.client.PostForm(ctx, autoRelockURI, body+"&_csrf="+csrf)
	case OpLockVolume, OpLockVoiceLevel:
		return d.client.PostForm(ctx, volumeURI, body+"&_csrf="+csrf)
	case OpSmartPlug:
		return d.client.PostForm(ctx, smartPlugURI, body+"&_csrf="+csrf)
	default:
		return 0, errors.Wrapf(ErrUnsupported, "operation %d", cmd.Operation)
	}
}

// formBody builds and validates the settings form of non GraphQL commands, without the CSRF token.
func formBody(device model.DeviceRecord, cmd Command) (string, error) {
	switch cmd.Operation { //nolint:exhaustive
	case OpAutoRelock:
		if !cmd.On {
			return "enabledDoorLocks=&" + autoRelockFlags, nil
		}

		return "enabledDoorLocks=" + relockID(device.DeviceID) + "&" + autoRelockFlags, nil
	case OpLockVolume, OpLockVoiceLevel:
		return volumeBody(device, cmd)
	case OpSmartPlug:
		state := "off"
		if cmd.On {
			state = "on"
		}

		plug, ok := device.Payload.(*model.SmartPlug)
		if !ok {
			return "", errors.Wrap(ErrUnsupported, "device is not a smart plug")
		}

		return "targetDeviceLabel=" + url.QueryEscape(plug.Device.DeviceLabel) + "&targetOn=" + state, nil
	default:
		return "", nil
	}
}

func volumeBody(device model.DeviceRecord, cmd Command) (string, error) {
	lock, ok := device.Payload.(*model.SmartLock)
	if !ok || lock.Details == nil || lock.Details.VolumeSettings == nil {
		return "", errors.Wrap(ErrUnsupported, "volume settings of the smart lock are not known")
	}

	settings := lock.Details.VolumeSettings
	volume, voiceLevel := settings.Volume, settings.VoiceLevel

	if cmd.Operation == OpLockVolume {
		if !slices.Contains(settings.AvailableVolumes, cmd.Value) {
			return "", errors.Wrapf(ErrUnsupported, "volume %q is not one of %v", cmd.Value, settings.AvailableVolumes)
		}

		volume = cmd.Value
	} else {
		if !slices.Contains(settings.AvailableVoiceLevels, cmd.Value) {
			return "", errors.Wrapf(ErrUnsupported, "voice level %q is not one of %v", cmd.Value, settings.AvailableVoiceLevels)
		}

		voiceLevel = cmd.Value
	}

	return volumePrefix +
		"&doorLock.volume=" + url.QueryEscape(volume) +
		"&doorLock.voiceLevel=" + url.QueryEscape(voiceLevel) +
		volumeSuffix, nil
}

// relockID inserts an encoded space after the fourth character, the way the portal lists lock labels.
func relockID(id string) string {
	if len(id) <= 4 {
		return id
	}

	return id[:4] + "+" + id[4:]
}

func armTarget(op Operation) graphql.ArmTarget {
	switch op { //nolint:exhaustive
	case OpArmHome:
		return graphql.ArmHome
	case OpArmAway:
		return graphql.ArmAway
	default:
		return graphql.Disarm
	}
}
