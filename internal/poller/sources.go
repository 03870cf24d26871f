package poller

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/graphql"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

const presenceActive = "ACTIVE"

// source polls a single kind of an installation.
type source struct {
	kind model.Kind
	// list sources are pruned after every successful fetch.
	list      bool
	operation func(giid string) graphql.Operation
	field     string
	decode    func(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error)
}

// installationSources are polled in this order.
var installationSources = []source{
	{
		kind:      model.KindAlarm,
		operation: graphql.ArmState,
		field:     "installation.armState",
		decode:    decodeAlarm,
	},
	{
		kind:      model.KindSmartLock,
		list:      true,
		operation: graphql.DoorLocks,
		field:     "installation.doorlocks",
		decode:    decodeSmartLocks,
	},
	{
		kind:      model.KindClimate,
		list:      true,
		operation: graphql.Climates,
		field:     "installation.climates",
		decode:    decodeClimates,
	},
	{
		kind:      model.KindDoorWindow,
		list:      true,
		operation: graphql.DoorWindows,
		field:     "installation.doorWindows",
		decode:    decodeDoorWindows,
	},
	{
		kind:      model.KindUserPresence,
		list:      true,
		operation: graphql.UserTrackings,
		field:     "installation.userTrackings",
		decode:    decodeUserPresences,
	},
	{
		kind:      model.KindSmartPlug,
		list:      true,
		operation: graphql.SmartPlugs,
		field:     "installation.smartplugs",
		decode:    decodeSmartPlugs,
	},
	{
		kind:      model.KindBroadband,
		operation: graphql.Broadband,
		field:     "installation.broadband",
		decode:    decodeBroadband,
	},
}

func newRecord(inst model.Installation, kind model.Kind, id, label, location string, payload model.Payload) model.DeviceRecord {
	return model.DeviceRecord{
		DeviceID:         model.Normalize(id),
		Label:            label,
		InstallationID:   inst.ID,
		InstallationName: inst.Name,
		Location:         location,
		Kind:             kind,
		Payload:          payload,
	}
}

func decodeObject(raw gjson.Result, target interface{}) error {
	if !raw.IsObject() {
		return errors.New("response does not contain expected object")
	}

	if err := json.Unmarshal([]byte(raw.Raw), target); err != nil {
		return errors.Wrap(err, "could not decode object")
	}

	return nil
}

func decodeList[T any](raw gjson.Result) ([]*T, error) {
	if !raw.IsArray() {
		return nil, errors.New("response does not contain expected list")
	}

	var items []*T

	if err := json.Unmarshal([]byte(raw.Raw), &items); err != nil {
		return nil, errors.Wrap(err, "could not decode list")
	}

	return items, nil
}

func decodeAlarm(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	alarm := &model.Alarm{}

	if err := decodeObject(raw, alarm); err != nil {
		return nil, err
	}

	return []model.DeviceRecord{newRecord(inst, model.KindAlarm, "alarm"+inst.ID, inst.Name, "", alarm)}, nil
}

func decodeSmartLocks(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	locks, err := decodeList[model.SmartLock](raw)
	if err != nil {
		return nil, err
	}

	records := make([]model.DeviceRecord, 0, len(locks))

	for _, lock := range locks {
		if lock == nil || lock.Device.DeviceLabel == "" {
			continue
		}

		records = append(records, newRecord(inst, model.KindSmartLock, lock.Device.DeviceLabel, lock.Device.DeviceLabel, lock.Device.Area, lock))
	}

	return records, nil
}

func decodeClimates(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	climates, err := decodeList[model.Climate](raw)
	if err != nil {
		return nil, err
	}

	records := make([]model.DeviceRecord, 0, len(climates))

	for _, climate := range climates {
		if climate == nil || climate.Device.DeviceLabel == "" {
			continue
		}

		label := climate.Device.GUI.Label
		if label == "" {
			label = climate.Device.DeviceLabel
		}

		records = append(records, newRecord(inst, model.KindClimate, climate.Device.DeviceLabel, label, climate.Device.Area, climate))
	}

	return records, nil
}

func decodeDoorWindows(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	sensors, err := decodeList[model.DoorWindow](raw)
	if err != nil {
		return nil, err
	}

	records := make([]model.DeviceRecord, 0, len(sensors))

	for _, sensor := range sensors {
		if sensor == nil || sensor.Device.DeviceLabel == "" {
			continue
		}

		records = append(records, newRecord(inst, model.KindDoorWindow, sensor.Device.DeviceLabel, sensor.Device.DeviceLabel, sensor.Device.Area, sensor))
	}

	return records, nil
}

func decodeUserPresences(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	users, err := decodeList[model.UserPresence](raw)
	if err != nil {
		return nil, err
	}

	records := make([]model.DeviceRecord, 0, len(users))

	for _, user := range users {
		if user == nil || user.Status != presenceActive {
			continue
		}

		records = append(records, newRecord(inst, model.KindUserPresence, "up"+user.WebAccount+inst.ID, user.Name, "", user))
	}

	return records, nil
}

func decodeSmartPlugs(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	plugs, err := decodeList[model.SmartPlug](raw)
	if err != nil {
		return nil, err
	}

	records := make([]model.DeviceRecord, 0, len(plugs))

	for _, plug := range plugs {
		if plug == nil || plug.Device.DeviceLabel == "" {
			continue
		}

		records = append(records, newRecord(inst, model.KindSmartPlug, plug.Device.DeviceLabel, plug.Device.DeviceLabel, plug.Device.Area, plug))
	}

	return records, nil
}

func decodeBroadband(inst model.Installation, raw gjson.Result) ([]model.DeviceRecord, error) {
	broadband := &model.Broadband{}

	if err := decodeObject(raw, broadband); err != nil {
		return nil, err
	}

	return []model.DeviceRecord{newRecord(inst, model.KindBroadband, "bc"+inst.ID, inst.Name, "", broadband)}, nil
}
