package command_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/command"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/graphql"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/test/mocks"
)

const (
	testUser = "user@example.com"
	testGIID = "111"
	testCSRF = "csrf-token"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		channel string
		value   string
		want    command.Command
		wantErr bool
	}{
		{name: "disarm", channel: command.ChannelAlarmState, value: "DISARMED", want: command.Command{Operation: command.OpDisarm}},
		{name: "arm home", channel: command.ChannelAlarmState, value: "armed_home", want: command.Command{Operation: command.OpArmHome}},
		{name: "arm away", channel: command.ChannelAlarmState, value: "ARMED_AWAY", want: command.Command{Operation: command.OpArmAway}},
		{name: "lock", channel: command.ChannelLockState, value: "LOCKED", want: command.Command{Operation: command.OpLock}},
		{name: "unlock with switch value", channel: command.ChannelLockState, value: "OFF", want: command.Command{Operation: command.OpUnlock}},
		{name: "auto relock on", channel: command.ChannelAutoRelock, value: "ON", want: command.Command{Operation: command.OpAutoRelock, On: true}},
		{name: "plug off", channel: command.ChannelPlugState, value: "false", want: command.Command{Operation: command.OpSmartPlug}},
		{name: "volume", channel: command.ChannelVolume, value: "high", want: command.Command{Operation: command.OpLockVolume, Value: "HIGH"}},
		{name: "voice level", channel: command.ChannelVoiceLevel, value: "ESSENTIAL", want: command.Command{Operation: command.OpLockVoiceLevel, Value: "ESSENTIAL"}},
		{name: "unknown alarm state", channel: command.ChannelAlarmState, value: "PANIC", wantErr: true},
		{name: "unknown channel", channel: "temperature", value: "21", wantErr: true},
		{name: "empty volume", channel: command.ChannelVolume, value: " ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := command.Parse(tt.channel, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, command.ErrUnsupported)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func lockDevice() model.DeviceRecord {
	return model.DeviceRecord{
		DeviceID:       "3C4D5E6F",
		InstallationID: testGIID,
		Kind:           model.KindSmartLock,
		Payload: &model.SmartLock{
			Device:           model.DeviceRef{DeviceLabel: "3C4D 5E6F"},
			CurrentLockState: model.LockStateUnlocked,
			Details: &model.SmartLockDetails{
				VolumeSettings: &model.VolumeSettings{
					Volume:               "LOW",
					VoiceLevel:           "ESSENTIAL",
					AvailableVolumes:     []string{"SILENCE", "LOW", "HIGH"},
					AvailableVoiceLevels: []string{"ESSENTIAL", "NORMAL"},
				},
			},
		},
	}
}

func preparedClient(t *testing.T) *mocks.SecurityClient {
	t.Helper()

	client := mocks.NewSecurityClient(t)
	client.On("InstallationCSRF", mock.Anything, testGIID).Return(testCSRF, nil)
	client.On("SelectInstallation", mock.Anything, testGIID).Return(nil)
	client.On("AuthLogin", mock.Anything, testUser).Return(http.StatusOK, nil)

	return client
}

func TestDispatcher_MissingPinCode(t *testing.T) {
	t.Parallel()

	client := mocks.NewSecurityClient(t)

	status, err := command.NewDispatcher(client).Dispatch(
		context.Background(),
		testUser,
		model.Installation{ID: testGIID, Name: "Home"},
		lockDevice(),
		command.Command{Operation: command.OpLock},
	)

	assert.ErrorIs(t, err, command.ErrMissingPinCode)
	assert.Zero(t, status)
	assert.Empty(t, client.Calls)
}

func TestDispatcher_Lock(t *testing.T) {
	t.Parallel()

	client := preparedClient(t)
	client.On("Mutate", mock.Anything, graphql.DoorLockChange(testGIID, "3C4D 5E6F", "1234", true)).
		Return(http.StatusOK, nil).Once()

	status, err := command.NewDispatcher(client).Dispatch(
		context.Background(),
		testUser,
		model.Installation{ID: testGIID, Name: "Home", PinCode: "1234"},
		lockDevice(),
		command.Command{Operation: command.OpLock},
	)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestDispatcher_ArmAway(t *testing.T) {
	t.Parallel()

	op, err := graphql.ArmStateChange(testGIID, "1234", graphql.ArmAway)
	require.NoError(t, err)

	client := preparedClient(t)
	client.On("Mutate", mock.Anything, op).Return(http.StatusOK, nil).Once()

	status, err := command.NewDispatcher(client).Dispatch(
		context.Background(),
		testUser,
		model.Installation{ID: testGIID, PinCode: "1234"},
		model.DeviceRecord{DeviceID: "alarm111", Kind: model.KindAlarm, Payload: &model.Alarm{}},
		command.Command{Operation: command.OpArmAway},
	)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestDispatcher_FormCommands(t *testing.T) {
	t.Parallel()

	plug := model.DeviceRecord{
		DeviceID: "AABB",
		Kind:     model.KindSmartPlug,
		Payload:  &model.SmartPlug{Device: model.DeviceRef{DeviceLabel: "AA BB"}},
	}

	tests := []struct {
		name     string
		device   model.DeviceRecord
		cmd      command.Command
		wantPath string
		wantBody string
	}{
		{
			name:     "auto relock on",
			device:   lockDevice(),
			cmd:      command.Command{Operation: command.OpAutoRelock, On: true},
			wantPath: "/settings/setautorelock.cmd",
			wantBody: "enabledDoorLocks=3C4D+5E6F&doorLockDevices%5B0%5D.autoRelockEnabled=true" +
				"&_doorLockDevices%5B0%5D.autoRelockEnabled=on&_csrf=" + testCSRF,
		},
		{
			name:     "auto relock off",
			device:   lockDevice(),
			cmd:      command.Command{Operation: command.OpAutoRelock},
			wantPath: "/settings/setautorelock.cmd",
			wantBody: "enabledDoorLocks=&doorLockDevices%5B0%5D.autoRelockEnabled=true" +
				"&_doorLockDevices%5B0%5D.autoRelockEnabled=on&_csrf=" + testCSRF,
		},
		{
			name:     "volume keeps the voice level",
			device:   lockDevice(),
			cmd:      command.Command{Operation: command.OpLockVolume, Value: "HIGH"},
			wantPath: "/settings/setvolume.cmd",
			wantBody: "keypad.volume=MEDIUM&keypad.beepOnKeypress=true&_keypad.beepOnKeypress=on&siren.volume=MEDIUM" +
				"&voiceDevice.volume=MEDIUM&doorLock.volume=HIGH&doorLock.voiceLevel=ESSENTIAL" +
				"&_devices%5B0%5D.on=on&devices%5B1%5D.on=true&_devices%5B1%5D.on=on&devices%5B2%5D.on=true" +
				"&_devices%5B2%5D.on=on&_devices%5B3%5D.on=on&_keypad.keypadsPlayChime=on&_siren.sirensPlayChime=on" +
				"&_csrf=" + testCSRF,
		},
		{
			name:     "smart plug on",
			device:   plug,
			cmd:      command.Command{Operation: command.OpSmartPlug, On: true},
			wantPath: "/settings/smartplug/onoffplug.cmd",
			wantBody: "targetDeviceLabel=AA+BB&targetOn=on&_csrf=" + testCSRF,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := preparedClient(t)
			client.On("PostForm", mock.Anything, tt.wantPath, tt.wantBody).Return(http.StatusOK, nil).Once()

			status, err := command.NewDispatcher(client).Dispatch(
				context.Background(),
				testUser,
				model.Installation{ID: testGIID},
				tt.device,
				tt.cmd,
			)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, status)
		})
	}
}

func TestDispatcher_RejectsInvalidCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		device model.DeviceRecord
		cmd    command.Command
	}{
		{
			name:   "volume outside of the available list",
			device: lockDevice(),
			cmd:    command.Command{Operation: command.OpLockVolume, Value: "LOUDEST"},
		},
		{
			name:   "voice level outside of the available list",
			device: lockDevice(),
			cmd:    command.Command{Operation: command.OpLockVoiceLevel, Value: "CHATTY"},
		},
		{
			name:   "lock command sent to a smart plug",
			device: model.DeviceRecord{DeviceID: "AABB", Kind: model.KindSmartPlug, Payload: &model.SmartPlug{}},
			cmd:    command.Command{Operation: command.OpLock},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := mocks.NewSecurityClient(t)

			_, err := command.NewDispatcher(client).Dispatch(
				context.Background(),
				testUser,
				model.Installation{ID: testGIID, PinCode: "1234"},
				tt.device,
				tt.cmd,
			)

			assert.ErrorIs(t, err, command.ErrUnsupported)
			assert.Empty(t, client.Calls)
		})
	}
}
