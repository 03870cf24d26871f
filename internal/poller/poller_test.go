package poller_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/api"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/graphql"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/poller"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/registry"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/test/mocks"
)

const (
	testUser = "user@example.com"
	testGIID = "111"
)

var testInstallation = model.Installation{ID: testGIID, Name: "Home", PinCode: "1234"}

type subscriber struct {
	added   []string
	changed []string
	removed []string
}

func (s *subscriber) OnDeviceAdded(record model.DeviceRecord)   { s.added = append(s.added, record.DeviceID) }
func (s *subscriber) OnDeviceChanged(record model.DeviceRecord) { s.changed = append(s.changed, record.DeviceID) }
func (s *subscriber) OnDeviceRemoved(record model.DeviceRecord) { s.removed = append(s.removed, record.DeviceID) }

func operation(name string) interface{} {
	return mock.MatchedBy(func(op graphql.Operation) bool { return op.Name == name })
}

func otherOperations(names ...string) interface{} {
	return mock.MatchedBy(func(op graphql.Operation) bool {
		for _, name := range names {
			if op.Name == name {
				return false
			}
		}

		return true
	})
}

func prepared(t *testing.T) *mocks.SecurityClient {
	t.Helper()

	client := mocks.NewSecurityClient(t)
	client.On("InstallationCSRF", mock.Anything, testGIID).Return("csrf", nil)
	client.On("SelectInstallation", mock.Anything, testGIID).Return(nil)
	client.On("AuthLogin", mock.Anything, testUser).Return(http.StatusOK, nil)

	return client
}

func doorLocks(state string) []byte {
	return []byte(`[{"data":{"installation":{"doorlocks":[{"device":{"deviceLabel":"3C4D 5E6F","area":"Hall"},` +
		`"currentLockState":"` + state + `","method":"CODE"}]}}}]`)
}

func TestPoller_PollInstallation_SkipsFailingKinds(t *testing.T) {
	t.Parallel()

	client := prepared(t)
	client.On("Query", mock.Anything, operation("ArmState")).
		Return([]byte(`[{"data":{"installation":{"armState":"not an object"}}}]`), nil)
	client.On("Query", mock.Anything, operation("DoorLock")).Return(doorLocks(model.LockStateLocked), nil)
	client.On("Query", mock.Anything, otherOperations("ArmState", "DoorLock")).Return(nil, errors.New("unavailable"))
	client.On("SmartLockDetails", mock.Anything, "3C4D 5E6F").Return(nil, errors.New("not found"))

	store := registry.NewStore()
	alarm := model.DeviceRecord{
		DeviceID:       "alarm111",
		InstallationID: testGIID,
		Kind:           model.KindAlarm,
		Payload:        &model.Alarm{StatusType: model.ArmStateArmedAway},
	}
	_, err := store.Upsert(alarm)
	require.NoError(t, err)

	sub := &subscriber{}
	store.Subscribe(sub)

	result, err := poller.New(client, nil, store).PollInstallation(context.Background(), testUser, testInstallation)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Failed)
	assert.False(t, result.Pending)
	assert.Equal(t, []string{"3C4D5E6F"}, sub.added)
	assert.Empty(t, sub.changed)

	stored, ok := store.Get("alarm111")
	require.True(t, ok)
	assert.True(t, registry.Equal(alarm, stored))

	lock, ok := store.Get("3C4D5E6F")
	require.True(t, ok)
	assert.Equal(t, "Hall", lock.Location)
	assert.Equal(t, "Home", lock.InstallationName)
}

func TestPoller_PollInstallation_AllKinds(t *testing.T) {
	t.Parallel()

	client := prepared(t)
	responses := map[string]string{
		"ArmState":   `[{"data":{"installation":{"armState":{"statusType":"DISARMED","date":"2026-10-19T10:00:00.000Z"}}}}]`,
		"DoorLock":   string(doorLocks(model.LockStatePending)),
		"Climate":    `{"data":{"installation":{"climates":[{"device":{"deviceLabel":"AA BB","area":"Kitchen","gui":{"label":"Smoke detector"}},"temperatureValue":21.5}]}}}`,
		"DoorWindow": `{"data":{"installation":{"doorWindows":[{"device":{"deviceLabel":"CC DD","area":"Door"},"state":"CLOSE"}]}}}`,
		"userTrackings": `{"data":{"installation":{"userTrackings":[` +
			`{"webAccount":"user@example.com","status":"ACTIVE","name":"User"},{"webAccount":"other","status":"INACTIVE"}]}}}`,
		"SmartPlug": `{"data":{"installation":{"smartplugs":[{"device":{"deviceLabel":"EE FF","area":"Office"},"currentState":"ON"}]}}}`,
		"Broadband": `{"data":{"installation":{"broadband":{"testDate":"2026-10-19","isBroadbandConnected":true}}}}`,
	}

	for name, body := range responses {
		client.On("Query", mock.Anything, operation(name)).Return([]byte(body), nil)
	}

	details := &model.SmartLockDetails{AutoRelockEnabled: true}
	client.On("SmartLockDetails", mock.Anything, "3C4D 5E6F").Return(details, nil)

	store := registry.NewStore()
	sub := &subscriber{}
	store.Subscribe(sub)

	result, err := poller.New(client, nil, store).PollInstallation(context.Background(), testUser, testInstallation)
	require.NoError(t, err)

	assert.Zero(t, result.Failed)
	assert.True(t, result.Pending)
	assert.ElementsMatch(t, []string{
		"alarm111", "3C4D5E6F", "AABB", "CCDD", "upuserexamplecom111", "EEFF", "bc111",
	}, sub.added)

	lock, _ := store.Get("3C4D5E6F")
	assert.Equal(t, details, lock.Payload.(*model.SmartLock).Details)

	climate, _ := store.Get("AABB")
	assert.Equal(t, "Smoke detector", climate.Label)
}

func TestPoller_PollInstallation_PrunesVanishedDevices(t *testing.T) {
	t.Parallel()

	client := prepared(t)
	client.On("Query", mock.Anything, operation("DoorLock")).
		Return([]byte(`[{"data":{"installation":{"doorlocks":[]}}}]`), nil)
	client.On("Query", mock.Anything, otherOperations("DoorLock")).Return(nil, errors.New("unavailable"))

	store := registry.NewStore()
	_, err := store.Upsert(model.DeviceRecord{
		DeviceID:       "LOCK1",
		InstallationID: testGIID,
		Kind:           model.KindSmartLock,
		Payload:        &model.SmartLock{CurrentLockState: model.LockStateLocked},
	})
	require.NoError(t, err)

	sub := &subscriber{}
	store.Subscribe(sub)

	_, err = poller.New(client, nil, store).PollInstallation(context.Background(), testUser, testInstallation)
	require.NoError(t, err)

	assert.Equal(t, []string{"LOCK1"}, sub.removed)
}

func TestPoller_PollInstallation_AuthenticationFailure(t *testing.T) {
	t.Parallel()

	client := mocks.NewSecurityClient(t)
	client.On("InstallationCSRF", mock.Anything, testGIID).Return("csrf", nil)
	client.On("SelectInstallation", mock.Anything, testGIID).Return(nil)
	client.On("AuthLogin", mock.Anything, testUser).Return(http.StatusUnauthorized, nil)

	_, err := poller.New(client, nil, registry.NewStore()).PollInstallation(context.Background(), testUser, testInstallation)

	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
	client.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestPoller_PollVehicles(t *testing.T) {
	t.Parallel()

	ps := &api.PortalSession{BaseURL: "https://portal/dashboard/"}
	info := model.VehicleInfo{VIN: "WVW-123", Name: "Golf"}
	broken := model.VehicleInfo{VIN: "WVW-999", Name: "Broken"}

	vehicles := mocks.NewVehicleClient(t)
	vehicles.On("SelectVehicle", mock.Anything, ps, "WVW-123").Return(nil)
	vehicles.On("SelectVehicle", mock.Anything, ps, "WVW-999").Return(errors.New("gone"))
	vehicles.On("VehicleStatus", mock.Anything, ps, info).Return(&model.Vehicle{Info: info, FuelLevel: 50}, nil)
	vehicles.On("LatestTrip", mock.Anything, ps, info).Return(nil, errors.New("no trips"))
	vehicles.On("Position", mock.Anything, ps, info).Return(&model.Position{Latitude: 1, Longitude: 2}, nil)

	store := registry.NewStore()

	result := poller.New(nil, vehicles, store).PollVehicles(context.Background(), ps, []model.VehicleInfo{info, broken})

	assert.Equal(t, 2, result.Failed)

	vehicle, ok := store.Get("WVW123")
	require.True(t, ok)
	assert.Equal(t, model.KindVehicle, vehicle.Kind)

	_, ok = store.Get("locationWVW123")
	assert.True(t, ok)

	_, ok = store.Get("tripWVW123")
	assert.False(t, ok)

	poller.PruneVehicles(store, []model.VehicleInfo{info, broken}, []model.VehicleInfo{broken})
	assert.Empty(t, store.All())
}
