package api //nolint:testpackage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

const (
	testVIN = "WVWZZZ1KZAW000001"

	vsrBody = `{"errorCode":"0","vehicleStatusData":{"totalRange":620,"primaryEngineRange":580,"batteryRange":40,` +
		`"fuelLevel":71,"batteryLevel":90,"lockData":{"left_front":2,"right_front":2,"left_back":2,"right_back":2,"trunk":2},` +
		`"carRenderData":{"hood":3,"doors":{"left_front":3,"right_front":2,"left_back":3,"right_back":3,"trunk":3},` +
		`"windows":{"left_front":3,"right_front":3,"left_back":0,"right_back":3}}}}`
	detailsBody = `{"errorCode":"0","vehicleDetails":{"distanceCovered":"12.345","lastConnectionTimeStamp":["19-10-2026","10:15"]}}`
)

func testPortalSession(serverURL string) *PortalSession {
	return &PortalSession{
		XCSRFToken: "landing-csrf",
		Referer:    serverURL + landingPath,
		BaseURL:    serverURL + landingPath + "/",
	}
}

func newTestVehicleClient(t *testing.T) VehicleClient {
	t.Helper()

	tr, err := NewTransport(fixedTimeout(3 * time.Second))
	require.NoError(t, err)

	return NewVehicleClient(tr)
}

func jsonCall(path, body string) call {
	return call{
		requestMethod: http.MethodPost,
		requestPath:   path,
		requestHeaders: map[string]string{
			"X-Csrf-Token": "landing-csrf",
			"Accept":       "application/json, text/plain, */*",
		},
		responseCode: http.StatusOK,
		responseBody: body,
	}
}

func TestVehicleClient_Vehicles(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(newTestHandler(t, jsonCall(
		landingPath+"/-/mainnavigation/get-fully-loaded-cars",
		`{"errorCode":"0","fullyLoadedVehiclesResponse":{`+
			`"completeVehicles":[{"vin":"`+testVIN+`","name":"Golf","dashboardUrl":"/portal/delegate/dashboard/`+testVIN+`",`+
			`"engineTypeCombustian":true}],`+
			`"vehiclesNotFullyLoaded":[{"vin":"WVWZZZ1KZAW000002","name":"e-up!","engineTypeElectric":true},{"name":"no vin"}]}}`,
	)))
	t.Cleanup(s.Close)

	got, err := newTestVehicleClient(t).Vehicles(context.Background(), testPortalSession(s.URL))
	require.NoError(t, err)

	assert.Equal(t, []model.VehicleInfo{
		{VIN: testVIN, Name: "Golf", DashboardURL: "/portal/delegate/dashboard/" + testVIN, EngineTypeCombustion: true},
		{VIN: "WVWZZZ1KZAW000002", Name: "e-up!", EngineTypeElectric: true},
	}, got)
}

func TestVehicleClient_ErrorCode(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(newTestHandler(t, jsonCall(
		landingPath+"/-/mainnavigation/load-car-details/"+testVIN,
		`{"errorCode":"2"}`,
	)))
	t.Cleanup(s.Close)

	err := newTestVehicleClient(t).SelectVehicle(context.Background(), testPortalSession(s.URL), testVIN)

	assert.ErrorContains(t, err, `portal returned error code "2"`)
}

func TestVehicleClient_VehicleStatus(t *testing.T) {
	t.Parallel()

	dashboard := "/portal/delegate/dashboard/" + testVIN

	s := httptest.NewServer(newTestHandler(t,
		jsonCall(dashboard+"/-/vsr/get-vsr", vsrBody),
		jsonCall(dashboard+"/-/vehicle-info/get-vehicle-details", detailsBody),
	))
	t.Cleanup(s.Close)

	info := model.VehicleInfo{VIN: testVIN, DashboardURL: dashboard}

	got, err := newTestVehicleClient(t).VehicleStatus(context.Background(), testPortalSession(s.URL), info)
	require.NoError(t, err)

	assert.Equal(t, &model.Vehicle{
		Info:          info,
		Odometer:      12345,
		TotalRange:    620,
		FuelRange:     580,
		ElectricRange: 40,
		FuelLevel:     71,
		BatteryLevel:  90,
		CarLocked:     true,
		Doors: model.Openings{
			FrontLeft:  "CLOSED",
			FrontRight: "OPEN",
			RearLeft:   "CLOSED",
			RearRight:  "CLOSED",
			Hood:       "CLOSED",
			Tailgate:   "CLOSED",
		},
		Windows: model.Openings{
			FrontLeft:  "CLOSED",
			FrontRight: "CLOSED",
			RearRight:  "CLOSED",
		},
		LastConnection: "19-10-2026 10:15",
	}, got)
}

func TestVehicleClient_LatestTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    *model.Trip
		wantErr bool
	}{
		{
			name: "last trip with statistics wins",
			body: `{"errorCode":"0","rtsViewModel":{"tripStatistics":[` +
				`{"aggregatedStatistics":{"tripId":"1","mileage":10.5}},` +
				`{"aggregatedStatistics":{"tripId":"2","mileage":32,"travelTime":25,"averageSpeed":77.1,` +
				`"averageFuelConsumption":5.4,"averageElectricConsumption":0,"timestamp":"2026-10-18T10:00:00Z"}},` +
				`{"aggregatedStatistics":null}]}}`,
			want: &model.Trip{
				TripID:                 "2",
				Timestamp:              "2026-10-18T10:00:00Z",
				Mileage:                32,
				TravelTime:             25,
				AverageSpeed:           77.1,
				AverageFuelConsumption: 5.4,
			},
		},
		{
			name:    "no trips",
			body:    `{"errorCode":"0","rtsViewModel":{"tripStatistics":[]}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := httptest.NewServer(newTestHandler(t, jsonCall(landingPath+"/-/rts/get-latest-trip-statistics", tt.body)))
			t.Cleanup(s.Close)

			got, err := newTestVehicleClient(t).LatestTrip(context.Background(), testPortalSession(s.URL), model.VehicleInfo{VIN: testVIN})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVehicleClient_Position(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(newTestHandler(t, jsonCall(
		landingPath+"/-/cf/get-location",
		`{"errorCode":"0","position":{"lat":59.91,"lng":10.75}}`,
	)))
	t.Cleanup(s.Close)

	got, err := newTestVehicleClient(t).Position(context.Background(), testPortalSession(s.URL), model.VehicleInfo{VIN: testVIN})
	require.NoError(t, err)

	assert.Equal(t, &model.Position{Latitude: 59.91, Longitude: 10.75}, got)
}
