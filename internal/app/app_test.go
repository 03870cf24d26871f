package app_test

import (
	"testing"

	cliffApp "github.com/futurehomeno/cliffhanger/app"
	"github.com/futurehomeno/cliffhanger/lifecycle"
	"github.com/futurehomeno/cliffhanger/manifest"
	mockedmanifest "github.com/futurehomeno/cliffhanger/test/mocks/manifest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/app"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/session"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/test"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/test/fakes"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/test/mocks"
)

func TestApplication_GetManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mockLoader func(l *mockedmanifest.Loader)
		want       *manifest.Manifest
		wantErr    bool
	}{
		{
			name: "manifest is loaded successfully",
			mockLoader: func(l *mockedmanifest.Loader) {
				l.On("Load").Return(test.LoadManifest(t), nil)
			},
			want: test.LoadManifest(t),
		},
		{
			name: "manifest loading fails",
			mockLoader: func(l *mockedmanifest.Loader) {
				l.On("Load").Return(nil, errors.New("failed to load manifest"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loaderMock := mockedmanifest.NewLoader(t)
			if tt.mockLoader != nil {
				tt.mockLoader(loaderMock)
			}

			a := app.New(nil, nil, loaderMock, nil)

			got, err := a.GetManifest()

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplication_Configure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          *config.Config
		input        interface{}
		mockSession  func(s *mocks.Session)
		wantPinCodes string
	}{
		{
			name:  "unknown configuration is ignored",
			cfg:   &config.Config{},
			input: "anything",
		},
		{
			name:         "pin codes are saved without login when credentials are missing",
			cfg:          &config.Config{},
			input:        &config.Config{Credentials: config.Credentials{PinCodes: "1234"}},
			wantPinCodes: "1234",
		},
		{
			name: "pin codes are saved and the session logs in again",
			cfg: &config.Config{Credentials: config.Credentials{
				Username: test.Username,
				Password: test.Password,
			}},
			input: &config.Config{Credentials: config.Credentials{PinCodes: "1234, ,5678"}},
			mockSession: func(s *mocks.Session) {
				s.On("Initialize", mock.Anything, test.Username, test.Password, []string{"1234", "", "5678"}).Return(nil)
				s.On("LoggedIn").Return(true)
			},
			wantPinCodes: "1234, ,5678",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessionMock := mocks.NewSession(t)
			if tt.mockSession != nil {
				tt.mockSession(sessionMock)
			}

			cfgService := config.NewService(fakes.NewConfigStorage(tt.cfg, config.Factory))

			a := app.New(cfgService, lifecycle.New(), nil, sessionMock)

			assert.NoError(t, a.Configure(tt.input))
			assert.Equal(t, tt.wantPinCodes, cfgService.GetCredentials().PinCodes)
		})
	}
}

func TestApplication_Uninstall(t *testing.T) {
	t.Parallel()

	lc := lifecycle.New()
	lc.SetAppState(lifecycle.AppStateRunning, nil)
	lc.SetAuthState(lifecycle.AuthStateAuthenticated)
	lc.SetConnectionState(lifecycle.ConnStateConnected)
	lc.SetConfigState(lifecycle.ConfigStateConfigured)

	sessionMock := mocks.NewSession(t)
	sessionMock.On("Initialize", mock.Anything, "", "", []string(nil)).Return(session.ErrNotConfigured)

	cfgService := config.NewService(fakes.NewConfigStorage(&config.Config{
		Credentials: config.Credentials{Username: test.Username, Password: test.Password, PinCodes: "1234"},
	}, config.Factory))

	err := app.New(cfgService, lc, nil, sessionMock).Uninstall()

	assert.NoError(t, err)
	assert.Equal(t, lifecycle.AppStateNotConfigured, lc.AppState())
	assert.Equal(t, lifecycle.AuthStateNotAuthenticated, lc.AuthState())
	assert.Equal(t, lifecycle.ConnStateDisconnected, lc.ConnectionState())
	assert.Equal(t, lifecycle.ConfigStateNotConfigured, lc.ConfigState())
	assert.Equal(t, &config.Config{}, cfgService.Model())
}

func TestApplication_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		cfg                 *config.Config
		mockSession         func(s *mocks.Session)
		wantErr             bool
		wantCredentials     config.Credentials
		lifecycleAssertions func(t *testing.T, lc *lifecycle.Lifecycle)
	}{
		{
			name: "successful login saves credentials and keeps pin codes",
			cfg:  &config.Config{Credentials: config.Credentials{PinCodes: "1234"}},
			mockSession: func(s *mocks.Session) {
				s.On("Initialize", mock.Anything, test.Username, test.Password, []string{"1234"}).Return(nil)
				s.On("LoggedIn").Return(true)
			},
			wantCredentials: config.Credentials{Username: test.Username, Password: test.Password, PinCodes: "1234"},
			lifecycleAssertions: func(t *testing.T, lc *lifecycle.Lifecycle) {
				t.Helper()

				assert.Equal(t, lifecycle.AppStateRunning, lc.AppState())
				assert.Equal(t, lifecycle.AuthStateAuthenticated, lc.AuthState())
				assert.Equal(t, lifecycle.ConnStateConnected, lc.ConnectionState())
				assert.Equal(t, lifecycle.ConfigStateConfigured, lc.ConfigState())
			},
		},
		{
			name: "failed login leaves the configuration untouched",
			cfg:  &config.Config{},
			mockSession: func(s *mocks.Session) {
				s.On("Initialize", mock.Anything, test.Username, test.Password, []string(nil)).Return(errors.New("oops"))
				s.On("LoggedIn").Return(false)
			},
			wantErr: true,
			lifecycleAssertions: func(t *testing.T, lc *lifecycle.Lifecycle) {
				t.Helper()

				assert.Equal(t, lifecycle.AppStateNotConfigured, lc.AppState())
				assert.Equal(t, lifecycle.AuthStateNotAuthenticated, lc.AuthState())
				assert.Equal(t, lifecycle.ConnStateDisconnected, lc.ConnectionState())
				assert.Equal(t, lifecycle.ConfigStateNotConfigured, lc.ConfigState())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessionMock := mocks.NewSession(t)
			tt.mockSession(sessionMock)

			lc := lifecycle.New()
			cfgService := config.NewService(fakes.NewConfigStorage(tt.cfg, config.Factory))

			err := app.New(cfgService, lc, nil, sessionMock).Login(&cliffApp.LoginCredentials{
				Username: test.Username,
				Password: test.Password,
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCredentials, cfgService.GetCredentials())
			}

			tt.lifecycleAssertions(t, lc)
		})
	}
}

func TestApplication_Logout(t *testing.T) {
	t.Parallel()

	lc := lifecycle.New()
	lc.SetAppState(lifecycle.AppStateRunning, nil)
	lc.SetAuthState(lifecycle.AuthStateAuthenticated)
	lc.SetConnectionState(lifecycle.ConnStateConnected)
	lc.SetConfigState(lifecycle.ConfigStateConfigured)

	sessionMock := mocks.NewSession(t)
	sessionMock.On("Initialize", mock.Anything, "", "", []string(nil)).Return(session.ErrNotConfigured)
	sessionMock.On("LoggedIn").Return(false)

	cfgService := config.NewService(fakes.NewConfigStorage(&config.Config{
		Credentials: config.Credentials{Username: test.Username, Password: test.Password},
	}, config.Factory))

	err := app.New(cfgService, lc, nil, sessionMock).Logout()

	assert.NoError(t, err)
	assert.True(t, cfgService.GetCredentials().Empty())
	assert.Equal(t, lifecycle.AppStateNotConfigured, lc.AppState())
	assert.Equal(t, lifecycle.AuthStateNotAuthenticated, lc.AuthState())
	assert.Equal(t, lifecycle.ConnStateDisconnected, lc.ConnectionState())
	assert.Equal(t, lifecycle.ConfigStateNotConfigured, lc.ConfigState())
}

func TestApplication_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		loggedIn bool
		want     lifecycle.State
	}{
		{name: "logged in session is connected", loggedIn: true, want: lifecycle.ConnStateConnected},
		{name: "logged out session is disconnected", loggedIn: false, want: lifecycle.ConnStateDisconnected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessionMock := mocks.NewSession(t)
			sessionMock.On("LoggedIn").Return(tt.loggedIn)

			lc := lifecycle.New()

			assert.NoError(t, app.New(nil, lc, nil, sessionMock).Check())
			assert.Equal(t, tt.want, lc.ConnectionState())
		})
	}
}

func TestApplication_Initialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         *config.Config
		mockSession func(s *mocks.Session)
		wantApp     lifecycle.State
	}{
		{
			name: "missing credentials leave the application not configured",
			cfg:  &config.Config{},
			mockSession: func(s *mocks.Session) {
				s.On("LoggedIn").Return(false)
			},
			wantApp: lifecycle.AppStateNotConfigured,
		},
		{
			name: "stored credentials are used to log in",
			cfg: &config.Config{Credentials: config.Credentials{
				Username: test.Username,
				Password: test.Password,
				PinCodes: "1234",
			}},
			mockSession: func(s *mocks.Session) {
				s.On("Initialize", mock.Anything, test.Username, test.Password, []string{"1234"}).Return(nil)
				s.On("LoggedIn").Return(true)
			},
			wantApp: lifecycle.AppStateRunning,
		},
		{
			name: "failed login is left to the periodic refresh",
			cfg: &config.Config{Credentials: config.Credentials{
				Username: test.Username,
				Password: test.Password,
			}},
			mockSession: func(s *mocks.Session) {
				s.On("Initialize", mock.Anything, test.Username, test.Password, []string(nil)).Return(errors.New("offline"))
				s.On("LoggedIn").Return(false)
			},
			wantApp: lifecycle.AppStateRunning,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessionMock := mocks.NewSession(t)
			tt.mockSession(sessionMock)

			lc := lifecycle.New()
			cfgService := config.NewService(fakes.NewConfigStorage(tt.cfg, config.Factory))

			assert.NoError(t, app.New(cfgService, lc, nil, sessionMock).Initialize())
			assert.Equal(t, tt.wantApp, lc.AppState())
		})
	}
}
