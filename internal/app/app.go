package app

import (
	"context"
	"fmt"
	"time"

	cliffApp "github.com/futurehomeno/cliffhanger/app"
	"github.com/futurehomeno/cliffhanger/lifecycle"
	"github.com/futurehomeno/cliffhanger/manifest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/session"
)

const loginTimeout = 2 * time.Minute

// Application is an interface representing a service responsible for preparing an application manifest and configuring app.
type Application interface {
	cliffApp.App
	cliffApp.LogginableApp
	cliffApp.CheckableApp
	cliffApp.InitializableApp
}

// New creates new instance of an Application.
func New(
	cfgService *config.Service,
	lc *lifecycle.Lifecycle,
	mfLoader manifest.Loader,
	sess session.Session,
) Application {
	return &application{
		mfLoader:   mfLoader,
		lifecycle:  lc,
		cfgService: cfgService,
		session:    sess,
	}
}

type application struct {
	cfgService *config.Service
	lifecycle  *lifecycle.Lifecycle
	mfLoader   manifest.Loader
	session    session.Session
}

func (a *application) GetManifest() (*manifest.Manifest, error) {
	mf, err := a.mfLoader.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load manifest")
	}

	return mf, nil
}

// Configure applies PIN codes sent with the application configuration. Installations are rebuilt by logging in again.
func (a *application) Configure(cfg interface{}) error {
	c, ok := cfg.(*config.Config)
	if !ok || c == nil || c.PinCodes == "" {
		return nil
	}

	if err := a.cfgService.SetPinCodes(c.PinCodes); err != nil {
		return errors.Wrap(err, "failed to save pin codes")
	}

	credentials := a.cfgService.GetCredentials()
	if credentials.Empty() {
		return nil
	}

	defer a.Check() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	if err := a.session.Initialize(ctx, credentials.Username, credentials.Password, credentials.PinCodeList()); err != nil {
		log.WithError(err).Warn("app: failed to log in again after pin codes were changed")
	}

	return nil
}

func (a *application) Uninstall() error {
	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	// Clearing the credentials drops every known device.
	_ = a.session.Initialize(ctx, "", "", nil)

	err := a.cfgService.Reset()
	if err != nil {
		log.Info("app: failed to reset config")

		return errors.New("failed to reset configuration")
	}

	a.lifecycle.SetAppState(lifecycle.AppStateNotConfigured, nil)
	a.lifecycle.SetConfigState(lifecycle.ConfigStateNotConfigured)
	a.lifecycle.SetConnectionState(lifecycle.ConnStateDisconnected)
	a.lifecycle.SetAuthState(lifecycle.AuthStateNotAuthenticated)

	return nil
}

func (a *application) Login(credentials *cliffApp.LoginCredentials) error {
	defer a.Check() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	pinCodes := a.cfgService.GetCredentials().PinCodes

	err := a.session.Initialize(ctx, credentials.Username, credentials.Password, config.Credentials{PinCodes: pinCodes}.PinCodeList())
	if err != nil {
		a.lifecycle.SetAppState(lifecycle.AppStateNotConfigured, nil)
		a.lifecycle.SetAuthState(lifecycle.AuthStateNotAuthenticated)
		a.lifecycle.SetConfigState(lifecycle.ConfigStateNotConfigured)

		return errors.Wrap(err, fmt.Sprintf("failed to login as '%s'", credentials.Username))
	}

	err = a.cfgService.SetCredentials(config.Credentials{
		Username: credentials.Username,
		Password: credentials.Password,
		PinCodes: pinCodes,
	})
	if err != nil {
		a.lifecycle.SetAppState(lifecycle.AppStateError, nil)

		return errors.Wrap(err, "failed to save credentials")
	}

	a.lifecycle.SetAppState(lifecycle.AppStateRunning, nil)
	a.lifecycle.SetAuthState(lifecycle.AuthStateAuthenticated)
	a.lifecycle.SetConfigState(lifecycle.ConfigStateConfigured)

	return nil
}

func (a *application) Check() error {
	if !a.session.LoggedIn() {
		a.lifecycle.SetConnectionState(lifecycle.ConnStateDisconnected)

		return nil
	}

	a.lifecycle.SetConnectionState(lifecycle.ConnStateConnected)

	return nil
}

func (a *application) Initialize() error {
	defer a.Check() //nolint:errcheck

	if err := a.cfgService.Save(); err != nil {
		return errors.Wrap(err, "failed to save configs at application initialization")
	}

	credentials := a.cfgService.GetCredentials()
	if credentials.Empty() {
		a.lifecycle.SetAppState(lifecycle.AppStateNotConfigured, nil)
		a.lifecycle.SetConfigState(lifecycle.ConfigStateNotConfigured)
		a.lifecycle.SetAuthState(lifecycle.AuthStateNotAuthenticated)

		return nil
	}

	a.lifecycle.SetAppState(lifecycle.AppStateRunning, nil)
	a.lifecycle.SetConfigState(lifecycle.ConfigStateConfigured)
	a.lifecycle.SetAuthState(lifecycle.AuthStateAuthenticated)

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	// A failed login is retried by the periodic refresh.
	if err := a.session.Initialize(ctx, credentials.Username, credentials.Password, credentials.PinCodeList()); err != nil {
		log.WithError(err).Warn("app: initial login failed")
	}

	return nil
}

func (a *application) Logout() error {
	defer a.Check() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	_ = a.session.Initialize(ctx, "", "", nil)

	if err := a.cfgService.ClearCredentials(); err != nil {
		a.lifecycle.SetAppState(lifecycle.AppStateError, nil)
		a.lifecycle.SetAuthState(lifecycle.AuthStateNotAuthenticated)
		a.lifecycle.SetConfigState(lifecycle.ConfigStateNotConfigured)

		return errors.Wrap(err, "failed to clear credentials")
	}

	a.lifecycle.SetAppState(lifecycle.AppStateNotConfigured, nil)
	a.lifecycle.SetConfigState(lifecycle.ConfigStateNotConfigured)
	a.lifecycle.SetAuthState(lifecycle.AuthStateNotAuthenticated)

	return nil
}
