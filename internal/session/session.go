// Package session owns the authenticated state of one bridge connection and serializes every operation on it.
package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/michalkurzeja/go-clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/api"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/backoff"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/command"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/poller"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/registry"
)

const (
	retryInitialDelay = 30 * time.Second
	retryMaxDelay     = 5 * time.Minute
)

var (
	// ErrDisposed is returned by operations on a disposed session.
	ErrDisposed = errors.New("session is disposed")
	// ErrNotConfigured is returned when no credentials were provided.
	ErrNotConfigured = errors.New("session credentials are not configured")
	// ErrCommandRejected is returned when the portal answered a command with a status other than 200.
	ErrCommandRejected = errors.New("command rejected by the portal")
)

var installationKinds = []model.Kind{
	model.KindAlarm,
	model.KindSmartLock,
	model.KindClimate,
	model.KindDoorWindow,
	model.KindUserPresence,
	model.KindSmartPlug,
	model.KindBroadband,
}

// Session is the facade used by the host.
type Session interface {
	// Initialize stores the credentials and logs in.
	Initialize(ctx context.Context, username, password string, pinCodes []string) error
	// Refresh probes the session, logs in again when needed and polls everything.
	// It returns false when nothing could be polled.
	Refresh(ctx context.Context) bool
	// SendCommand decodes and dispatches a command and schedules a refresh after it was accepted.
	SendCommand(ctx context.Context, deviceID, channel, value string) error
	RegisterListener(listener registry.Subscriber) bool
	UnregisterListener(listener registry.Subscriber) bool
	Device(deviceID string) (model.DeviceRecord, bool)
	Devices() []model.DeviceRecord
	Installations() []model.Installation
	LoggedIn() bool
	// Start begins periodic refreshing. The first refresh runs immediately, later ones follow the
	// refresh interval configured at the time each refresh finishes.
	Start() error
	// Stop ends periodic refreshing. The session stays usable and can be started again.
	Stop() error
	// Dispose stops the timer, cancels scheduled refreshes and waits for an operation in progress.
	Dispose()
}

type session struct {
	cfgService *config.Service
	auth       api.Authenticator
	security   api.SecurityClient
	vehicles   api.VehicleClient
	store      registry.Store
	poller     poller.Poller
	dispatcher command.Dispatcher
	retry      *backoff.Exponential

	// mu serializes login, installation selection, refresh and commands.
	mu            sync.Mutex
	username      string
	password      string
	pinCodes      []string
	portal        *api.PortalSession
	installations []model.Installation
	vehicleInfos  []model.VehicleInfo
	loggedIn      atomic.Bool

	timerMu  sync.Mutex
	timer    *time.Timer
	deadline time.Time
	running  bool
	disposed bool

	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc
}

// New creates a new session.
func New(
	cfgService *config.Service,
	auth api.Authenticator,
	security api.SecurityClient,
	vehicles api.VehicleClient,
	store registry.Store,
) Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &session{
		cfgService: cfgService,
		auth:       auth,
		security:   security,
		vehicles:   vehicles,
		store:      store,
		poller:     poller.New(security, vehicles, store),
		dispatcher: command.NewDispatcher(security),
		retry:      backoff.NewExponential(retryInitialDelay, retryMaxDelay),
		ctx:        ctx,
		cancel:     cancel,
	}

	cfgService.WatchRefreshInterval(s.intervalChanged)

	return s
}

func (s *session) Initialize(ctx context.Context, username, password string, pinCodes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDisposed() {
		return ErrDisposed
	}

	if username != s.username {
		s.store.Clear()
		s.installations = nil
		s.vehicleInfos = nil
	}

	s.username = username
	s.password = password
	s.pinCodes = append([]string(nil), pinCodes...)
	s.loggedIn.Store(false)

	if username == "" || password == "" {
		return ErrNotConfigured
	}

	return s.login(ctx)
}

func (s *session) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.refresh(ctx)

	result := metrics.ResultSuccess
	if !ok {
		result = metrics.ResultFailure
	}

	metrics.RefreshCounter.WithLabelValues(result).Inc()

	if ok {
		metrics.LastRefreshGauge.Set(float64(clock.Now().Unix()))
	}

	return ok
}

func (s *session) refresh(ctx context.Context) bool {
	if s.isDisposed() || s.username == "" || s.password == "" {
		return false
	}

	switch s.security.LoginState(ctx) {
	case api.LoginStateUnavailable:
		log.Warn("session: portal is unavailable, skipping refresh")

		return false
	case api.LoginStateLoggedOut:
		s.loggedIn.Store(false)
	case api.LoginStateLoggedIn:
	}

	if !s.loggedIn.Load() {
		if err := s.login(ctx); err != nil {
			return false
		}
	}

	var (
		result poller.Result
		polled int
	)

	for _, installation := range s.installations {
		r, err := s.poller.PollInstallation(ctx, s.username, installation)
		if err != nil {
			log.WithError(err).WithField("giid", installation.ID).Warn("session: failed to poll installation")

			if errors.Is(err, api.ErrNotAuthenticated) {
				s.loggedIn.Store(false)
			}

			continue
		}

		polled++
		result.Failed += r.Failed
		result.Pending = result.Pending || r.Pending
	}

	if s.portal != nil && len(s.vehicleInfos) > 0 {
		r := s.poller.PollVehicles(ctx, s.portal, s.vehicleInfos)
		result.Failed += r.Failed
		polled++
	}

	if result.Failed > 0 {
		log.WithField("failed", result.Failed).Debug("session: some sub-resources could not be polled")
	}

	if result.Pending {
		s.scheduleWithin(s.cfgService.GetCommandRefreshDelay())
	}

	return polled > 0 || (len(s.installations) == 0 && len(s.vehicleInfos) == 0)
}

// login runs the login chain and repopulates installations and vehicles. Must be called with mu held.
func (s *session) login(ctx context.Context) error {
	ps, err := s.auth.Login(ctx, s.username, s.password)
	if err != nil {
		s.loggedIn.Store(false)

		log.WithError(err).Error("session: login failed")

		return err
	}

	entries, err := s.security.Installations(ctx, s.username)
	if err != nil {
		s.loggedIn.Store(false)

		log.WithError(err).Error("session: failed to list installations")

		return errors.Wrap(err, "failed to list installations")
	}

	installations := registry.BuildInstallations(entries, s.pinCodes)
	s.pruneInstallations(installations)

	vehicles, err := s.vehicles.Vehicles(ctx, ps)
	if err != nil {
		log.WithError(err).Warn("session: failed to list vehicles, keeping the previous list")

		vehicles = s.vehicleInfos
	}

	poller.PruneVehicles(s.store, s.vehicleInfos, vehicles)

	s.portal = ps
	s.installations = installations
	s.vehicleInfos = vehicles
	s.loggedIn.Store(true)

	log.WithField("installations", len(installations)).WithField("vehicles", len(vehicles)).
		Info("session: logged in")

	return nil
}

func (s *session) pruneInstallations(current []model.Installation) {
	listed := make(map[string]struct{}, len(current))
	for _, installation := range current {
		listed[installation.ID] = struct{}{}
	}

	for _, installation := range s.installations {
		if _, ok := listed[installation.ID]; ok {
			continue
		}

		for _, kind := range installationKinds {
			s.store.Prune(kind, installation.ID, nil)
		}
	}
}

func (s *session) SendCommand(ctx context.Context, deviceID, channel, value string) error {
	cmd, err := command.Parse(channel, value)
	if err != nil {
		return err
	}

	if err := s.sendCommand(ctx, deviceID, cmd); err != nil {
		return err
	}

	s.scheduleWithin(s.cfgService.GetCommandRefreshDelay())

	return nil
}

func (s *session) sendCommand(ctx context.Context, deviceID string, cmd command.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDisposed() {
		return ErrDisposed
	}

	record, ok := s.store.Get(deviceID)
	if !ok {
		return errors.Wrapf(command.ErrUnknownDevice, "device %s", deviceID)
	}

	installation, ok := s.installation(record.InstallationID)
	if !ok {
		return errors.Wrapf(command.ErrUnknownDevice, "installation %s of device %s", record.InstallationID, deviceID)
	}

	if !s.loggedIn.Load() {
		return api.ErrNotAuthenticated
	}

	status, err := s.dispatcher.Dispatch(ctx, s.username, installation, record, cmd)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s to device %s", cmd.Operation, deviceID)
	}

	if status != http.StatusOK {
		return errors.Wrapf(ErrCommandRejected, "%s to device %s returned status %d", cmd.Operation, deviceID, status)
	}

	return nil
}

func (s *session) installation(id string) (model.Installation, bool) {
	for _, installation := range s.installations {
		if installation.ID == id {
			return installation, true
		}
	}

	return model.Installation{}, false
}

func (s *session) RegisterListener(listener registry.Subscriber) bool {
	return s.store.Subscribe(listener)
}

func (s *session) UnregisterListener(listener registry.Subscriber) bool {
	return s.store.Unsubscribe(listener)
}

func (s *session) Device(deviceID string) (model.DeviceRecord, bool) {
	return s.store.Get(deviceID)
}

func (s *session) Devices() []model.DeviceRecord {
	return s.store.All()
}

func (s *session) Installations() []model.Installation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Installation(nil), s.installations...)
}

func (s *session) LoggedIn() bool {
	return s.loggedIn.Load()
}

func (s *session) Start() error {
	s.timerMu.Lock()
	if s.disposed {
		s.timerMu.Unlock()

		return ErrDisposed
	}

	s.running = true
	s.timerMu.Unlock()

	s.scheduleWithin(0)

	return nil
}

func (s *session) Stop() error {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.running = false
	s.deadline = time.Time{}

	if s.timer != nil {
		s.timer.Stop()
	}

	return nil
}

func (s *session) Dispose() {
	s.timerMu.Lock()
	s.disposed = true

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timerMu.Unlock()

	s.cancel()

	// Wait for an operation in progress.
	s.mu.Lock()
	s.loggedIn.Store(false)
	s.mu.Unlock()
}

func (s *session) tick() {
	s.timerMu.Lock()
	if s.disposed {
		s.timerMu.Unlock()

		return
	}

	s.deadline = time.Time{}
	s.timerMu.Unlock()

	ok := s.Refresh(s.ctx)

	s.timerMu.Lock()
	running := s.running
	s.timerMu.Unlock()

	next := s.cfgService.GetRefreshInterval()
	if !running || next <= 0 {
		return
	}

	if ok {
		s.retry.Reset()
	} else if delay := s.retry.Next(); delay > 0 && delay < next {
		log.WithField("failures", s.retry.Failures()).WithField("delay", delay).Warn("session: refresh failed, retrying sooner")

		next = delay
	}

	s.scheduleWithin(next)
}

// intervalChanged brings the next periodic refresh forward when the new interval ends earlier.
func (s *session) intervalChanged(interval time.Duration) {
	s.timerMu.Lock()
	running := s.running
	s.timerMu.Unlock()

	if running && interval > 0 {
		s.scheduleWithin(interval)
	}
}

// scheduleWithin makes sure a refresh runs within the delay, an earlier scheduled refresh is kept.
func (s *session) scheduleWithin(delay time.Duration) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.disposed {
		return
	}

	target := time.Now().Add(delay)
	if !s.deadline.IsZero() && s.deadline.Before(target) {
		return
	}

	s.deadline = target

	if s.timer == nil {
		s.timer = time.AfterFunc(delay, s.tick)

		return
	}

	s.timer.Stop()
	s.timer.Reset(delay)
}

func (s *session) isDisposed() bool {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	return s.disposed
}
