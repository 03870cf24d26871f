package config

import (
	"strings"
	"sync"
	"time"

	"github.com/futurehomeno/cliffhanger/config"
	"github.com/futurehomeno/cliffhanger/storage"
	"github.com/thoas/go-funk"
)

const (
	DefaultPortalURL           = "https://www.portal.volkswagen-we.com"
	DefaultIdentityURL         = "https://identity.vwgroup.io"
	DefaultMyPagesURL          = "https://mypages.verisure.com"
	DefaultRefreshInterval     = 10 * time.Minute
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultCommandRefreshDelay = 10 * time.Second
)

// DefaultAPIServers is the ordered list of mirrored API servers.
var DefaultAPIServers = []string{"https://m-api01.verisure.com", "https://m-api02.verisure.com"}

// Config is a model containing all application configuration settings.
type Config struct {
	config.Default
	Credentials

	PortalURL           string             `json:"portalURL"`
	IdentityURL         string             `json:"identityURL"`
	MyPagesURL          string             `json:"myPagesURL"`
	APIServers          []string           `json:"apiServers"`
	RefreshInterval     string             `json:"refreshInterval"`
	HTTPTimeout         string             `json:"httpTimeout"`
	CommandRefreshDelay string             `json:"commandRefreshDelay"`
	LoginBackoff        LoginBackoffConfig `json:"loginBackoff"`
	MetricsAddress      string             `json:"metricsAddress"`
}

// New creates new instance of a configuration object.
func New(workDir string) *Config {
	return &Config{
		Default:             config.NewDefault(workDir),
		PortalURL:           DefaultPortalURL,
		IdentityURL:         DefaultIdentityURL,
		MyPagesURL:          DefaultMyPagesURL,
		APIServers:          append([]string(nil), DefaultAPIServers...),
		RefreshInterval:     DefaultRefreshInterval.String(),
		HTTPTimeout:         DefaultHTTPTimeout.String(),
		CommandRefreshDelay: DefaultCommandRefreshDelay.String(),
		LoginBackoff:        DefaultLoginBackoff(),
	}
}

// Factory is a factory method returning the configuration object without default settings.
func Factory() *Config {
	return &Config{}
}

// Credentials represent the account used to sign in to both vendor portals.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// PinCodes is a comma separated list, one code per installation in listing order.
	PinCodes string `json:"pinCodes"`
}

// Empty checks if credentials are empty.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Password == ""
}

// PinCodeList splits the configured PIN codes keeping their positions, a blank entry means no PIN.
func (c Credentials) PinCodeList() []string {
	if strings.TrimSpace(c.PinCodes) == "" {
		return nil
	}

	return funk.Map(strings.Split(c.PinCodes, ","), strings.TrimSpace).([]string)
}

// LoginBackoffConfig configures throttling of repeated failed login attempts.
type LoginBackoffConfig struct {
	InitialBackoff       time.Duration `json:"initialBackoff"`
	RepeatedBackoff      time.Duration `json:"repeatedBackoff"`
	FinalBackoff         time.Duration `json:"finalBackoff"`
	InitialFailureCount  uint32        `json:"initialFailureCount"`
	RepeatedFailureCount uint32        `json:"repeatedFailureCount"`
}

// DefaultLoginBackoff returns the login backoff used when none is configured.
func DefaultLoginBackoff() LoginBackoffConfig {
	return LoginBackoffConfig{
		InitialBackoff:       time.Minute,
		RepeatedBackoff:      5 * time.Minute,
		FinalBackoff:         30 * time.Minute,
		InitialFailureCount:  3,
		RepeatedFailureCount: 3,
	}
}

// Service is a configuration service responsible for:
// - providing concurrency safe access to settings
// - persistence of settings
type Service struct {
	storage.Storage[*Config]
	lock *sync.RWMutex

	watchersLock     sync.Mutex
	intervalWatchers []func(time.Duration)
}

// NewService creates a new configuration service.
func NewService(storage storage.Storage[*Config]) *Service {
	return &Service{
		Storage: storage,
		lock:    &sync.RWMutex{},
	}
}

// GetWorkDir allows to safely access a configuration setting.
func (cs *Service) GetWorkDir() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().WorkDir
}

// SetLogLevel allows to safely set and persist configuration settings.
func (cs *Service) SetLogLevel(logLevel string) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().LogLevel = logLevel

	return cs.Storage.Save()
}

// GetCredentials allows to safely access a configuration setting.
func (cs *Service) GetCredentials() Credentials {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().Credentials
}

// SetCredentials allows to safely set and persist configuration settings.
func (cs *Service) SetCredentials(credentials Credentials) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().Credentials = credentials

	return cs.Storage.Save()
}

// SetPinCodes allows to safely set and persist configuration settings.
func (cs *Service) SetPinCodes(pinCodes string) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().PinCodes = pinCodes

	return cs.Storage.Save()
}

// ClearCredentials removes stored credentials.
func (cs *Service) ClearCredentials() error {
	return cs.SetCredentials(Credentials{})
}

// GetPortalURL allows to safely access a configuration setting.
func (cs *Service) GetPortalURL() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return withDefault(cs.Storage.Model().PortalURL, DefaultPortalURL)
}

// SetPortalURL allows to safely set and persist configuration settings.
func (cs *Service) SetPortalURL(portalURL string) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().PortalURL = portalURL

	return cs.Storage.Save()
}

// GetIdentityURL allows to safely access a configuration setting.
func (cs *Service) GetIdentityURL() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return withDefault(cs.Storage.Model().IdentityURL, DefaultIdentityURL)
}

// GetMyPagesURL allows to safely access a configuration setting.
func (cs *Service) GetMyPagesURL() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return withDefault(cs.Storage.Model().MyPagesURL, DefaultMyPagesURL)
}

// GetAPIServers allows to safely access a configuration setting.
func (cs *Service) GetAPIServers() []string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	servers := cs.Storage.Model().APIServers
	if len(servers) == 0 {
		servers = DefaultAPIServers
	}

	return append([]string(nil), servers...)
}

// GetRefreshInterval allows to safely access a configuration setting.
func (cs *Service) GetRefreshInterval() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().RefreshInterval, DefaultRefreshInterval)
}

// SetRefreshInterval allows to safely set and persist configuration settings.
// Watchers are called with the new interval once it is saved.
func (cs *Service) SetRefreshInterval(interval time.Duration) error {
	cs.lock.Lock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().RefreshInterval = interval.String()

	err := cs.Storage.Save()

	cs.lock.Unlock()

	if err != nil {
		return err
	}

	cs.watchersLock.Lock()
	watchers := append([]func(time.Duration){}, cs.intervalWatchers...)
	cs.watchersLock.Unlock()

	for _, watch := range watchers {
		watch(interval)
	}

	return nil
}

// WatchRefreshInterval registers a callback run after the refresh interval was changed.
func (cs *Service) WatchRefreshInterval(watch func(time.Duration)) {
	cs.watchersLock.Lock()
	defer cs.watchersLock.Unlock()

	cs.intervalWatchers = append(cs.intervalWatchers, watch)
}

// GetHTTPTimeout allows to safely access a configuration setting.
func (cs *Service) GetHTTPTimeout() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().HTTPTimeout, DefaultHTTPTimeout)
}

// SetHTTPTimeout allows to safely set and persist configuration settings.
func (cs *Service) SetHTTPTimeout(timeout time.Duration) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().HTTPTimeout = timeout.String()

	return cs.Storage.Save()
}

// GetCommandRefreshDelay allows to safely access a configuration setting.
func (cs *Service) GetCommandRefreshDelay() time.Duration {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return parseDuration(cs.Storage.Model().CommandRefreshDelay, DefaultCommandRefreshDelay)
}

// SetCommandRefreshDelay allows to safely set and persist configuration settings.
func (cs *Service) SetCommandRefreshDelay(delay time.Duration) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.Storage.Model().ConfiguredAt = time.Now().Format(time.RFC3339)
	cs.Storage.Model().CommandRefreshDelay = delay.String()

	return cs.Storage.Save()
}

// GetLoginBackoffCfg allows to safely access a configuration setting.
func (cs *Service) GetLoginBackoffCfg() LoginBackoffConfig {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	if cs.Storage.Model().LoginBackoff == (LoginBackoffConfig{}) {
		return DefaultLoginBackoff()
	}

	return cs.Storage.Model().LoginBackoff
}

// GetMetricsAddress allows to safely access a configuration setting.
func (cs *Service) GetMetricsAddress() string {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.Storage.Model().MetricsAddress
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}

	return duration
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
