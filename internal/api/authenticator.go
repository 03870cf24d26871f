package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/futurehomeno/cliffhanger/backoff"
	"github.com/futurehomeno/cliffhanger/notification"
	"github.com/futurehomeno/fimpgo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/config"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
)

const (
	notificationLoginRejected = "vwcarnet_login_rejected"

	logoutAddress = "pt:j1/mt:cmd/rt:ad/rn:vwcarnet/ad:1"

	homePath       = "/portal/en_GB/web/guest/home"
	loginURLPath   = "/portal/web/guest/home/-/csrftokenhandling/get-login-url"
	portalReferer  = "/portal"
	emailFormID    = "emailPasswordForm"
	passwordFormID = "credentialsForm"
	languageCookie = "GUEST_LANGUAGE_ID"
	redirectHops   = 3

	portletQuery = "&p_p_id=33_WAR_cored5portlet&p_p_lifecycle=1&p_p_state=normal&p_p_mode=view" +
		"&p_p_col_id=column-1&p_p_col_count=1&_33_WAR_cored5portlet_javax.portlet.action=getLoginStatus"
)

// Notifier is a service responsible for sending push notifications.
type Notifier interface {
	Event(event *notification.Event) error
}

// Authenticator performs the browser emulating login against the connected-car portal.
type Authenticator interface {
	// Login runs the whole login chain and returns the resulting portal session.
	// Cookies of a previous session are dropped first. No session is returned on any failure.
	Login(ctx context.Context, username, password string) (*PortalSession, error)
}

type authenticator struct {
	mu                  sync.Mutex
	cfg                 *config.Service
	transport           Transport
	notificationManager Notifier
	mqtt                *fimpgo.MqttTransport
	serviceName         string
	backoff             backoff.Stateful
}

// NewAuthenticator creates a new instance of the Authenticator. The MQTT transport is optional, when present
// a rejected login asks the host application to log out.
func NewAuthenticator(
	transport Transport,
	cfgSvc *config.Service,
	notify Notifier,
	mqtt *fimpgo.MqttTransport,
	serviceName string,
) Authenticator {
	backoffCfg := cfgSvc.GetLoginBackoffCfg()

	return &authenticator{
		cfg:                 cfgSvc,
		transport:           transport,
		notificationManager: notify,
		mqtt:                mqtt,
		serviceName:         serviceName,
		backoff: backoff.NewStateful(
			backoffCfg.InitialBackoff,
			backoffCfg.RepeatedBackoff,
			backoffCfg.FinalBackoff,
			backoffCfg.InitialFailureCount,
			backoffCfg.RepeatedFailureCount,
		),
	}
}

func (a *authenticator) Login(ctx context.Context, username, password string) (*PortalSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.backoff.Should() {
		metrics.LoginCounter.WithLabelValues(metrics.ResultFailure).Inc()

		return nil, ErrBackoff
	}

	session, err := a.login(ctx, username, password)
	if err != nil {
		a.backoff.Fail()
		metrics.LoginCounter.WithLabelValues(metrics.ResultFailure).Inc()

		if errors.Is(err, ErrInvalidCredentials) {
			a.handleRejectedCredentials()
		}

		return nil, err
	}

	a.backoff.Reset()
	metrics.LoginCounter.WithLabelValues(metrics.ResultSuccess).Inc()

	return session, nil
}

//nolint:funlen
func (a *authenticator) login(ctx context.Context, username, password string) (*PortalSession, error) {
	portal := strings.TrimSuffix(a.cfg.GetPortalURL(), "/")
	identity := strings.TrimSuffix(a.cfg.GetIdentityURL(), "/")

	if err := a.transport.ResetCookies(); err != nil {
		return nil, err
	}

	// Portal landing page.
	resp, err := a.do(ctx, "home page", http.StatusOK, newRequestBuilder(ctx, http.MethodGet, portal+homePath).
		withProfile(htmlProfile))
	if err != nil {
		return nil, err
	}

	csrf, err := pageCSRF(resp)
	if err != nil {
		return nil, errors.Wrap(err, "home page")
	}

	// Identity provider URL.
	resp, err = a.do(ctx, "login url", http.StatusOK, newRequestBuilder(ctx, http.MethodPost, portal+loginURLPath).
		withProfile(htmlProfile).
		withReferer(portal+portalReferer).
		addHeader(csrfHeader, csrf))
	if err != nil {
		return nil, err
	}

	loginPath := gjson.GetBytes(resp.Body, "loginURL.path").String()
	if loginPath == "" {
		return nil, errors.Wrap(ErrElementNotFound, "login url: loginURL.path")
	}

	authorizeURL, err := resolve(portal, loginPath)
	if err != nil {
		return nil, err
	}

	resp, err = a.do(ctx, "authorize", http.StatusFound, newRequestBuilder(ctx, http.MethodGet, authorizeURL).
		withProfile(htmlProfile).
		withoutRedirects())
	if err != nil {
		return nil, err
	}

	// Email form.
	emailPageURL, err := resolve(authorizeURL, resp.Location())
	if err != nil {
		return nil, err
	}

	resp, err = a.submitForm(ctx, "email", identity, emailPageURL, emailFormID,
		url.Values{"email": {username}, "password": {password}}, http.StatusSeeOther)
	if err != nil {
		return nil, err
	}

	// Password form.
	passwordPageURL, err := resolve(identity+"/", resp.Location())
	if err != nil {
		return nil, err
	}

	resp, err = a.submitForm(ctx, "password", identity, passwordPageURL, passwordFormID,
		url.Values{"email": {username}, "password": {password}}, http.StatusFound)
	if err != nil {
		return nil, err
	}

	location, err := resolve(passwordPageURL, resp.Location())
	if err != nil {
		return nil, err
	}

	for hop := 1; hop <= redirectHops; hop++ {
		resp, err = a.do(ctx, fmt.Sprintf("redirect %d", hop), http.StatusFound,
			newRequestBuilder(ctx, http.MethodGet, location).withProfile(htmlProfile).withoutRedirects())
		if err != nil {
			return nil, err
		}

		if location, err = resolve(location, resp.Location()); err != nil {
			return nil, err
		}
	}

	// Authorization code exchange.
	callback, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(err, "invalid authorization callback")
	}

	code, state := callback.Query().Get("code"), callback.Query().Get("state")
	if code == "" || state == "" {
		return nil, errors.Wrap(ErrElementNotFound, "authorization callback: code or state")
	}

	form := url.Values{
		"_33_WAR_cored5portlet_code":           {code},
		"_33_WAR_cored5portlet_landingPageUrl": {""},
	}

	exchangeURL := portal + callback.Path + "?p_auth=" + url.QueryEscape(state) + portletQuery

	resp, err = a.do(ctx, "login status", http.StatusFound, newRequestBuilder(ctx, http.MethodPost, exchangeURL).
		withProfile(htmlProfile).
		withForm(form).
		withoutRedirects())
	if err != nil {
		return nil, err
	}

	landingURL, err := resolve(exchangeURL, resp.Location())
	if err != nil {
		return nil, err
	}

	resp, err = a.do(ctx, "landing page", http.StatusOK, newRequestBuilder(ctx, http.MethodGet, landingURL).
		withProfile(htmlProfile))
	if err != nil {
		return nil, err
	}

	token, err := pageCSRF(resp)
	if err != nil {
		return nil, errors.Wrap(err, "landing page")
	}

	language := a.transport.Cookie(landingURL, languageCookie)
	if language == "" {
		log.Debug("authenticator: guest language cookie is missing")
	}

	log.Info("authenticator: logged in to the portal")

	return &PortalSession{
		XCSRFToken:      token,
		Referer:         landingURL,
		BaseURL:         strings.TrimSuffix(landingURL, "/") + "/",
		GuestLanguageID: language,
	}, nil
}

// submitForm loads an identity provider page, fills in its hidden fields and posts the form with the given fields.
// A 200 response to the post means the form was rendered again, which is how the provider rejects credentials.
func (a *authenticator) submitForm(
	ctx context.Context,
	step, identity, pageURL, formID string,
	fields url.Values,
	expected int,
) (*Response, error) {
	resp, err := a.do(ctx, step+" page", http.StatusOK, newRequestBuilder(ctx, http.MethodGet, pageURL).
		withProfile(htmlProfile))
	if err != nil {
		return nil, err
	}

	form, err := parseLoginForm(resp.Body, formID)
	if err != nil {
		return nil, errors.Wrapf(err, "%s page", step)
	}

	fields.Set("relayState", form.relayState)
	fields.Set("hmac", form.hmac)
	fields.Set("_csrf", form.csrf)

	actionURL, err := resolve(identity+"/", form.action)
	if err != nil {
		return nil, err
	}

	req, err := newRequestBuilder(ctx, http.MethodPost, actionURL).
		withProfile(htmlProfile).
		withReferer(pageURL).
		withForm(fields).
		withoutRedirects().
		build()
	if err != nil {
		return nil, errors.Wrapf(err, "%s form: failed to create request", step)
	}

	resp, err = a.transport.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s form", step)
	}

	if resp.StatusCode == http.StatusOK {
		return nil, errors.Wrapf(ErrInvalidCredentials, "%s form", step)
	}

	if resp.StatusCode != expected {
		return nil, errors.Wrapf(unexpectedStatus(resp, expected), "%s form", step)
	}

	return resp, nil
}

func (a *authenticator) do(ctx context.Context, step string, expected int, builder *requestBuilder) (*Response, error) {
	req, err := builder.build()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to create request", step)
	}

	resp, err := a.transport.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, step)
	}

	if resp.StatusCode != expected {
		return nil, errors.Wrap(unexpectedStatus(resp, expected), step)
	}

	if expected >= http.StatusMultipleChoices && resp.Location() == "" {
		return nil, errors.Wrapf(ErrElementNotFound, "%s: redirect location", step)
	}

	return resp, nil
}

func (a *authenticator) handleRejectedCredentials() {
	log.Warn("authenticator: portal rejected the stored credentials")

	if a.notificationManager != nil {
		if err := a.notificationManager.Event(&notification.Event{EventName: notificationLoginRejected}); err != nil {
			log.WithError(err).Error("authenticator: failed to send push notification")
		}
	}

	if err := a.sendAppLogoutMessage(); err != nil {
		log.WithError(err).Error("authenticator: failed to send app logout message")
	}
}

func (a *authenticator) sendAppLogoutMessage() error {
	if a.mqtt == nil {
		return nil
	}

	message := fimpgo.NewNullMessage("cmd.auth.logout", a.serviceName, nil, nil, nil)

	if err := a.mqtt.PublishToTopic(logoutAddress, message); err != nil {
		return fmt.Errorf("failed to publish a message to mqtt: address: %s, message: %v, err: %w", logoutAddress, message, err)
	}

	return nil
}

func pageCSRF(resp *Response) (string, error) {
	doc, err := parseDocument(resp.Body)
	if err != nil {
		return "", err
	}

	return metaContent(doc, "_csrf")
}
