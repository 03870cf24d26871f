package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/michalkurzeja/go-clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"github.com/tidwall/gjson"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/graphql"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

const (
	statusURI          = "/uk/status"
	settingsURI        = "/uk/settings.html?giid="
	setInstallationURI = "/setinstallation?giid="
	smartLockURI       = "/overview/doorlock/"

	graphQLURI   = "/graphql"
	authLoginURI = "/auth/login"

	myPagesTitle  = "<title>MyPages</title>"
	csrfMarker    = `_csrf" value=`
	csrfLength    = 64
	sessionCookie = "vid"
)

// SecurityClient talks to the home-security portal and its mirrored GraphQL API servers.
type SecurityClient interface {
	// LoginState probes whether the portal session is still authenticated.
	LoginState(ctx context.Context) LoginState
	// AuthLogin refreshes the session cookies and authenticates against the API server in use.
	// It returns the HTTP status of the authentication call.
	AuthLogin(ctx context.Context, username string) (int, error)
	// InstallationCSRF fetches the CSRF token scoped to an installation.
	InstallationCSRF(ctx context.Context, giid string) (string, error)
	// SelectInstallation makes the installation the target of subsequent calls.
	SelectInstallation(ctx context.Context, giid string) error
	// Query runs a GraphQL query and returns the raw response body.
	Query(ctx context.Context, op graphql.Operation) ([]byte, error)
	// Mutate sends a GraphQL mutation and returns the HTTP status.
	Mutate(ctx context.Context, op graphql.Operation) (int, error)
	// PostForm posts an url encoded settings command to the portal and returns the HTTP status.
	PostForm(ctx context.Context, path, body string) (int, error)
	// SmartLockDetails fetches auto relock and volume settings of a smart lock.
	SmartLockDetails(ctx context.Context, deviceLabel string) (*model.SmartLockDetails, error)
	// Installations lists the installations of the account.
	Installations(ctx context.Context, email string) ([]model.Installation, error)
}

type securityClient struct {
	transport  Transport
	myPagesURL string
	endpoints  Endpoints
}

// NewSecurityClient creates a new home-security client.
func NewSecurityClient(transport Transport, myPagesURL string, endpoints Endpoints) SecurityClient {
	return &securityClient{
		transport:  transport,
		myPagesURL: strings.TrimSuffix(myPagesURL, "/"),
		endpoints:  endpoints,
	}
}

func (c *securityClient) LoginState(ctx context.Context) LoginState {
	req, err := newRequestBuilder(ctx, http.MethodGet, c.myPagesURL+statusURI).
		withoutRedirects().
		build()
	if err != nil {
		log.WithError(err).Warn("security client: failed to create status request")

		return LoginStateLoggedOut
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		log.WithError(err).Warn("security client: status probe failed")

		return LoginStateLoggedOut
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if bytes.Contains(resp.Body, []byte(myPagesTitle)) {
			return LoginStateLoggedIn
		}

		return LoginStateLoggedOut
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return LoginStateUnavailable
	case http.StatusFound:
		return LoginStateLoggedOut
	default:
		log.WithField("status", resp.StatusCode).Info("security client: unexpected status probe response")

		return LoginStateLoggedOut
	}
}

func (c *securityClient) AuthLogin(ctx context.Context, username string) (int, error) {
	req, err := newRequestBuilder(ctx, http.MethodGet, c.myPagesURL+statusURI).build()
	if err != nil {
		return 0, errors.Wrap(err, "failed to create status request")
	}

	if _, err = c.transport.Do(req); err != nil {
		return 0, errors.Wrap(err, "status request failed")
	}

	headers := map[string]string{}

	if vid := c.transport.Cookie(c.myPagesURL, sessionCookie); vid != "" {
		headers[authorizationHeader] = basicAuth("CPE/"+username, vid)
	}

	resp, err := c.postAPI(ctx, authLoginURI, jsonProfile, "", headers)
	if err != nil {
		return 0, errors.Wrap(err, "auth login request failed")
	}

	return resp.StatusCode, nil
}

func (c *securityClient) InstallationCSRF(ctx context.Context, giid string) (string, error) {
	req, err := newRequestBuilder(ctx, http.MethodGet, c.myPagesURL+settingsURI+url.QueryEscape(giid)).build()
	if err != nil {
		return "", errors.Wrap(err, "failed to create settings request")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "settings request failed")
	}

	body := string(resp.Body)

	idx := strings.Index(body, csrfMarker)
	if idx < 0 || idx+len(csrfMarker)+1+csrfLength > len(body) {
		return "", errors.Wrap(ErrElementNotFound, "installation csrf token")
	}

	start := idx + len(csrfMarker) + 1

	return body[start : start+csrfLength], nil
}

func (c *securityClient) SelectInstallation(ctx context.Context, giid string) error {
	req, err := newRequestBuilder(ctx, http.MethodGet, c.myPagesURL+setInstallationURI+url.QueryEscape(giid)).build()
	if err != nil {
		return errors.Wrap(err, "failed to create set installation request")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return errors.Wrap(err, "set installation request failed")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return unexpectedStatus(resp, http.StatusOK)
	}

	return nil
}

func (c *securityClient) Query(ctx context.Context, op graphql.Operation) ([]byte, error) {
	resp, err := c.postAPI(ctx, graphQLURI, jsonProfile, op.Body, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s query failed", op.Name)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(unexpectedStatus(resp, http.StatusOK), "%s query failed", op.Name)
	}

	if !gjson.ValidBytes(resp.Body) {
		return nil, errors.Errorf("%s query returned malformed json", op.Name)
	}

	if errs := gjson.GetBytes(resp.Body, op.ErrorsPath()); errs.Exists() && len(errs.Array()) > 0 {
		return nil, errors.Errorf("%s query returned errors: %s", op.Name, errs.Raw)
	}

	return resp.Body, nil
}

func (c *securityClient) Mutate(ctx context.Context, op graphql.Operation) (int, error) {
	resp, err := c.postAPI(ctx, graphQLURI, jsonProfile, op.Body, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "%s mutation failed", op.Name)
	}

	return resp.StatusCode, nil
}

func (c *securityClient) PostForm(ctx context.Context, path, body string) (int, error) {
	req, err := newRequestBuilder(ctx, http.MethodPost, c.myPagesURL+path).
		withProfile(htmlProfile).
		withRawBody(body).
		build()
	if err != nil {
		return 0, errors.Wrap(err, "failed to create command request")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "command request failed")
	}

	if resp.StatusCode == http.StatusOK && IsUpstreamFailure(resp.Body) {
		return http.StatusServiceUnavailable, ErrServiceUnavailable
	}

	return resp.StatusCode, nil
}

func (c *securityClient) SmartLockDetails(ctx context.Context, deviceLabel string) (*model.SmartLockDetails, error) {
	u := c.myPagesURL + smartLockURI + url.PathEscape(deviceLabel) + "?_=" + strconv.FormatInt(clock.Now().UnixMilli(), 10)

	req, err := newRequestBuilder(ctx, http.MethodGet, u).build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smart lock request")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "smart lock request failed")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp, http.StatusOK)
	}

	details := &model.SmartLockDetails{}

	if err := readResponseBody(resp, details); err != nil {
		return nil, errors.Wrap(err, "could not read smart lock response body")
	}

	return details, nil
}

func (c *securityClient) Installations(ctx context.Context, email string) ([]model.Installation, error) {
	op := graphql.AccountInstallations(email)

	body, err := c.Query(ctx, op)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, op.DataPath("account.owainstallations"))
	if !list.IsArray() {
		return nil, errors.New("installations response does not contain expected data")
	}

	installations := make([]model.Installation, 0, len(list.Array()))

	for _, item := range list.Array() {
		installations = append(installations, model.Installation{
			ID:   item.Get("giid").String(),
			Name: item.Get("alias").String(),
		})
	}

	return installations, nil
}

// postAPI posts to the API server in use, rotating to the next one whenever a 200 response carries
// the upstream unavailable marker. Every server is tried at most once.
func (c *securityClient) postAPI(ctx context.Context, path string, profile headerProfile, body string, headers map[string]string) (*Response, error) {
	for attempt := 0; attempt < c.endpoints.Len(); attempt++ {
		server := c.endpoints.Current()

		builder := newRequestBuilder(ctx, http.MethodPost, server+path).
			withProfile(profile).
			withRawBody(body)

		for k, v := range headers {
			builder.addHeader(k, v)
		}

		req, err := builder.build()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create api request")
		}

		resp, err := c.transport.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK || !IsUpstreamFailure(resp.Body) {
			return resp, nil
		}

		next := c.endpoints.Rotate()
		metrics.FailoverCounter.Inc()

		log.WithField("from", server).WithField("to", next).Warn("security client: upstream unavailable, switching api server")
	}

	return nil, ErrServiceUnavailable
}

func readResponseBody(resp *Response, body interface{}) error {
	err := json.Unmarshal(resp.Body, body)
	if err != nil {
		return errors.Wrap(err, "could not decode response body")
	}

	if funk.IsEmpty(body) {
		return errors.New("response body does not contain expected data")
	}

	return nil
}

// PrepareInstallation makes the installation the target of the API session and returns its CSRF token.
// The token is fetched first, the installation is selected and the API session is authenticated.
func PrepareInstallation(ctx context.Context, c SecurityClient, username, giid string) (string, error) {
	csrf, err := c.InstallationCSRF(ctx, giid)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get csrf token of installation %s", giid)
	}

	if err = c.SelectInstallation(ctx, giid); err != nil {
		return "", errors.Wrapf(err, "failed to select installation %s", giid)
	}

	status, err := c.AuthLogin(ctx, username)
	if err != nil {
		return "", errors.Wrapf(err, "failed to authenticate api session for installation %s", giid)
	}

	if status != http.StatusOK {
		return "", errors.Wrapf(ErrNotAuthenticated, "auth login returned status %d", status)
	}

	return csrf, nil
}
