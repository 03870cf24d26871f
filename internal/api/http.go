package api

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
)

const maxBodySize = 8 << 20

type redirectKey struct{}

// WithoutRedirects marks requests made with the context to return 3xx responses as they are.
func WithoutRedirects(ctx context.Context) context.Context {
	return context.WithValue(ctx, redirectKey{}, true)
}

func redirectsDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(redirectKey{}).(bool)

	return disabled
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Location returns the redirect target of the response.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// Transport performs requests on behalf of a single session, keeping its cookies.
type Transport interface {
	// Do performs the request and reads the whole response body.
	Do(req *http.Request) (*Response, error)
	// Cookie returns the value of a cookie stored for the URL, empty if absent.
	Cookie(rawURL, name string) string
	// ResetCookies drops every stored cookie.
	ResetCookies() error
}

type transport struct {
	timeout func() time.Duration
	client  atomic.Pointer[http.Client]
}

// NewTransport creates a cookie keeping transport. The timeout is read before every request, zero disables it.
func NewTransport(timeout func() time.Duration) (Transport, error) {
	t := &transport{timeout: timeout}

	if err := t.ResetCookies(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *transport) ResetCookies() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return errors.Wrap(err, "failed to create cookie jar")
	}

	t.client.Store(&http.Client{
		Jar:           jar,
		CheckRedirect: checkRedirect,
	})

	return nil
}

func (t *transport) Do(req *http.Request) (*Response, error) {
	metrics.RequestCounter.WithLabelValues(req.Method).Inc()

	log.WithField("method", req.Method).WithField("url", req.URL.String()).Trace("transport: sending request")

	if timeout := t.timeout(); timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		req = req.WithContext(ctx)
	}

	resp, err := t.client.Load().Do(req)
	if err != nil {
		metrics.RequestErrorCounter.WithLabelValues(req.Method).Inc()

		return nil, errors.Wrap(err, "could not perform http call")
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		metrics.RequestErrorCounter.WithLabelValues(req.Method).Inc()

		return nil, errors.Wrap(err, "could not read response body")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		URL:        resp.Request.URL.String(),
	}, nil
}

func (t *transport) Cookie(rawURL, name string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	for _, c := range t.client.Load().Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}

	return ""
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if redirectsDisabled(req.Context()) {
		return http.ErrUseLastResponse
	}

	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}

	return nil
}

// resolve returns ref resolved against base, so both absolute and relative redirect targets work.
func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base url %q", base)
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url %q", ref)
	}

	return b.ResolveReference(r).String(), nil
}
