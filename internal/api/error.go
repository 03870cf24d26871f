package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrServiceUnavailable is returned when every API server reported the upstream unavailable marker.
	ErrServiceUnavailable = errors.New("upstream service unavailable")
	// ErrNotAuthenticated is returned when the API session could not be authenticated.
	ErrNotAuthenticated = errors.New("api session is not authenticated")
	// ErrElementNotFound is returned when a required token is missing from a page.
	ErrElementNotFound = errors.New("required element not found")
	// ErrInvalidCredentials is returned when the identity provider re-renders the login form.
	ErrInvalidCredentials = errors.New("credentials rejected by the identity provider")
	// ErrBackoff is returned while repeated login failures are being throttled.
	ErrBackoff = errors.New("too many failed login attempts: backoff is in use")
)

// HTTPError provides a way to pass more meaningful information regarding http errors without breaking interfaces.
type HTTPError struct {
	Err    error
	Status int
	Body   []byte
}

func (e HTTPError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}

	return fmt.Sprintf("%s, status code: %d, body: %s", e.Err, e.Status, body)
}

func (e HTTPError) Unwrap() error {
	return e.Err
}

func unexpectedStatus(resp *Response, want int) error {
	return HTTPError{
		Err:    errors.Errorf("expected response code to be %d, but got %d instead", want, resp.StatusCode),
		Status: resp.StatusCode,
		Body:   resp.Body,
	}
}
