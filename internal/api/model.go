package api

// PortalSession is the authenticated context of the connected-car portal produced by a login.
type PortalSession struct {
	// XCSRFToken is sent with every JSON request.
	XCSRFToken string
	// Referer is the landing page reached after the login.
	Referer string
	// BaseURL prefixes every JSON endpoint, it always ends with a slash.
	BaseURL string
	// GuestLanguageID is optional.
	GuestLanguageID string
}

// LoginState is the result of probing the home-security portal.
type LoginState int

const (
	LoginStateLoggedOut LoginState = iota
	LoginStateLoggedIn
	LoginStateUnavailable
)

func (s LoginState) String() string {
	switch s {
	case LoginStateLoggedIn:
		return "logged_in"
	case LoginStateUnavailable:
		return "unavailable"
	case LoginStateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}
