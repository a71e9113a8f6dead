package acquirer

import "errors"

var (
	// ErrMissingCredentials is returned before any browser is launched when
	// the email or password is empty.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrStillOnLoginPage is returned when the page URL still denotes the
	// login page after the credentials were submitted.
	ErrStillOnLoginPage = errors.New("still on the login page after submitting credentials")

	// ErrSessionCookieNotFound is returned when the browser holds no cookie
	// with the configured session cookie name.
	ErrSessionCookieNotFound = errors.New("session cookie not found")
)
