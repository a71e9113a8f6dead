package main

import (
	"context"
	"errors"

	"github.com/entrhq/chatflux-cookie/pkg/acquirer"
	"github.com/entrhq/chatflux-cookie/pkg/browser"
	"github.com/entrhq/chatflux-cookie/pkg/config"
)

// failureHint suggests where to look after a failed run.
func failureHint(err error) string {
	switch {
	case errors.Is(err, acquirer.ErrMissingCredentials):
		return "set " + config.EnvEmail + " and " + config.EnvPassword + " (repository secrets in CI)"
	case errors.Is(err, acquirer.ErrStillOnLoginPage):
		return "the credentials were probably rejected, check the screenshot"
	case errors.Is(err, acquirer.ErrSessionCookieNotFound):
		return "login looked successful but the cookie name may have changed, see the available cookies above"
	case errors.Is(err, context.Canceled):
		return "the run was interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "the run timed out, raise --timeout or timeouts.run"
	case browser.IsTimeout(err):
		return "a page element or navigation timed out, the login form may have changed"
	default:
		return ""
	}
}
