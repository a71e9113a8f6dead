package acquirer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// compileURLPattern compiles a Playwright style URL glob: "*" stays within a
// path segment and "**" spans segments. An empty pattern yields nil.
func compileURLPattern(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid success_url_pattern %q: %w", pattern, err)
	}
	return g.Match, nil
}

// isLoginPage reports whether current points at the login page or below it.
// Query strings are ignored so "/login?error=1" still counts.
func isLoginPage(current, login string) bool {
	cu, err := url.Parse(current)
	if err != nil {
		return current == login
	}
	lu, err := url.Parse(login)
	if err != nil {
		return current == login
	}
	if !strings.EqualFold(cu.Host, lu.Host) {
		return false
	}

	loginPath := strings.TrimSuffix(lu.Path, "/")
	currentPath := strings.TrimSuffix(cu.Path, "/")
	if loginPath == "" {
		return currentPath == ""
	}
	return currentPath == loginPath || strings.HasPrefix(currentPath, loginPath+"/")
}

// waitForLogin waits for the success URL and falls back to waiting for the
// page to leave the login URL. The fallback error is the one returned.
func (a *Acquirer) waitForLogin(page Page) error {
	timeout := a.cfg.Timeouts.Login

	if a.successURL != nil {
		a.log.Verbosef("waiting up to %s for %s", timeout, a.cfg.SuccessURLPattern)
		err := page.WaitForURL(a.successURL, timeout)
		if err == nil {
			return nil
		}
		a.log.Verbosef("success URL not reached (%v), waiting for any navigation", err)
	}

	leftLogin := func(u string) bool {
		return !isLoginPage(u, a.cfg.LoginURL)
	}
	if err := page.WaitForURL(leftLogin, timeout); err != nil {
		return fmt.Errorf("timed out waiting for login to complete: %w", err)
	}
	return nil
}

// settle sleeps for d so late Set-Cookie headers land, returning early if
// ctx is done.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
