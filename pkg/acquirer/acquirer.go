package acquirer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/chatflux-cookie/pkg/config"
	"github.com/entrhq/chatflux-cookie/pkg/cookie"
	"github.com/entrhq/chatflux-cookie/pkg/logging"
)

// Page is the browser capability the login flow is driven through.
// browser.Session implements it on top of Playwright.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Count(selector string) (int, error)
	Visible(selector string) (bool, error)
	WaitVisible(selector string, timeout time.Duration) error
	Fill(selector, value string) error
	Click(selector string) error
	WaitForURL(match func(string) bool, timeout time.Duration) error
	URL() string
	Cookies() ([]cookie.Cookie, error)
	Screenshot(path string) error
	Close() error
}

// Launcher starts an isolated browser session.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context) (Page, error)

// Launch calls f(ctx).
func (f LauncherFunc) Launch(ctx context.Context) (Page, error) {
	return f(ctx)
}

// Sink persists the serialized cookie.
type Sink interface {
	Write(value string) error
}

// Result describes a successful run.
type Result struct {
	// Value is exactly what was written to the sink
	Value string

	// Flow is the login flow that was actually driven
	Flow config.FlowMode

	// Session is the session cookie found after login
	Session cookie.Cookie

	// Cookies are the cookies serialized into Value
	Cookies []cookie.Cookie

	// FinalURL is the page URL when cookies were read
	FinalURL string
}

// Acquirer logs in through a browser and hands the session cookie to a sink.
type Acquirer struct {
	cfg        *config.Config
	launcher   Launcher
	sink       Sink
	log        *logging.Logger
	successURL func(string) bool

	now func() time.Time
}

// New creates an acquirer. The configuration is validated here, credentials
// are checked when Run starts.
func New(cfg *config.Config, launcher Launcher, sink Sink, log *logging.Logger) (*Acquirer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	successURL, err := compileURLPattern(cfg.SuccessURLPattern)
	if err != nil {
		return nil, err
	}

	return &Acquirer{
		cfg:        cfg,
		launcher:   launcher,
		sink:       sink,
		log:        log,
		successURL: successURL,
		now:        time.Now,
	}, nil
}

// Run performs one login and writes the resulting cookie.
//
// Missing credentials fail before the browser is launched. Any failure after
// launch triggers a best-effort screenshot; the browser is always closed.
// Nothing is written to the sink unless the whole flow succeeded.
func (a *Acquirer) Run(ctx context.Context) (result *Result, err error) {
	a.log.Step("Checking credentials")
	creds := a.cfg.Credentials
	if credErr := creds.Validate(); credErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingCredentials, credErr)
	}
	a.log.Redact(creds.Password)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.log.Step("Launching browser")
	page, err := a.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err != nil {
			a.captureScreenshot(page)
		}
		if closeErr := page.Close(); closeErr != nil {
			a.log.Debugf("closing browser: %v", closeErr)
		}
	}()

	flow, err := a.login(ctx, page, creds)
	if err != nil {
		return nil, err
	}

	a.log.Step("Reading cookies")
	result, err = a.extract(page, flow)
	if err != nil {
		return nil, err
	}
	a.log.Redact(result.Session.Value)
	a.log.Successf("Cookie obtained (%d characters)", len(result.Value))

	a.log.Step("Saving cookie")
	if err := a.sink.Write(result.Value); err != nil {
		return nil, err
	}

	return result, nil
}

// login drives the form and returns the flow that was used.
func (a *Acquirer) login(ctx context.Context, page Page, creds config.Credentials) (config.FlowMode, error) {
	sel := a.cfg.Selectors
	timeouts := a.cfg.Timeouts

	a.log.Step("Opening login page")
	a.log.Verbosef("navigating to %s", a.cfg.LoginURL)
	if err := page.Goto(a.cfg.LoginURL, timeouts.Navigation); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.log.Step("Filling credentials")
	if err := page.WaitVisible(anyOf(sel.Email), timeouts.Field); err != nil {
		return "", fmt.Errorf("email field did not appear: %w", err)
	}
	if err := a.fillField(page, "email", sel.Email, creds.Email); err != nil {
		return "", err
	}

	flow, err := a.detectFlow(page)
	if err != nil {
		return "", err
	}
	a.log.Verbosef("using %s login flow", flow)

	if flow == config.FlowTwoStep {
		if err := a.clickControl(page, "continue", sel.Continue); err != nil {
			return "", err
		}
		a.log.Verbosef("waiting up to %s for the password field", timeouts.PasswordField)
		if err := page.WaitVisible(anyOf(sel.Password), timeouts.PasswordField); err != nil {
			return "", fmt.Errorf("password field did not appear: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	if err := a.fillField(page, "password", sel.Password, creds.Password); err != nil {
		return "", err
	}

	a.log.Step("Submitting login")
	if err := a.clickControl(page, "submit", sel.Submit); err != nil {
		return "", err
	}

	a.log.Step("Waiting for login")
	if flow == config.FlowSingle {
		if err := a.waitForLogin(page); err != nil {
			return "", err
		}
	}

	a.log.Verbosef("letting the session settle for %s", timeouts.Settle)
	if err := settle(ctx, timeouts.Settle); err != nil {
		return "", err
	}

	current := page.URL()
	if isLoginPage(current, a.cfg.LoginURL) {
		return "", fmt.Errorf("%w: %s", ErrStillOnLoginPage, current)
	}
	a.log.Infof("Logged in, now at %s", current)

	return flow, nil
}

// detectFlow resolves FlowAuto by looking for a visible password field.
func (a *Acquirer) detectFlow(page Page) (config.FlowMode, error) {
	if a.cfg.Flow != config.FlowAuto {
		return a.cfg.Flow, nil
	}

	visible, err := page.Visible(anyOf(a.cfg.Selectors.Password))
	if err != nil {
		return "", fmt.Errorf("failed to detect login flow: %w", err)
	}
	if visible {
		return config.FlowSingle, nil
	}
	return config.FlowTwoStep, nil
}

// extract reads the browser cookies and serializes them for the sink.
func (a *Acquirer) extract(page Page, flow config.FlowMode) (*Result, error) {
	cookies, err := page.Cookies()
	if err != nil {
		return nil, err
	}

	name := a.cfg.SessionCookie
	session, ok := cookie.Find(cookies, name)
	if !ok {
		a.log.Infof("Available cookies: %s", strings.Join(cookie.Names(cookies), ", "))
		return nil, fmt.Errorf("%w: %s", ErrSessionCookieNotFound, name)
	}

	result := &Result{
		Flow:     flow,
		Session:  session,
		FinalURL: page.URL(),
	}

	format := a.cfg.Output.CookieFormat
	if format == config.FormatByFlow {
		format = config.FormatSession
		if flow == config.FlowTwoStep {
			format = config.FormatAll
		}
	}

	switch format {
	case config.FormatAll:
		firstParty, err := cookie.FirstParty(cookies, a.cfg.LoginURL, name, a.now())
		if err != nil {
			return nil, err
		}
		result.Cookies = firstParty
		result.Value = cookie.Header(firstParty)
	default:
		result.Cookies = []cookie.Cookie{session}
		result.Value = session.Pair()
	}

	a.log.Debugf("serialized %d cookie(s): %s", len(result.Cookies), strings.Join(cookie.Names(result.Cookies), ", "))
	return result, nil
}

// captureScreenshot saves a diagnostic screenshot. Failures are only logged.
func (a *Acquirer) captureScreenshot(page Page) {
	path := a.cfg.Output.ScreenshotFile
	if path == "" {
		return
	}
	if err := page.Screenshot(path); err != nil {
		a.log.Warningf("could not capture screenshot: %v", err)
		return
	}
	a.log.Infof("📸 Screenshot saved to %s", path)
}
