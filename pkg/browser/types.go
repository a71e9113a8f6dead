package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures a new browser session.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// UserAgent overrides the client identity string sent by the browser
	UserAgent string

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout for page operations
	Timeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for sessions
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated cookie jar)
	Context playwright.BrowserContext

	// Page is the only page of the session
	Page playwright.Page

	// CreatedAt is the timestamp when the session was launched
	CreatedAt time.Time

	manager *Manager
}

// milliseconds converts a duration to the float milliseconds Playwright expects.
// A zero duration yields nil so Playwright falls back to its default.
func milliseconds(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	ms := float64(d.Milliseconds())
	return &ms
}
