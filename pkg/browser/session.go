package browser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/entrhq/chatflux-cookie/pkg/cookie"
	"github.com/playwright-community/playwright-go"
)

// Goto navigates to url and waits until the network has been idle.
func (s *Session) Goto(url string, timeout time.Duration) error {
	waitUntil := playwright.WaitUntilState("networkidle")
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   milliseconds(timeout),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Count returns how many elements currently match selector.
func (s *Session) Count(selector string) (int, error) {
	n, err := s.Page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("selector query failed: %w", err)
	}
	return n, nil
}

// Visible reports whether the first element matching selector is visible.
// It does not wait.
func (s *Session) Visible(selector string) (bool, error) {
	visible, err := s.Page.Locator(selector).First().IsVisible()
	if err != nil {
		return false, fmt.Errorf("visibility check failed: %w", err)
	}
	return visible, nil
}

// WaitVisible waits until the first element matching selector is visible.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	state := playwright.WaitForSelectorState("visible")
	err := s.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: milliseconds(timeout),
	})
	if err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Fill fills the first element matching selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.Page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	if err := s.Page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// WaitForURL waits until the page URL satisfies match.
func (s *Session) WaitForURL(match func(string) bool, timeout time.Duration) error {
	err := s.Page.WaitForURL(match, playwright.PageWaitForURLOptions{
		Timeout: milliseconds(timeout),
	})
	if err != nil {
		return fmt.Errorf("wait for url failed: %w", err)
	}
	return nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// Cookies returns every cookie stored in the session's browser context.
func (s *Session) Cookies() ([]cookie.Cookie, error) {
	raw, err := s.Context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]cookie.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, convertCookie(c))
	}
	return cookies, nil
}

// Screenshot captures the full page to path.
func (s *Session) Screenshot(path string) error {
	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     &path,
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Close releases the page, context and browser. Safe to call more than once.
func (s *Session) Close() error {
	s.release()
	if s.manager != nil {
		s.manager.forget(s)
	}
	return nil
}

func (s *Session) release() {
	if s.Page != nil {
		_ = s.Page.Close() // Ignore errors, continue cleanup
		s.Page = nil
	}
	if s.Context != nil {
		_ = s.Context.Close() // Ignore errors, continue cleanup
		s.Context = nil
	}
	if s.Browser != nil {
		_ = s.Browser.Close() // Ignore errors, continue cleanup
		s.Browser = nil
	}
}

func convertCookie(c playwright.Cookie) cookie.Cookie {
	out := cookie.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HttpOnly,
	}
	if c.SameSite != nil {
		out.SameSite = cookie.SameSite(*c.SameSite)
	}
	// Playwright reports -1 for session cookies
	if c.Expires > 0 {
		sec, frac := math.Modf(c.Expires)
		t := time.Unix(int64(sec), int64(frac*1e9))
		out.Expires = &t
	}
	return out
}

// IsTimeout reports whether err came from a Playwright wait running out or
// from a context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
