// Package browser wraps Playwright for the cookie refresh run.
//
// A Manager owns the Playwright driver. Each call to Launch starts an isolated
// Chromium instance with its own browser context and page, wrapped in a
// Session. Sessions expose only what a login flow needs: navigation, element
// lookup and interaction, URL waits, cookie reads and screenshots.
//
// # Session Lifecycle
//
//  1. Initialize: install (optionally) and start the Playwright driver
//  2. Launch: start Chromium with the configured user agent and viewport
//  3. Use: drive the login form and read cookies
//  4. Close: release the page, context and browser
//  5. Shutdown: close leftover sessions and stop the driver
//
// # Example Usage
//
//	manager := browser.NewManager()
//	if err := manager.Initialize(true); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.Launch(ctx, browser.Options{
//	    Headless:  true,
//	    UserAgent: config.DefaultUserAgent,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.Goto("https://alpha.chatflux.ai/login", 30*time.Second)
package browser
