// Package acquirer drives the ChatFlux login form and extracts the session
// cookie.
//
// An Acquirer runs one login per call to Run: it checks the credentials,
// launches a browser session through its Launcher, fills the form, waits for
// the dashboard and hands the serialized cookie to its Sink. Both login flows
// are supported. In the single-step flow email and password share a page; in
// the two-step flow the email is submitted first and the password field
// appears afterwards. FlowAuto picks one by checking whether a password field
// is visible once the page has loaded.
//
// Form fields are located through selector chains. Each chain is tried in
// order and the first selector that matches anything wins.
//
// # Example Usage
//
//	acq, err := acquirer.New(cfg, launcher, sink, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := acq.Run(ctx)
//	if errors.Is(err, acquirer.ErrStillOnLoginPage) {
//	    // credentials rejected
//	}
package acquirer
