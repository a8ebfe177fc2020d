package driven

import "time"

// CodeReceiver is a single-use loopback listener that receives the
// provider's OAuth redirect. Implementations bind an ephemeral local
// TCP port and accept exactly one callback carrying the authorization
// code.
type CodeReceiver interface {
	// Start binds the listener and begins serving.
	Start() error

	// RedirectURI returns the redirect URI for the bound port.
	RedirectURI() string

	// WaitForCode blocks until the authorization code arrives or the
	// timeout elapses.
	WaitForCode(timeout time.Duration) (string, error)

	// Stop shuts the listener down.
	Stop() error
}

// CodeReceiverFactory creates a receiver expecting the given state
// parameter. One receiver per authorization run.
type CodeReceiverFactory func(state string) CodeReceiver

// BrowserOpener opens a URL in the system's default browser.
// Best effort: a failure does not abort the authorization flow, since
// the user may paste the URL manually.
type BrowserOpener func(url string) error
