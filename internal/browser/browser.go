package browser

import (
	"context"
	"fmt"
	"time"

	"sjsage522/housingworker/helpers"
)

// Modes accepted by New
const (
	ModeChrome = "chrome"
	ModeStatic = "static"
)

// Session is one isolated browser instance. Render loads url with the
// session's user agent, waits for the network to settle and returns the
// serialized DOM. Close must be called on every path.
type Session interface {
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// Launcher starts isolated browser sessions
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Options configures a Launcher
type Options struct {
	UserAgent         string
	Headless          bool
	ChromeAddr        string
	ProxyURL          string
	NavigationTimeout time.Duration
}

func (o Options) userAgent() string {
	if o.UserAgent == "" {
		return helpers.DesktopUserAgent
	}
	return o.UserAgent
}

func (o Options) timeout() time.Duration {
	if o.NavigationTimeout <= 0 {
		return 60 * time.Second
	}
	return o.NavigationTimeout
}

// New creates the launcher for mode
func New(mode string, opts Options) (Launcher, error) {
	switch mode {
	case ModeChrome, "":
		return NewChromeLauncher(opts), nil
	case ModeStatic:
		return NewStaticLauncher(opts)
	default:
		return nil, fmt.Errorf("unknown browser mode %q", mode)
	}
}
