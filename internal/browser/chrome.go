package browser

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// lifecycle event Chrome emits once at most two connections remain open
const networkAlmostIdle = "networkAlmostIdle"

// ChromeLauncher starts headless Chrome sessions through chromedp, either
// as a local process or against a remote DevTools endpoint.
type ChromeLauncher struct {
	opts Options
}

// NewChromeLauncher creates a chromedp-backed launcher
func NewChromeLauncher(opts Options) *ChromeLauncher {
	return &ChromeLauncher{opts: opts}
}

// Launch starts a fresh browser (or remote tab) and returns its session
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if l.opts.ChromeAddr != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, l.opts.ChromeAddr)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", l.opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.NoSandbox,
			chromedp.UserAgent(l.opts.userAgent()),
		)
		if l.opts.ProxyURL != "" {
			opts = append(opts, chromedp.ProxyServer(l.opts.ProxyURL))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, err
	}

	return &chromeSession{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		userAgent:   l.opts.userAgent(),
		opts:        l.opts,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	userAgent   string
	opts        Options

	closeOnce sync.Once
	closeErr  error
}

func (s *chromeSession) Render(ctx context.Context, url string) (string, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.timeout())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		emulation.SetUserAgentOverride(s.userAgent),
		navigateAndWaitIdle(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.tabCancel()
		s.allocCancel()
	})
	return s.closeErr
}

// navigateAndWaitIdle loads url and blocks until the page's network goes
// almost idle or ctx is done.
func navigateAndWaitIdle(url string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		idle := make(chan struct{})
		var once sync.Once
		var navigating atomic.Bool

		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == networkAlmostIdle && navigating.Load() {
				once.Do(func() { close(idle) })
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		navigating.Store(true)
		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
