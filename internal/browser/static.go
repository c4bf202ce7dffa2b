package browser

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"sjsage522/housingworker/helpers"
)

// ErrSessionClosed is returned when rendering on a closed session
var ErrSessionClosed = errors.New("browser session closed")

// StaticLauncher renders pages with a plain HTTP GET. It runs no scripts,
// so it suits server-rendered sites and tests.
type StaticLauncher struct {
	opts    Options
	fetcher *helpers.Fetcher
}

// NewStaticLauncher creates an HTTP-only launcher
func NewStaticLauncher(opts Options) (*StaticLauncher, error) {
	fetcher, err := helpers.NewFetcher(helpers.FetchOptions{
		RetryMax: 2,
		Timeout:  opts.timeout(),
		ProxyURL: opts.ProxyURL,
	})
	if err != nil {
		return nil, err
	}
	return &StaticLauncher{opts: opts, fetcher: fetcher}, nil
}

// Launch returns a new static session
func (l *StaticLauncher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &staticSession{launcher: l}, nil
}

type staticSession struct {
	launcher *StaticLauncher
	closed   atomic.Bool
}

func (s *staticSession) Render(ctx context.Context, url string) (string, error) {
	if s.closed.Load() {
		return "", ErrSessionClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.launcher.opts.timeout())
	defer cancel()

	body, err := s.launcher.fetcher.Fetch(ctx, url, s.launcher.opts.userAgent())
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *staticSession) Close() error {
	s.closed.Store(true)
	return nil
}
