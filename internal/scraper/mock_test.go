package scraper

import (
	"context"
	"fmt"
	"sync"

	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/browser"
	apperrors "sjsage522/housingworker/pkg/errors"
)

var (
	_ browser.Launcher        = (*mockLauncher)(nil)
	_ browser.Session         = (*mockSession)(nil)
	_ helpers.LoggerInterface = (*mockLogger)(nil)
)

// mockLauncher serves canned pages keyed by URL and counts sessions
type mockLauncher struct {
	mu        sync.Mutex
	pages     map[string]string
	launchErr error
	renderErr error
	launched  int
	closed    int
}

func newMockLauncher(pages map[string]string) *mockLauncher {
	return &mockLauncher{pages: pages}
}

func (m *mockLauncher) Launch(ctx context.Context) (browser.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launchErr != nil {
		return nil, m.launchErr
	}
	m.launched++
	return &mockSession{launcher: m}, nil
}

func (m *mockLauncher) counts() (launched, closed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.launched, m.closed
}

type mockSession struct {
	launcher *mockLauncher
}

func (s *mockSession) Render(ctx context.Context, url string) (string, error) {
	s.launcher.mu.Lock()
	defer s.launcher.mu.Unlock()
	if s.launcher.renderErr != nil {
		return "", s.launcher.renderErr
	}
	html, ok := s.launcher.pages[url]
	if !ok {
		return "", fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}
	return html, nil
}

func (s *mockSession) Close() error {
	s.launcher.mu.Lock()
	defer s.launcher.mu.Unlock()
	s.launcher.closed++
	return nil
}

// mockLogger records failures by name
type mockLogger struct {
	mu     sync.Mutex
	errors map[string][]error
}

func newMockLogger() *mockLogger {
	return &mockLogger{errors: make(map[string][]error)}
}

func (l *mockLogger) LogError(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors[name] = append(l.errors[name], err)
}

func (l *mockLogger) LogInfo(format string, args ...interface{}) {}

func typeOf(err error) apperrors.ErrorType {
	t, _ := apperrors.TypeOf(err)
	return t
}
