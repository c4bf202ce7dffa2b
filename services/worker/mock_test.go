package worker

import (
	"context"
	"fmt"
	"sync"

	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/internal/scraper"
	"sjsage522/housingworker/services/publisher"
)

// MockPageScraper returns canned records per target key
type MockPageScraper struct {
	mu      sync.Mutex
	failing map[string]error
	calls   map[string]int
	// started is signalled on every call; gate, when set, blocks calls
	started chan string
	gate    chan struct{}
	panics  bool
}

var _ scraper.PropertyScraper = (*MockPageScraper)(nil)

func NewMockPageScraper() *MockPageScraper {
	return &MockPageScraper{
		failing: make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (m *MockPageScraper) Scrape(ctx context.Context, target scraper.ScrapeTarget) (*scraper.PropertyRecord, error) {
	m.mu.Lock()
	m.calls[target.Key]++
	err := m.failing[target.Key]
	started, gate, panics := m.started, m.gate, m.panics
	m.mu.Unlock()

	if started != nil {
		started <- target.Key
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if panics {
		panic("unexpected DOM shape")
	}
	if err != nil {
		return nil, err
	}

	return &scraper.PropertyRecord{
		ID:        target.Key,
		Name:      target.Name,
		Address:   target.Address,
		Phone:     target.Phone,
		Images:    []string{target.URL + "/apartment.jpg"},
		Prices:    []string{"$1,500"},
		Amenities: []string{"Gym"},
		Source:    target.Key,
	}, nil
}

func (m *MockPageScraper) Calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

// MockListingScraper returns a fixed listing set
type MockListingScraper struct {
	listings []extract.RawListing
	err      error
}

var _ scraper.ListingScraper = (*MockListingScraper)(nil)

func (m *MockListingScraper) ScrapeListings(ctx context.Context) ([]extract.RawListing, error) {
	if m.listings == nil {
		return []extract.RawListing{}, m.err
	}
	return m.listings, m.err
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
	trimmed  int
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages = append(m.messages, messageCopy)
	return nil
}

func (m *MockPublisher) TrimStreams(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockLogger implements the helpers.LoggerInterface for testing
type MockLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

var _ helpers.LoggerInterface = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{
		errors: make([]string, 0),
		infos:  make([]string, 0),
	}
}

func (m *MockLogger) LogError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, name+": "+err.Error())
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}
