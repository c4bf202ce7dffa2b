package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"
)

// DesktopUserAgent is the browser identity presented to property sites
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ErrRateLimited is returned when the remote site answers with a throttling status
var ErrRateLimited = errors.New("rate limited")

// FetchOptions tunes the retrying HTTP client behind a Fetcher
type FetchOptions struct {
	RetryMax int
	Timeout  time.Duration
	ProxyURL string
}

// Fetcher issues browser-like GET requests and returns UTF-8 bodies
type Fetcher struct {
	client *retryablehttp.Client
}

// NewFetcher creates a fetcher backed by a retryable HTTP client
func NewFetcher(opts FetchOptions) (*Fetcher, error) {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = opts.RetryMax
	rc.Logger = nil
	// Hand the last response back so status codes can be inspected.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}

	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		if transport, ok := rc.HTTPClient.Transport.(*http.Transport); ok {
			transport.Proxy = http.ProxyURL(proxy)
		}
	}

	return &Fetcher{client: rc}, nil
}

// Fetch sends a GET request with browser-like headers, converts the response
// body to UTF-8 (if needed), and returns it as an io.Reader.
func (f *Fetcher) Fetch(ctx context.Context, target, userAgent string) (io.Reader, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if userAgent == "" {
		userAgent = DesktopUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, fmt.Errorf("%w; retry after %s", ErrRateLimited, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", target, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}
