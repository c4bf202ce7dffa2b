package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeBrowser represents failures launching or driving a browser session
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeNavigation represents network or timeout errors while loading a page
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeExtraction represents DOM access or parsing errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRateLimit represents a target that is temporarily blocked
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeListing represents failures on the listing aggregator site
	ErrorTypeListing ErrorType = "listing"
	// ErrorTypeOrchestration represents failures outside the per-source boundaries
	ErrorTypeOrchestration ErrorType = "orchestration"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a scrape pipeline error
type ScrapeError struct {
	Type    ErrorType
	Target  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Target, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Target, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Reason returns the human readable failure reason without the type prefix
func (e *ScrapeError) Reason() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// IsTargetFailure reports whether the error is recovered locally into a degraded record
func (e *ScrapeError) IsTargetFailure() bool {
	switch e.Type {
	case ErrorTypeBrowser, ErrorTypeNavigation, ErrorTypeExtraction, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, target, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Target:  target,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewBrowser creates a new browser session error
func NewBrowser(target, message string, err error) *ScrapeError {
	return New(ErrorTypeBrowser, target, message, err)
}

// NewNavigation creates a new navigation error
func NewNavigation(target, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, target, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(target, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, target, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(target string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("blocked for %v after a recent failure", duration)
	return New(ErrorTypeRateLimit, target, message, nil)
}

// NewListing creates a new listing site error
func NewListing(message string, err error) *ScrapeError {
	return New(ErrorTypeListing, "listing-site", message, err)
}

// NewOrchestration creates a new orchestration error
func NewOrchestration(message string, err error) *ScrapeError {
	return New(ErrorTypeOrchestration, "", message, err)
}

// NewCache creates a new cache error
func NewCache(target, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, target, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(target, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, target, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType of the first ScrapeError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type, true
	}
	return "", false
}
