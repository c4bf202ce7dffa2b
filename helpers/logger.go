package helpers

import (
	stderrors "errors"
	"fmt"

	"sjsage522/housingworker/logger"
	"sjsage522/housingworker/pkg/errors"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(name string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger forwards to the structured zerolog logger of its component,
// tagging errors with the target or component name that produced them.
type Logger struct {
	component string
}

// NewLogger creates a new logger instance for a component
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) base() *logger.Logger {
	switch l.component {
	case "worker":
		return logger.ForWorker()
	case "publisher":
		return logger.ForPublisher()
	case "cache":
		return logger.ForCache()
	case "api":
		return logger.ForServer()
	default:
		return logger.ForComponent(l.component)
	}
}

// LogError logs err under name. Scraper components log name as the
// failing target.
func (l *Logger) LogError(name string, err error) {
	log := l.base().WithField("name", name)
	if l.component == "scraper" {
		log = logger.ForScraper(name).WithField("component", l.component)
	}
	log.Error().Err(err).Msg(failureMessage(err))
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	l.base().Info().Msg(fmt.Sprintf(format, args...))
}

func failureMessage(err error) string {
	var scrapeErr *errors.ScrapeError
	if !stderrors.As(err, &scrapeErr) {
		return "operation failed"
	}
	switch scrapeErr.Type {
	case errors.ErrorTypeListing:
		return "listing scrape failed"
	case errors.ErrorTypeOrchestration:
		return "scrape run failed"
	case errors.ErrorTypePublisher:
		return "publish failed"
	case errors.ErrorTypeCache:
		return "cache operation failed"
	case errors.ErrorTypeConfiguration:
		return "invalid configuration"
	default:
		return "scrape failed"
	}
}
