package helpers

import (
	"bytes"
	"errors"
	"testing"

	"sjsage522/housingworker/logger"
	apperrors "sjsage522/housingworker/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf)
	defer logger.Init()

	l := NewLogger("scraper")

	l.LogError("verve", apperrors.NewNavigation("verve", "failed to load page", errors.New("navigation timeout")))
	assert.Contains(t, buf.String(), `"target":"verve"`)
	assert.Contains(t, buf.String(), "navigation timeout")
	assert.Contains(t, buf.String(), `"component":"scraper"`)
	assert.Contains(t, buf.String(), "scrape failed")

	buf.Reset()
	l.LogInfo("scraped %d properties", 4)
	assert.Contains(t, buf.String(), "scraped 4 properties")
	assert.Contains(t, buf.String(), `"component":"scraper"`)
}

func TestLoggerComponentMessages(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf)
	defer logger.Init()

	l := NewLogger("worker")

	l.LogError("publisher", apperrors.NewPublisher("housing:0", "xadd failed", errors.New("connection refused")))
	out := buf.String()
	assert.Contains(t, out, `"component":"worker"`)
	assert.Contains(t, out, `"name":"publisher"`)
	assert.Contains(t, out, "publish failed")
	assert.NotContains(t, out, "scrape failed")
	assert.NotContains(t, out, `"target"`)

	buf.Reset()
	l.LogError("worker", errors.New("boom"))
	assert.Contains(t, buf.String(), "operation failed")

	buf.Reset()
	NewLogger("integration").LogInfo("ready")
	assert.Contains(t, buf.String(), `"component":"integration"`)
}
