package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
}

func TestSectionFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.With("section", "nope").Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("section", "package").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWarningsAlwaysPass(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.With("section", "nope").Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestEnableSections(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf).With("section", "elab-test")

	logger.Debug("before")
	assert.NotContains(t, buf.String(), "before")

	EnableSections("elab-test")
	logger.Debug("after")
	assert.Contains(t, buf.String(), "after")
}
