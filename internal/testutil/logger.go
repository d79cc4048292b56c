// Package testutil holds shared test helpers: a catalog store on a temp
// SQLite file and loggers that route crawl and lineage output to the test.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger whose records go to t.Log, so
// they show only under -v or on failure.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{t: t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// LogCapture collects records written by a logger from NewCaptureLogger.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureLogger returns a logger that writes warnings and above both to
// t.Log and to the returned capture, for asserting on crawl warnings.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	t.Helper()
	c := &LogCapture{}
	h := slog.NewTextHandler(c, &slog.HandlerOptions{Level: slog.LevelWarn})
	t.Cleanup(func() {
		if out := c.String(); out != "" {
			t.Log(strings.TrimRight(out, "\n"))
		}
	})
	return slog.New(h), c
}

func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything captured so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines returns the captured records, one per line.
func (c *LogCapture) Lines() []string {
	s := strings.TrimRight(c.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type tbWriter struct {
	t testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
