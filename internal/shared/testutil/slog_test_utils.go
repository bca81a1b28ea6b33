package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogEntry is one captured record with its attributes flattened. Attributes
// inside groups are keyed "group.key".
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogCapture is a slog.Handler that keeps every record for assertions and
// echoes it to t.Log so failing tests show what was logged.
type LogCapture struct {
	store  *logStore
	prefix string
	attrs  map[string]any
	t      testing.TB
}

// NewTestLogger returns a debug-level logger and the capture behind it
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{store: &logStore{}, attrs: map[string]any{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for k, v := range c.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(attrs, c.prefix, a)
		return true
	})

	c.store.mu.Lock()
	c.store.entries = append(c.store.entries, LogEntry{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.store.mu.Unlock()

	c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	return nil
}

func (c *LogCapture) WithAttrs(as []slog.Attr) slog.Handler {
	next := c.derive(c.prefix)
	for _, a := range as {
		flatten(next.attrs, c.prefix, a)
	}
	return next
}

func (c *LogCapture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	return c.derive(c.prefix + name + ".")
}

func (c *LogCapture) derive(prefix string) *LogCapture {
	attrs := make(map[string]any, len(c.attrs))
	for k, v := range c.attrs {
		attrs[k] = v
	}
	return &LogCapture{store: c.store, prefix: prefix, attrs: attrs, t: c.t}
}

func flatten(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		dst[prefix+a.Key] = v.Any()
		return
	}
	p := prefix
	if a.Key != "" {
		p += a.Key + "."
	}
	for _, ga := range v.Group() {
		flatten(dst, p, ga)
	}
}

// Entries returns a copy of everything logged so far, in order
func (c *LogCapture) Entries() []LogEntry {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return append([]LogEntry(nil), c.store.entries...)
}

// Find returns the entries at level whose message contains substr
func (c *LogCapture) Find(level slog.Level, substr string) []LogEntry {
	var out []LogEntry
	for _, e := range c.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

// ContainsMessage reports whether any message contains substr
func (c *LogCapture) ContainsMessage(substr string) bool {
	for _, e := range c.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any entry carries key with exactly value
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	for _, e := range c.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogContains fails t unless a message at level contains substr
func AssertLogContains(t testing.TB, c *LogCapture, level slog.Level, substr string) {
	t.Helper()
	if len(c.Find(level, substr)) > 0 {
		return
	}
	t.Errorf("no %s log containing %q", level, substr)
	for _, e := range c.Entries() {
		t.Logf("  %s %s", e.Level, e.Message)
	}
}
