package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"short-url-client/backend"
	"short-url-client/eventlog"
	"short-url-client/model"
)

var errConnRefused = &backend.TransportError{Op: "test", Err: errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")}

type fakeBackend struct {
	mu sync.Mutex

	shortenResp  *model.ShortenResponse
	shortenErr   error
	links        []model.LinkRecord
	linksErr     error
	analytics    []model.AnalyticsPoint
	analyticsErr error
	lookupResp   *model.LookupResponse
	lookupErr    error

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeBackend) BaseURL() string { return "http://backend.test" }

func (f *fakeBackend) Shorten(ctx context.Context, longURL string) (*model.ShortenResponse, error) {
	f.record("shorten")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shortenResp, f.shortenErr
}

func (f *fakeBackend) Links(ctx context.Context) ([]model.LinkRecord, error) {
	f.record("links")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.links, f.linksErr
}

func (f *fakeBackend) Analytics(ctx context.Context) ([]model.AnalyticsPoint, error) {
	f.record("analytics")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analytics, f.analyticsErr
}

func (f *fakeBackend) Lookup(ctx context.Context, code string) (*model.LookupResponse, error) {
	f.record("lookup")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookupResp, f.lookupErr
}

type recordingNavigator struct {
	mu        sync.Mutex
	navigated []string
	replaced  []string
	alerts    []string
}

func (n *recordingNavigator) Navigate(destination string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigated = append(n.navigated, destination)
}

func (n *recordingNavigator) ReplacePath(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, path)
}

func (n *recordingNavigator) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestSession(api *fakeBackend, nav *recordingNavigator, path string) *Session {
	return NewSession(Options{
		Backend:      api,
		Log:          eventlog.New(),
		Navigator:    nav,
		Origin:       "http://sho.rt",
		PollInterval: 20 * time.Millisecond,
	}, path)
}

func entriesOfKind(l *eventlog.Log, kind model.LogKind) []model.LogEntry {
	var out []model.LogEntry
	for _, e := range l.Entries() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func assertOneEntry(t *testing.T, l *eventlog.Log, kind model.LogKind, contains string) model.LogEntry {
	t.Helper()
	entries := entriesOfKind(l, kind)
	if len(entries) != 1 {
		t.Fatalf("Expected exactly 1 %s entry, got %d: %+v", kind, len(entries), l.Entries())
	}
	if !strings.Contains(entries[0].Message, contains) {
		t.Errorf("Expected %s entry to mention %q, got %q", kind, contains, entries[0].Message)
	}
	return entries[0]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
