package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"short-url-client/backend"
	"short-url-client/model"
)

func TestShorten_Existing(t *testing.T) {
	api := newFakeBackend()
	api.shortenResp = &model.ShortenResponse{ShortCode: "x7f", Existed: true}
	s := newTestSession(api, &recordingNavigator{}, "/")

	resp, err := s.Shorten(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if !resp.Existed {
		t.Error("Expected existed response")
	}

	entry := assertOneEntry(t, s.Log(), model.KindWarning, "x7f")
	if entry.Message != "Found Existing: http://sho.rt/x7f" {
		t.Errorf("Unexpected message %q", entry.Message)
	}
	if n := len(entriesOfKind(s.Log(), model.KindSuccess)); n != 0 {
		t.Errorf("Expected no success entries, got %d", n)
	}
}

func TestShorten_Created(t *testing.T) {
	api := newFakeBackend()
	api.shortenResp = &model.ShortenResponse{ShortCode: "x7f", Existed: false}
	api.links = []model.LinkRecord{{ShortCode: "x7f", OriginalURL: "https://example.com"}}
	s := newTestSession(api, &recordingNavigator{}, "/")

	if _, err := s.Shorten(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}

	assertOneEntry(t, s.Log(), model.KindSuccess, "x7f")
	if api.Calls("links") != 1 || api.Calls("analytics") != 1 {
		t.Errorf("Expected an immediate refresh, got links=%d analytics=%d", api.Calls("links"), api.Calls("analytics"))
	}
	if links := s.State().Links(); len(links) != 1 || links[0].ShortCode != "x7f" {
		t.Errorf("Expected refreshed snapshot, got %+v", links)
	}
	if s.Busy() {
		t.Error("Session should not be busy after Shorten returns")
	}
}

func TestShorten_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Rejected", &backend.RejectionError{Op: "shorten", StatusCode: http.StatusInternalServerError}, "Fail: HTTP Error 500"},
		{"Transport", errConnRefused, "Fail: dial tcp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeBackend()
			api.shortenErr = tt.err
			s := newTestSession(api, &recordingNavigator{}, "/")

			_, err := s.Shorten(context.Background(), "https://example.com")
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
			entry := assertOneEntry(t, s.Log(), model.KindError, "Fail")
			if !strings.HasPrefix(entry.Message, tt.want) {
				t.Errorf("Expected message starting with %q, got %q", tt.want, entry.Message)
			}
			if api.Calls("links") != 0 {
				t.Error("A failed shorten must not refresh")
			}
		})
	}
}

func TestShorten_InvalidInputNeverReachesBackend(t *testing.T) {
	api := newFakeBackend()
	s := newTestSession(api, &recordingNavigator{}, "/")

	for _, input := range []string{"", "not a url", "ftp://example.com"} {
		if _, err := s.Shorten(context.Background(), input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
	if api.TotalCalls() != 0 {
		t.Errorf("Expected no backend calls, got %d", api.TotalCalls())
	}
}

func TestSimulateVisit_Success(t *testing.T) {
	api := newFakeBackend()
	api.lookupResp = &model.LookupResponse{Location: "https://example.com"}
	nav := &recordingNavigator{}
	s := newTestSession(api, nav, "/")

	location, err := s.SimulateVisit(context.Background(), "x7f")
	if err != nil {
		t.Fatalf("SimulateVisit() error = %v", err)
	}
	if location != "https://example.com" {
		t.Errorf("Unexpected location %q", location)
	}
	assertOneEntry(t, s.Log(), model.KindSuccess, "Redirect -> https://example.com")
	assertOneEntry(t, s.Log(), model.KindSystem, "GET /x7f")
	if api.Calls("links") != 1 {
		t.Error("Expected an immediate refresh after a successful visit")
	}
	if len(nav.navigated) != 0 {
		t.Error("The visit simulator must never navigate")
	}
}

func TestSimulateVisit_TransportFailure(t *testing.T) {
	api := newFakeBackend()
	api.lookupErr = errConnRefused
	nav := &recordingNavigator{}
	s := newTestSession(api, nav, "/")

	if _, err := s.SimulateVisit(context.Background(), "x7f"); err == nil {
		t.Fatal("Expected an error")
	}

	assertOneEntry(t, s.Log(), model.KindError, "Network Error")
	if len(nav.navigated) != 0 {
		t.Error("Expected no navigation")
	}
	if api.Calls("links") != 0 || api.Calls("analytics") != 0 {
		t.Error("Expected no snapshot refresh")
	}
}

func TestSimulateVisit_UnknownCode(t *testing.T) {
	tests := []struct {
		name string
		resp *model.LookupResponse
		err  error
		want string
	}{
		{"Success without location", &model.LookupResponse{Detail: "not found"}, nil, "Error: not found"},
		{"Not found", nil, &backend.RejectionError{StatusCode: http.StatusNotFound, Detail: "URL not found"}, "Error: URL not found"},
		{"Rejected without detail", nil, &backend.RejectionError{StatusCode: http.StatusBadGateway}, "Error: HTTP Error 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeBackend()
			api.lookupResp, api.lookupErr = tt.resp, tt.err
			s := newTestSession(api, &recordingNavigator{}, "/")

			if _, err := s.SimulateVisit(context.Background(), "nope"); err == nil {
				t.Fatal("Expected an error")
			}
			entry := assertOneEntry(t, s.Log(), model.KindError, "Error")
			if entry.Message != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, entry.Message)
			}
			if api.Calls("links") != 0 {
				t.Error("Expected no refresh")
			}
		})
	}
}

func TestCopyLink(t *testing.T) {
	t.Run("Copied", func(t *testing.T) {
		clip := &fakeClipboard{}
		s := NewSession(Options{Backend: newFakeBackend(), Clipboard: clip, Origin: "http://sho.rt", MountPrefix: "/app"}, "/app")

		if err := s.CopyLink("x7f"); err != nil {
			t.Fatalf("CopyLink() error = %v", err)
		}
		if clip.text != "http://sho.rt/app/x7f" {
			t.Errorf("Unexpected clipboard contents %q", clip.text)
		}
		assertOneEntry(t, s.Log(), model.KindSuccess, "Copied: http://sho.rt/app/x7f")
	})

	t.Run("Clipboard error", func(t *testing.T) {
		s := NewSession(Options{Backend: newFakeBackend(), Clipboard: &fakeClipboard{err: errors.New("no display")}}, "/")
		if err := s.CopyLink("x7f"); err == nil {
			t.Fatal("Expected an error")
		}
		assertOneEntry(t, s.Log(), model.KindError, "Copy failed")
	})

	t.Run("No clipboard", func(t *testing.T) {
		s := NewSession(Options{Backend: newFakeBackend()}, "/")
		if err := s.CopyLink("x7f"); !errors.Is(err, ErrNoClipboard) {
			t.Errorf("Expected ErrNoClipboard, got %v", err)
		}
	})
}
