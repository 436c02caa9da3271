// Package client is the resolution-and-sync engine of the short URL client.
//
// A Session stands for one page load: it classifies its navigation path, resolves a
// short code when it was opened in redirect mode, and otherwise keeps a local
// snapshot of the backend's links and analytics fresh while recording every
// network operation in the event log.
package client

import (
	"context"
	"time"

	"short-url-client/eventlog"
	"short-url-client/model"
)

// Backend is the subset of the backend API the engine needs
type Backend interface {
	BaseURL() string
	Shorten(ctx context.Context, longURL string) (*model.ShortenResponse, error)
	Links(ctx context.Context) ([]model.LinkRecord, error)
	Analytics(ctx context.Context) ([]model.AnalyticsPoint, error)
	Lookup(ctx context.Context, code string) (*model.LookupResponse, error)
}

// Navigator is the presentation layer's handle on the current location
type Navigator interface {
	// Navigate leaves the client for destination (a full page load, not a route change)
	Navigate(destination string)
	// ReplacePath rewrites the visible path without navigating
	ReplacePath(path string)
	// Alert shows a user-visible notice
	Alert(message string)
}

// Clipboard receives copied short links
type Clipboard interface {
	WriteAll(text string) error
}

// Options wires a Session to its collaborators
type Options struct {
	Backend      Backend
	Log          *eventlog.Log // May be shared between sessions; a fresh log is created when nil
	Navigator    Navigator
	Clipboard    Clipboard
	Origin       string // Public origin used to build full short links
	MountPrefix  string
	PollInterval time.Duration
}

const defaultPollInterval = 5 * time.Second

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = eventlog.New()
	}
	if o.Navigator == nil {
		o.Navigator = nopNavigator{}
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	return o
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string)    {}
func (nopNavigator) ReplacePath(string) {}
func (nopNavigator) Alert(string)       {}
