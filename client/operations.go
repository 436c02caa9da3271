package client

import (
	"context"
	"fmt"
	"time"

	"short-url-client/backend"
	"short-url-client/model"
	"short-url-client/utils"
)

// Shorten submits longURL to the backend and records the outcome in the event log.
// On success the snapshots are refreshed immediately; on failure nothing but the log changes,
// so the caller should keep its input.
func (s *Session) Shorten(ctx context.Context, longURL string) (*model.ShortenResponse, error) {
	if err := utils.ValidateURL(longURL); err != nil {
		s.events.Error(fmt.Sprintf("Fail: %v", err))
		return nil, err
	}
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	start := time.Now()
	s.events.System(fmt.Sprintf("Connecting to: %s/shorten", s.opts.Backend.BaseURL()))

	resp, err := s.opts.Backend.Shorten(ctx, longURL)
	if err != nil {
		s.events.Error(fmt.Sprintf("Fail: %v", err))
		s.logger.Warn().Err(err).Str("url", longURL).Msg("Shorten failed")
		return nil, err
	}
	latency := elapsedMs(start)

	link := s.ShortLink(resp.ShortCode)
	if resp.Existed {
		s.events.Append(fmt.Sprintf("Found Existing: %s", link), model.KindWarning, latency)
	} else {
		s.events.Success(fmt.Sprintf("Created: %s", link), latency)
	}
	s.logger.Info().
		Str("short_code", resp.ShortCode).
		Bool("existed", resp.Existed).
		Int64("latency_ms", latency).
		Msg("Shortened URL")

	s.Refresh(ctx)
	return resp, nil
}

// SimulateVisit resolves code the way a visitor would, without navigating.
// It returns the destination so the caller may open it.
func (s *Session) SimulateVisit(ctx context.Context, code string) (string, error) {
	start := time.Now()
	s.events.System(fmt.Sprintf("GET /%s", code))

	resp, err := s.opts.Backend.Lookup(ctx, code)
	if err != nil {
		if backend.IsTransport(err) {
			s.events.Error(fmt.Sprintf("Network Error: %v", err))
			return "", err
		}
		detail := backend.Detail(err)
		if detail == "" {
			detail = err.Error()
		}
		s.events.Error(fmt.Sprintf("Error: %s", detail))
		return "", err
	}

	if resp.Location == "" {
		detail := resp.Detail
		if detail == "" {
			detail = backend.ErrUnknownCode.Error()
		}
		s.events.Error(fmt.Sprintf("Error: %s", detail))
		return "", fmt.Errorf("%w: %s", backend.ErrUnknownCode, detail)
	}

	s.events.Success(fmt.Sprintf("Redirect -> %s", resp.Location), elapsedMs(start))
	s.Refresh(ctx)
	return resp.Location, nil
}

// CopyLink puts the full short link for code on the clipboard
func (s *Session) CopyLink(code string) error {
	link := s.ShortLink(code)
	if s.opts.Clipboard == nil {
		s.events.Error("Copy failed")
		return ErrNoClipboard
	}
	if err := s.opts.Clipboard.WriteAll(link); err != nil {
		s.events.Error("Copy failed")
		s.logger.Warn().Err(err).Msg("Clipboard write failed")
		return err
	}
	s.events.Success(fmt.Sprintf("Copied: %s", link), 0)
	return nil
}
