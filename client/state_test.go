package client

import (
	"sync"
	"testing"

	"short-url-client/model"
)

func TestState_FallBackOnce(t *testing.T) {
	s := NewState(model.ModeRedirecting)

	if !s.FallBack() {
		t.Fatal("First fallback should succeed")
	}
	if s.Mode() != model.ModeDashboard {
		t.Errorf("Expected dashboard, got %s", s.Mode())
	}
	if s.FallBack() {
		t.Error("Second fallback must be refused")
	}
}

func TestState_DashboardCannotFallBack(t *testing.T) {
	s := NewState(model.ModeDashboard)
	if s.FallBack() {
		t.Error("Dashboard state has nothing to fall back from")
	}
}

func TestState_SnapshotsAreCopies(t *testing.T) {
	s := NewState(model.ModeDashboard)
	src := []model.LinkRecord{{ShortCode: "a", Clicks: 1}}
	s.ReplaceLinks(src)

	src[0].Clicks = 99
	got := s.Links()
	if got[0].Clicks != 1 {
		t.Error("Replacing must copy the caller's slice")
	}

	got[0].Clicks = 42
	if s.Links()[0].Clicks != 1 {
		t.Error("Readers must get a copy of the snapshot")
	}
}

func TestState_SubscribersNotified(t *testing.T) {
	s := NewState(model.ModeRedirecting)
	var calls int
	s.Subscribe(func() { calls++ })

	s.ReplaceLinks(nil)
	s.ReplaceAnalytics(nil)
	s.FallBack()

	if calls != 3 {
		t.Errorf("Expected 3 notifications, got %d", calls)
	}
}

func TestState_AtomicReplacement(t *testing.T) {
	s := NewState(model.ModeDashboard)

	old := make([]model.LinkRecord, 100)
	fresh := make([]model.LinkRecord, 150)
	for i := range old {
		old[i] = model.LinkRecord{ShortCode: "old", Clicks: i}
	}
	for i := range fresh {
		fresh[i] = model.LinkRecord{ShortCode: "new", Clicks: i}
	}
	s.ReplaceLinks(old)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.ReplaceLinks(fresh)
			} else {
				s.ReplaceLinks(old)
			}
		}
		close(stop)
	}()

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				links := s.Links()
				want := "old"
				wantLen := len(old)
				if len(links) == len(fresh) {
					want, wantLen = "new", len(fresh)
				}
				if len(links) != wantLen {
					t.Errorf("Observed a partial snapshot of %d entries", len(links))
					return
				}
				for _, l := range links {
					if l.ShortCode != want {
						t.Errorf("Observed a mix of old and new entries")
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}
