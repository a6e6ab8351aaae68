package status

import (
	"errors"
	"testing"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	tr.Set("old message")

	ticket, err := tr.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !tr.Loading() {
		t.Error("expected loading after Begin")
	}
	if tr.Message() != "" {
		t.Errorf("Begin should clear the message, got %q", tr.Message())
	}

	tr.Set("done")
	tr.End(ticket)
	if tr.Loading() {
		t.Error("expected not loading after End")
	}
	if tr.Message() != "done" {
		t.Errorf("End must not touch the message, got %q", tr.Message())
	}
}

func TestTrackerRejectsOverlap(t *testing.T) {
	tr := NewTracker()
	first, err := tr.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tr.Set("in flight")

	if _, err := tr.Begin(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Begin error = %v, want ErrBusy", err)
	}
	if tr.Message() != "in flight" {
		t.Errorf("rejected Begin must not clear the message, got %q", tr.Message())
	}

	tr.End(first)
	if _, err := tr.Begin(); err != nil {
		t.Fatalf("Begin after End: %v", err)
	}
}

func TestTrackerIgnoresStaleTicket(t *testing.T) {
	tr := NewTracker()
	first, _ := tr.Begin()
	tr.End(first)

	second, _ := tr.Begin()
	tr.End(first) // stale
	if !tr.Loading() {
		t.Fatal("stale End lowered the flag held by a newer request")
	}
	tr.End(second)
	tr.End(second)
	if tr.Loading() {
		t.Fatal("expected idle")
	}
}

func TestRouter(t *testing.T) {
	r := NewRouter(ScreenLogin)
	var entered []Screen
	r.OnEnter(func(s Screen) { entered = append(entered, s) })

	r.Navigate(ScreenArticles)
	r.Navigate(ScreenArticles)
	r.Navigate(ScreenLogin)

	if r.Current() != ScreenLogin {
		t.Errorf("Current() = %s, want login", r.Current())
	}
	if len(entered) != 3 || entered[0] != ScreenArticles || entered[2] != ScreenLogin {
		t.Errorf("unexpected entries: %v", entered)
	}
}
