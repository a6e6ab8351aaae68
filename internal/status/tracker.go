package status

import "errors"

// ErrBusy is returned by Begin while another request is still in flight
var ErrBusy = errors.New("a request is already in progress")

// Ticket identifies one in-flight request
type Ticket uint64

// Tracker owns the status message and the loading flag.
//
// The loading flag is a single slot: at most one request may hold it. A request
// started while the slot is taken is rejected with ErrBusy instead of racing
// the one in flight. It must only be used from the event loop.
type Tracker struct {
	message string
	seq     Ticket
	active  Ticket // zero when idle
}

// NewTracker creates an idle tracker with an empty message
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin clears the message and raises the loading flag
func (t *Tracker) Begin() (Ticket, error) {
	if t.active != 0 {
		return 0, ErrBusy
	}
	t.seq++
	t.active = t.seq
	t.message = ""
	return t.active, nil
}

// End lowers the loading flag if ticket still holds it. Stale or repeated
// calls are ignored.
func (t *Tracker) End(ticket Ticket) {
	if ticket != 0 && t.active == ticket {
		t.active = 0
	}
}

// Loading reports whether a request is in flight
func (t *Tracker) Loading() bool {
	return t.active != 0
}

// Message returns the current status message
func (t *Tracker) Message() string {
	return t.message
}

// Set overwrites the status message
func (t *Tracker) Set(message string) {
	t.message = message
}
