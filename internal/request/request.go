// Package request splits client operations into the part that may block and
// the part that mutates client state.
//
// An operation begins on the event loop and returns an Effect. The Effect runs
// off the loop (it performs the network call and must not touch shared state)
// and returns a Settle, which is applied back on the loop.
package request

import "context"

// Settle applies the outcome of a finished request to client state
type Settle func()

// Effect performs the blocking half of a request
type Effect func(ctx context.Context) Settle

// Run executes eff and applies its settlement on the calling goroutine.
// A nil Effect is a no-op.
func Run(ctx context.Context, eff Effect) {
	if eff == nil {
		return
	}
	if settle := eff(ctx); settle != nil {
		settle()
	}
}

// Then returns an Effect whose settlement runs next after eff's own
func Then(eff Effect, next func()) Effect {
	if eff == nil {
		return nil
	}
	return func(ctx context.Context) Settle {
		settle := eff(ctx)
		return func() {
			if settle != nil {
				settle()
			}
			if next != nil {
				next()
			}
		}
	}
}
