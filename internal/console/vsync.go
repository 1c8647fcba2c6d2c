package console

// Cancel withdraws a pending frame request. Calling it after the request
// fired, or more than once, does nothing.
type Cancel func()

// Vsync is the host's display-refresh signal. Request arranges for fn to be
// called once on the next refresh; hosts call it on the same goroutine that
// drives the Scheduler.
type Vsync interface {
	Request(fn func()) Cancel
}

// ManualVsync is a Vsync driven explicitly by calling Fire. It holds at
// most one pending request. Headless runs and tests use it.
type ManualVsync struct {
	pending  func()
	id       int
	requests int
	cancels  int
}

// Request implements Vsync. A new request replaces any pending one.
func (v *ManualVsync) Request(fn func()) Cancel {
	v.requests++
	v.id++
	v.pending = fn
	id := v.id
	return func() {
		if v.pending == nil || v.id != id {
			return
		}
		v.cancels++
		v.pending = nil
	}
}

// Fire delivers the pending request, if any. It reports whether one fired.
func (v *ManualVsync) Fire() bool {
	fn := v.pending
	if fn == nil {
		return false
	}
	v.pending = nil
	fn()
	return true
}

// Pending reports whether a request is waiting.
func (v *ManualVsync) Pending() bool {
	return v.pending != nil
}

// Requests returns the number of Request calls so far.
func (v *ManualVsync) Requests() int {
	return v.requests
}

// Cancels returns the number of requests withdrawn before firing.
func (v *ManualVsync) Cancels() int {
	return v.cancels
}
