// Package spin provides an object for assisting with sleeping while waiting
// for an action to become available.  This is useful in preventing CPU
// starvation when there is nothing to do.
package spin

import (
	"runtime"
	"time"
)

// interval is how long a Sleeper sleeps once it stops yielding the
// goroutine.  Take loops re-check their stack at roughly this granularity.
const interval = 100 * time.Microsecond

// Sleeper yields the goroutine for its first few calls and then sleeps for
// a fixed short interval on every call after that.
// This is not thread-safe and should be thrown away once the loop that
// calls it is able to perform its function.
type Sleeper struct {
	loop uint8
}

// Sleep at minimum allows another goroutine to be scheduled, and after a few
// calls begins sleeping the calling goroutine for 100 microseconds per call.
func (s *Sleeper) Sleep() {
	if s.loop < 8 {
		runtime.Gosched()
		s.loop++
		return
	}
	time.Sleep(interval)
}
