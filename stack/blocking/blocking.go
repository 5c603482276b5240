/*
Package blocking wraps a perspective stack with wait-for-data takes.  Where
stack.Take() polls at ~100µs granularity, a blocking.Stack parks the waiting
goroutine and is woken by the next successful push or by Close().  The two
are alternatives with different trade-offs: polling wastes a little CPU but
wakes within its poll interval no matter what; wait/notify costs nothing
while idle but depends on the producer signaling.

Usage:

	b := blocking.New[int64](stack.FIFO)

	go func() {
		for i := int64(1); i <= 5; i++ {
			b.Push(i)
		}
		b.Close()
	}()

	for {
		v, err := b.Take()
		if err != nil {
			break // stack.ErrClosed once drained.
		}
		fmt.Println(v)
	}

The notify primitive is a broadcast channel that is closed and replaced on
every wake, the standard substitute for a condition variable when waits need
a timeout (a select on the channel and a timer).
*/
package blocking

import (
	"sync"
	"time"

	"github.com/johnsiilver/stacks/stack"
)

// Stack wraps a stack.Stack with blocking take operations.  All
// non-blocking operations behave exactly as on the wrapped stack.
type Stack[T any] struct {
	stack *stack.Stack[T]

	mu   sync.Mutex // Protects wake.
	wake chan struct{}
}

// New creates a blocking stack with the given perspective.  Options are the
// core stack's options, such as stack.Capacity(n).
func New[T any](p stack.Perspective, opts ...stack.Option) *Stack[T] {
	return &Stack[T]{
		stack: stack.New[T](p, opts...),
		wake:  make(chan struct{}),
	}
}

// notifyAll wakes every current waiter.  Waking all of them is deliberate:
// a single wake can be lost to a waiter whose pop loses the race, leaving
// data sitting in the stack with someone still parked.
func (s *Stack[T]) notifyAll() {
	s.mu.Lock()
	close(s.wake)
	s.wake = make(chan struct{})
	s.mu.Unlock()
}

// waiter returns the channel a waiter should park on.  The channel is
// replaced after every notifyAll, so it must be re-fetched each loop pass.
func (s *Stack[T]) waiter() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wake
}

// Push adds a value and wakes all waiters on success.
func (s *Stack[T]) Push(v T) error {
	err := s.stack.Push(v)
	if err == nil {
		s.notifyAll()
	}
	return err
}

// PushKeyed adds a labeled value and wakes all waiters on success.
func (s *Stack[T]) PushKeyed(key string, v T) error {
	err := s.stack.PushKeyed(key, v)
	if err == nil {
		s.notifyAll()
	}
	return err
}

// Pop is a non-blocking pop on the wrapped stack.
func (s *Stack[T]) Pop() (T, error) {
	return s.stack.Pop()
}

// Peek is a non-blocking peek on the wrapped stack.
func (s *Stack[T]) Peek() (T, error) {
	return s.stack.Peek()
}

// Take removes and returns an element, waiting indefinitely for one to
// arrive.  It returns stack.ErrClosed if the stack is closed while empty.
func (s *Stack[T]) Take() (T, error) {
	return s.take(0, false)
}

// TakeTimeout removes and returns an element, waiting up to timeout.
// A timeout of 0 is strictly non-blocking: it behaves as Pop(), returning
// stack.ErrEmpty immediately when there is nothing to take.
func (s *Stack[T]) TakeTimeout(timeout time.Duration) (T, error) {
	return s.take(timeout, true)
}

func (s *Stack[T]) take(timeout time.Duration, timed bool) (T, error) {
	// Fast path: data may already be there.
	if v, err := s.stack.Pop(); err == nil {
		return v, nil
	}

	var zero T
	if s.stack.IsClosed() {
		return zero, stack.ErrClosed
	}
	if timed && timeout == 0 {
		return zero, stack.ErrEmpty
	}

	var timer *time.Timer
	if timed {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
	}

	for {
		// Fetch our wake channel before re-checking the stack.  A push that
		// lands between the pop below and the select will have closed this
		// channel, so the wake cannot be missed.
		wake := s.waiter()

		if v, err := s.stack.Pop(); err == nil {
			return v, nil
		}
		if s.stack.IsClosed() {
			return zero, stack.ErrClosed
		}

		if timer == nil {
			<-wake
			continue
		}

		select {
		case <-wake:
		case <-timer.C:
			// One more try before giving up.
			if v, err := s.stack.Pop(); err == nil {
				return v, nil
			}
			return zero, stack.ErrTimeout
		}
	}
}

// Close closes the underlying stack and wakes all waiters so they can
// observe it.
func (s *Stack[T]) Close() {
	s.stack.Close()
	s.notifyAll()
}

// IsClosed returns whether the stack has been closed.
func (s *Stack[T]) IsClosed() bool {
	return s.stack.IsClosed()
}

// Freeze freezes the underlying stack.
func (s *Stack[T]) Freeze() {
	s.stack.Freeze()
}

// Clear removes all elements from the underlying stack.
func (s *Stack[T]) Clear() {
	s.stack.Clear()
}

// Len returns the number of live elements.
func (s *Stack[T]) Len() int {
	return s.stack.Len()
}

// IsEmpty returns true if the stack holds no live elements.
func (s *Stack[T]) IsEmpty() bool {
	return s.stack.IsEmpty()
}

// Inner returns the wrapped stack for operations this type does not wrap,
// such as keyed pops or raw Guard access.  Pushes made directly on the
// inner stack do not wake waiters.
func (s *Stack[T]) Inner() *stack.Stack[T] {
	return s.stack
}
