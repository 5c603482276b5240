/*
Package worksteal provides two work-distribution structures built around the
owner/thief contract: the owner pushes and pops its own end in LIFO order
while thieves steal the oldest pending work in FIFO order.

Deque is the classic Chase-Lev work-stealing deque: a fixed-capacity ring
with two contested atomic cursors and a CAS-resolved race for the last
element.  Stack is the same contract built entirely from one perspective
stack plus an owner (LIFO) view and a thief (FIFO) view, with tasks
serialized through their byte encoding.

Usage:

	d := worksteal.NewDeque(1024)

	// Owner goroutine.
	d.Push(worksteal.Task{ID: 1})
	t, ok := d.Pop() // Newest first.

	// Any thief goroutine.
	t, ok = d.Steal() // Oldest first.

Pop and Steal return ok == false both when the deque is empty and when the
caller loses a race for a contested element; a thief that wants to be sure
should retry.
*/
package worksteal

import (
	"sync"
	"sync/atomic"
)

// slot is one ring entry.  Each slot has its own lock so that the owner and
// a thief touching different slots never serialize on each other.
type slot struct {
	mu sync.Mutex
	t  *Task
}

// take removes and returns the slot's task, if any.
func (s *slot) take() *Task {
	s.mu.Lock()
	t := s.t
	s.t = nil
	s.mu.Unlock()
	return t
}

// put stores a task into the slot.
func (s *slot) put(t *Task) {
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
}

// Deque is a fixed-capacity Chase-Lev work-stealing deque.  Push and Pop
// belong to a single owner goroutine; Steal may be called from any number of
// thief goroutines concurrently.
//
// bottom is owner-controlled and top is thief-contested.  Go's atomic
// package gives every load, store and CAS sequentially consistent ordering,
// which covers the acquire/release points the protocol needs: a Push's slot
// write happens before the bottom advance that publishes it, and a Steal's
// slot read happens before the CAS that claims it.
type Deque struct {
	slots  []slot
	bottom atomic.Int64
	top    atomic.Int64
}

// NewDeque creates a deque holding at most capacity tasks.
func NewDeque(capacity int) *Deque {
	if capacity < 1 {
		capacity = 1
	}
	return &Deque{slots: make([]slot, capacity)}
}

// Push adds a task.  Owner only.  Returns false when the deque is full.
func (d *Deque) Push(t Task) bool {
	b := d.bottom.Load()
	top := d.top.Load()

	if int(b-top) >= len(d.slots) {
		return false
	}

	d.slots[int(b)%len(d.slots)].put(&t)
	d.bottom.Store(b + 1) // Publishes the slot write.
	return true
}

// Pop removes and returns the newest task.  Owner only.  Returns ok == false
// when the deque is empty or the owner loses the race for the last element
// to a thief.
func (d *Deque) Pop() (Task, bool) {
	// Speculatively claim the bottom element before looking at top.
	b := d.bottom.Load() - 1
	d.bottom.Store(b)

	top := d.top.Load()

	if top > b {
		// Empty; undo the speculative decrement.
		d.bottom.Store(top)
		return Task{}, false
	}

	t := d.slots[int(b)%len(d.slots)].take()

	if top == b {
		// Last element: contested with thieves, resolved by a single CAS
		// on top.  The loser yields and restores bottom.
		if !d.top.CompareAndSwap(top, top+1) {
			d.bottom.Store(top + 1)
			return Task{}, false
		}
		d.bottom.Store(top + 1)
	}

	if t == nil {
		return Task{}, false
	}
	return *t, true
}

// Steal removes and returns the oldest task.  Safe for any number of
// concurrent thieves.  Returns ok == false when the deque is empty or this
// thief loses the race for the element; callers that must drain should
// retry.
func (d *Deque) Steal() (Task, bool) {
	top := d.top.Load()
	b := d.bottom.Load()

	if top >= b {
		return Task{}, false
	}

	s := &d.slots[int(top)%len(d.slots)]
	t := s.take()

	if !d.top.CompareAndSwap(top, top+1) {
		// Another party won the race; put back whatever we read.
		if t != nil {
			s.put(t)
		}
		return Task{}, false
	}

	if t == nil {
		return Task{}, false
	}
	return *t, true
}

// Len returns the approximate number of tasks.  Under concurrency this is
// advisory only.
func (d *Deque) Len() int {
	n := d.bottom.Load() - d.top.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// IsEmpty returns true if the deque looks empty.  Advisory under
// concurrency, like Len.
func (d *Deque) IsEmpty() bool {
	return d.Len() == 0
}

// Cap returns the deque's fixed capacity.
func (d *Deque) Cap() int {
	return len(d.slots)
}
