package worksteal

import (
	"sync/atomic"

	"github.com/johnsiilver/stacks/stack"
	"github.com/johnsiilver/stacks/stack/view"
)

// Stack is the owner/thief contract built from perspective views instead of
// contested cursors: one byte-element stack shared by an owner (LIFO) view
// and a thief (FIFO) view, with tasks crossing the boundary through their
// byte encoding.  Every operation resolves under the shared stack's one
// internal lock, so each task is delivered exactly once and the owner sees
// LIFO order while thieves see FIFO order, even under contention.  The cost
// is that every operation serializes on that lock; prefer Deque when the
// owner's throughput matters more than the simplicity of this shape.
type Stack struct {
	stack  *stack.Stack[[]byte]
	owner  view.View[[]byte]
	thief  view.View[[]byte]
	closed atomic.Bool
}

// NewStack creates a view-based work-stealing stack.  Options are the core
// stack's options, such as stack.Capacity(n).
func NewStack(opts ...stack.Option) *Stack {
	s := stack.New[[]byte](stack.LIFO, opts...)
	return &Stack{
		stack: s,
		owner: view.LIFO(s),
		thief: view.FIFO(s),
	}
}

// Push adds a task.  Owner only.  Returns false once the stack is closed or
// when the underlying stack rejects the push (full or frozen).
func (s *Stack) Push(t Task) bool {
	if s.closed.Load() {
		return false
	}
	return s.owner.Push(t.Bytes()) == nil
}

// Pop removes and returns the newest task.  Owner only.
func (s *Stack) Pop() (Task, bool) {
	b, err := s.owner.Pop()
	if err != nil {
		return Task{}, false
	}
	return DecodeTask(b)
}

// Steal removes and returns the oldest task.  Safe for any number of
// concurrent thieves.
func (s *Stack) Steal() (Task, bool) {
	b, err := s.thief.Pop()
	if err != nil {
		return Task{}, false
	}
	return DecodeTask(b)
}

// Len returns the number of pending tasks.
func (s *Stack) Len() int {
	return s.stack.Len()
}

// IsEmpty returns true if no tasks are pending.
func (s *Stack) IsEmpty() bool {
	return s.stack.IsEmpty()
}

// Close stops further pushes and closes the underlying stack so blocking
// consumers can observe it.
func (s *Stack) Close() {
	s.closed.Store(true)
	s.stack.Close()
}

// IsClosed returns whether Close() has been called.
func (s *Stack) IsClosed() bool {
	return s.closed.Load()
}
