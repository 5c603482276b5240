/*
Package view provides perspective-bound borrows of a shared stack.  A View
couples one *stack.Stack with one fixed perspective, independent of whatever
perspective the stack itself currently holds.  Several views with different
perspectives can share the same stack, which is how two roles get differing
access semantics on one container:

	s := stack.New[int64](stack.LIFO)
	owner := view.LIFO(s)
	thief := view.FIFO(s)

	owner.Push(1)
	owner.Push(2)
	owner.Push(3)

	v, _ := owner.Pop() // 3, the newest.
	v, _ = thief.Pop()  // 1, the oldest.

Each view operation resolves its perspective inside a single lock acquisition
on the shared stack (the stack's ...As methods), so a view never mutates the
stack's own perspective and two views never observe each other's.
*/
package view

import (
	"github.com/johnsiilver/stacks/stack"
)

// View is a perspective bound to a shared stack.  The zero value is not
// usable, use one of the constructors.  Views are cheap and copyable; all of
// them share the one underlying stack.
type View[T any] struct {
	stack *stack.Stack[T]
	p     stack.Perspective
}

// New creates a view of s under perspective p.
func New[T any](s *stack.Stack[T], p stack.Perspective) View[T] {
	return View[T]{stack: s, p: p}
}

// LIFO creates a last-in-first-out view of s.
func LIFO[T any](s *stack.Stack[T]) View[T] {
	return New(s, stack.LIFO)
}

// FIFO creates a first-in-first-out view of s.
func FIFO[T any](s *stack.Stack[T]) View[T] {
	return New(s, stack.FIFO)
}

// Indexed creates a direct-index view of s.
func Indexed[T any](s *stack.Stack[T]) View[T] {
	return New(s, stack.Indexed)
}

// Hash creates a key-addressed view of s.
func Hash[T any](s *stack.Stack[T]) View[T] {
	return New(s, stack.Hash)
}

// Perspective returns the view's fixed perspective.
func (v View[T]) Perspective() stack.Perspective {
	return v.p
}

// Stack returns the underlying shared stack.
func (v View[T]) Stack() *stack.Stack[T] {
	return v.stack
}

// Pop removes and returns the element this view's perspective resolves.
func (v View[T]) Pop() (T, error) {
	return v.stack.PopAs(v.p)
}

// PopAt removes and returns the element at an offset (LIFO/FIFO) or index
// (Indexed) under this view's perspective.
func (v View[T]) PopAt(n int) (T, error) {
	return v.stack.PopAtAs(v.p, n)
}

// PopKey removes and returns the element labeled key.  Only a Hash view can
// resolve keys; any other view fails with stack.ErrKeyNotFound.
func (v View[T]) PopKey(key string) (T, error) {
	if v.p != stack.Hash {
		var zero T
		return zero, stack.ErrKeyNotFound
	}
	return v.stack.PopKeyAs(v.p, key)
}

// Peek returns the element Pop() would resolve, without removing it.
func (v View[T]) Peek() (T, error) {
	return v.stack.PeekAs(v.p)
}

// PeekAt returns the element at an offset or index without removing it.
func (v View[T]) PeekAt(n int) (T, error) {
	return v.stack.PeekAtAs(v.p, n)
}

// PeekKey returns the element labeled key without removing it.  Only a Hash
// view can resolve keys; any other view fails with stack.ErrKeyNotFound.
func (v View[T]) PeekKey(key string) (T, error) {
	if v.p != stack.Hash {
		var zero T
		return zero, stack.ErrKeyNotFound
	}
	return v.stack.PeekKeyAs(v.p, key)
}

// Push adds a value through the view.  Push semantics do not depend on the
// view's perspective, so this is a passthrough to the shared stack; it obeys
// the stack's own perspective (a Hash stack still requires PushKeyed).
func (v View[T]) Push(val T) error {
	return v.stack.Push(val)
}

// PushKeyed adds a labeled value through the view.
func (v View[T]) PushKeyed(key string, val T) error {
	return v.stack.PushKeyed(key, val)
}

// Len returns the number of live elements in the shared stack.
func (v View[T]) Len() int {
	return v.stack.Len()
}

// IsEmpty returns true if the shared stack holds no live elements.
func (v View[T]) IsEmpty() bool {
	return v.stack.IsEmpty()
}

// WorkStealViews couples an owner view and a thief view on one shared stack:
// the owner pushes and pops its own newest work (LIFO) while any number of
// thieves steal the oldest (FIFO).
type WorkStealViews[T any] struct {
	// Owner is the LIFO view for the thread that produces the work.
	Owner View[T]
	// Thief is the FIFO view for anyone stealing the oldest pending work.
	Thief View[T]
}

// NewWorkSteal creates owner/thief views on s.
func NewWorkSteal[T any](s *stack.Stack[T]) WorkStealViews[T] {
	return WorkStealViews[T]{
		Owner: LIFO(s),
		Thief: FIFO(s),
	}
}
