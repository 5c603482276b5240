/*
Package stack implements a thread-safe container whose perspective determines
how access behaves: LIFO, FIFO, Indexed or Hash.  The perspective controls how
push/pop/peek interpret their parameters, not how the elements are stored.
Stacks here are rendezvous points between concurrent producers and consumers;
every mutating operation takes the stack's single internal lock for the
duration of that call only.

Usage is simple:

	s := stack.New[int64](stack.LIFO)

	s.Push(42)
	s.Push(17)

	v, err := s.Pop()
	if err != nil {
		// Do something.
	}
	fmt.Println(v) // Prints 17, last in is first out.

A FIFO stack behaves as a queue:

	q := stack.New[string](stack.FIFO)
	q.Push("first")
	q.Push("second")
	v, _ := q.Pop() // v == "first"

A Hash stack is addressed by key:

	h := stack.New[int64](stack.Hash)
	h.PushKeyed("a", 10)
	v, _ := h.PopKey("a")

The same physical stack can be read through any perspective without changing
its own mode via the ...As methods (see also the view package):

	s.Push(1)
	s.Push(2)
	oldest, _ := s.PopAs(stack.FIFO) // oldest == 1, s remains LIFO.

Take() and TakeTimeout() block the calling goroutine until data arrives, the
stack is closed, or the deadline passes.  They poll at ~100µs granularity.
For a wait/notify alternative with lower wake latency, see the blocking
package.
*/
package stack

import (
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/johnsiilver/stacks/stack/internal/spin"
)

// Perspective determines how access parameters are interpreted.
type Perspective int

const (
	// LIFO is last in, first out: default stack behavior.
	LIFO Perspective = iota
	// FIFO is first in, first out: queue behavior.
	FIFO
	// Indexed is direct access by position.
	Indexed
	// Hash is access by string key.
	Hash
)

// String implements fmt.Stringer.
func (p Perspective) String() string {
	switch p {
	case LIFO:
		return "LIFO"
	case FIFO:
		return "FIFO"
	case Indexed:
		return "Indexed"
	case Hash:
		return "Hash"
	}
	return "Perspective(" + strconv.Itoa(int(p)) + ")"
}

// compactMin is the FIFO slack that must accumulate before a default pop
// triggers compaction of the dead prefix.
const compactMin = 100

// takeDeadline is how long Take() waits before giving up.
const takeDeadline = 5 * time.Second

// paramKind says which parameter a pop/peek resolution was given.
type paramKind int

const (
	paramNone paramKind = iota
	paramIndex
	paramKey
)

// param carries the optional offset/index/key for pop and peek resolution.
type param struct {
	kind  paramKind
	index int
	key   string
}

// Stack is a thread-safe container with perspective-based access.  All
// internal state lives behind one mutex; no operation holds it across calls
// except the Guard returned by Lock().
// The zero value is not usable, use New().
type Stack[T any] struct {
	mu sync.Mutex // Protects everything below.

	elements []T
	// keys parallels elements.  "" means the slot is unlabeled.
	keys    []string
	hashIdx map[string]int
	// head is the index of the oldest live element.  FIFO removal advances
	// head instead of shifting elements; the dead prefix is compacted
	// periodically.
	head int

	perspective Perspective
	frozen      bool
	// closed is advisory: it tells blocking takes that no more data is
	// coming.  It does not reject pushes.
	closed   bool
	capacity int // 0 = unbounded.
}

// Option provides an optional argument to New().
type Option func(o *options)

type options struct {
	capacity int
}

// Capacity bounds the stack to n live elements.  Pushes fail with ErrFull
// once the bound is reached.  n <= 0 means unbounded.
func Capacity(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.capacity = n
	}
}

// New creates a Stack with the given perspective.
func New[T any](p Perspective, opts ...Option) *Stack[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stack[T]{
		perspective: p,
		capacity:    o.capacity,
		elements:    make([]T, 0, o.capacity),
		keys:        make([]string, 0, o.capacity),
	}
	if p == Hash {
		s.hashIdx = make(map[string]int, o.capacity)
	}
	return s
}

func (s *Stack[T]) lenLocked() int {
	return len(s.elements) - s.head
}

func (s *Stack[T]) fullLocked() bool {
	return s.capacity > 0 && s.lenLocked() >= s.capacity
}

// Len returns the number of live elements.  Hash tombstones still count;
// they occupy slots until Compact() or a perspective switch.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lenLocked()
}

// IsEmpty returns true if the stack holds no live elements.
func (s *Stack[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Cap returns the stack's capacity.  0 means unbounded.
func (s *Stack[T]) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// Perspective returns the stack's current perspective.
func (s *Stack[T]) Perspective() Perspective {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perspective
}

// SetPerspective changes how the stack is accessed.  Switching into Hash
// from another perspective labels every unlabeled slot with its decimal slot
// index at switch time and rebuilds the key index from all labels.
func (s *Stack[T]) SetPerspective(p Perspective) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.perspective
	s.perspective = p

	if p == Hash && old != Hash {
		s.syncHashLocked()
	}
}

// syncHashLocked labels every live unlabeled slot with its decimal slot
// index and rebuilds the key index.  This is the preparation a perspective
// switch into Hash performs; Hash resolution on a stack whose own
// perspective is something else runs it too, so keyed access through a view
// sees the same labels a switched stack would.
func (s *Stack[T]) syncHashLocked() {
	for i := s.head; i < len(s.elements); i++ {
		if s.keys[i] == "" {
			s.keys[i] = strconv.Itoa(i)
		}
	}
	s.rebuildHashLocked()
}

// rebuildHashLocked rebuilds hashIdx from every live labeled slot.
func (s *Stack[T]) rebuildHashLocked() {
	s.hashIdx = make(map[string]int, s.lenLocked())
	for i := s.head; i < len(s.elements); i++ {
		if k := s.keys[i]; k != "" {
			s.hashIdx[k] = i
		}
	}
}

// Push adds a value.  Under the Hash perspective a key is mandatory, so
// Push fails with ErrKeyRequired; use PushKeyed.
func (s *Stack[T]) Push(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}
	if s.fullLocked() {
		return ErrFull
	}
	if s.perspective == Hash {
		return ErrKeyRequired
	}

	s.elements = append(s.elements, v)
	s.keys = append(s.keys, "")
	return nil
}

// PushKeyed adds a value with a label.  Under the Hash perspective, pushing
// a key that already maps to a live slot overwrites that slot in place.
// The empty key is not a valid label.
func (s *Stack[T]) PushKeyed(key string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}
	if s.fullLocked() {
		return ErrFull
	}
	if key == "" {
		return ErrKeyRequired
	}

	if s.perspective == Hash {
		if idx, ok := s.hashIdx[key]; ok {
			s.elements[idx] = v
			return nil
		}
	}

	idx := len(s.elements)
	s.elements = append(s.elements, v)
	s.keys = append(s.keys, key)
	if s.perspective == Hash {
		s.hashIdx[key] = idx
	}
	return nil
}

// Pop removes and returns an element resolved by the stack's current
// perspective: the newest for LIFO and Indexed, the oldest for FIFO.  Hash
// fails with ErrKeyRequired, it has no default; use PopKey.
func (s *Stack[T]) Pop() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(s.perspective, param{})
}

// PopAt removes and returns the element at an offset (LIFO/FIFO, 0 = the
// default element) or index (Indexed).
func (s *Stack[T]) PopAt(n int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(s.perspective, param{kind: paramIndex, index: n})
}

// PopKey removes and returns the element labeled key (Hash).
func (s *Stack[T]) PopKey(key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(s.perspective, param{kind: paramKey, key: key})
}

// PopAs is Pop() resolved under perspective p instead of the stack's own,
// inside a single lock acquisition.  The stack's perspective is unchanged.
func (s *Stack[T]) PopAs(p Perspective) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(p, param{})
}

// PopAtAs is PopAt() resolved under perspective p.
func (s *Stack[T]) PopAtAs(p Perspective, n int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(p, param{kind: paramIndex, index: n})
}

// PopKeyAs is PopKey() resolved under perspective p.
func (s *Stack[T]) PopKeyAs(p Perspective, key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked(p, param{kind: paramKey, key: key})
}

func (s *Stack[T]) popLocked(p Perspective, prm param) (T, error) {
	var zero T

	if s.frozen {
		return zero, ErrFrozen
	}
	if s.lenLocked() == 0 {
		return zero, ErrEmpty
	}

	switch p {
	case LIFO:
		idx := len(s.elements) - 1
		switch prm.kind {
		case paramIndex:
			idx = len(s.elements) - 1 - prm.index
			if idx < s.head || idx >= len(s.elements) {
				return zero, ErrIndexOutOfBounds
			}
		case paramKey:
			return zero, ErrKeyNotFound
		}
		return s.removeLocked(idx), nil

	case FIFO:
		idx := s.head
		switch prm.kind {
		case paramIndex:
			idx = s.head + prm.index
			if idx < s.head || idx >= len(s.elements) {
				return zero, ErrIndexOutOfBounds
			}
		case paramKey:
			return zero, ErrKeyNotFound
		}
		if idx == s.head {
			// Fast path: advance head instead of shifting.  The dead slot's
			// label is cleared so it can never resolve through the key index.
			v := s.elements[idx]
			s.elements[idx] = zero
			if k := s.keys[idx]; k != "" {
				s.keys[idx] = ""
				if s.hashIdx != nil {
					delete(s.hashIdx, k)
				}
			}
			s.head++
			if s.head > compactMin && s.head > len(s.elements)/2 {
				s.compactLocked()
			}
			return v, nil
		}
		return s.removeLocked(idx), nil

	case Indexed:
		idx := len(s.elements) - 1 // Default pop takes the last element.
		switch prm.kind {
		case paramIndex:
			idx = s.head + prm.index
		case paramKey:
			return zero, ErrKeyNotFound
		}
		if idx < s.head || idx >= len(s.elements) {
			return zero, ErrIndexOutOfBounds
		}
		return s.removeLocked(idx), nil

	case Hash:
		if prm.kind != paramKey {
			return zero, ErrKeyRequired
		}
		if s.perspective != Hash {
			// The stack keeps no key index of its own; build it the way a
			// switch into Hash would.
			s.syncHashLocked()
		}
		idx, ok := s.hashIdx[prm.key]
		if !ok || idx < s.head || idx >= len(s.elements) {
			return zero, ErrKeyNotFound
		}
		v := s.elements[idx]
		// Tombstone: clear the label but keep the slot. The slot is only
		// reclaimed by Compact() or a perspective switch.
		delete(s.hashIdx, prm.key)
		s.keys[idx] = ""
		s.elements[idx] = zero
		return v, nil
	}

	return zero, ErrIndexOutOfBounds
}

// removeLocked splices out the element at idx, truncating when idx is last.
// A live key index is kept consistent: the removed slot's key is dropped and,
// when the splice shifts slots, the index is rebuilt.
func (s *Stack[T]) removeLocked(idx int) T {
	var zero T
	v := s.elements[idx]
	k := s.keys[idx]

	if idx == len(s.elements)-1 {
		s.elements[idx] = zero
		s.elements = s.elements[:idx]
		s.keys = s.keys[:idx]
		if k != "" && s.hashIdx != nil {
			delete(s.hashIdx, k)
		}
		return v
	}

	s.elements = append(s.elements[:idx], s.elements[idx+1:]...)
	s.keys = append(s.keys[:idx], s.keys[idx+1:]...)
	if s.hashIdx != nil {
		s.rebuildHashLocked()
	}
	return v
}

// Peek returns the element Pop() would resolve, without removing it.  Peeks
// ignore frozen.  Under Indexed there is no default, Peek fails with
// ErrIndexOutOfBounds; use PeekAt.
func (s *Stack[T]) Peek() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(s.perspective, param{})
}

// PeekAt returns the element at an offset (LIFO/FIFO) or index (Indexed)
// without removing it.
func (s *Stack[T]) PeekAt(n int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(s.perspective, param{kind: paramIndex, index: n})
}

// PeekKey returns the element labeled key (Hash) without removing it.
func (s *Stack[T]) PeekKey(key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(s.perspective, param{kind: paramKey, key: key})
}

// PeekAs is Peek() resolved under perspective p inside a single lock
// acquisition.
func (s *Stack[T]) PeekAs(p Perspective) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(p, param{})
}

// PeekAtAs is PeekAt() resolved under perspective p.
func (s *Stack[T]) PeekAtAs(p Perspective, n int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(p, param{kind: paramIndex, index: n})
}

// PeekKeyAs is PeekKey() resolved under perspective p.
func (s *Stack[T]) PeekKeyAs(p Perspective, key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peekLocked(p, param{kind: paramKey, key: key})
}

func (s *Stack[T]) peekLocked(p Perspective, prm param) (T, error) {
	var zero T

	if s.lenLocked() == 0 {
		return zero, ErrEmpty
	}

	var idx int
	switch p {
	case LIFO:
		switch prm.kind {
		case paramIndex:
			idx = len(s.elements) - 1 - prm.index
		case paramKey:
			return zero, ErrKeyNotFound
		default:
			idx = len(s.elements) - 1
		}
	case FIFO:
		switch prm.kind {
		case paramIndex:
			idx = s.head + prm.index
		case paramKey:
			return zero, ErrKeyNotFound
		default:
			idx = s.head
		}
	case Indexed:
		switch prm.kind {
		case paramIndex:
			idx = s.head + prm.index
		case paramKey:
			return zero, ErrKeyNotFound
		default:
			// Indexed has no default target for a peek.
			return zero, ErrIndexOutOfBounds
		}
	case Hash:
		if prm.kind != paramKey {
			return zero, ErrKeyRequired
		}
		if s.perspective != Hash {
			s.syncHashLocked()
		}
		var ok bool
		idx, ok = s.hashIdx[prm.key]
		if !ok || idx < s.head || idx >= len(s.elements) {
			return zero, ErrKeyNotFound
		}
	default:
		return zero, ErrIndexOutOfBounds
	}

	if idx < s.head || idx >= len(s.elements) {
		return zero, ErrIndexOutOfBounds
	}
	return s.elements[idx], nil
}

// Take removes and returns an element, blocking up to 5 seconds for one to
// arrive.  Equivalent to TakeTimeout(5 * time.Second).
func (s *Stack[T]) Take() (T, error) {
	return s.TakeTimeout(takeDeadline)
}

// TakeTimeout removes and returns an element, blocking up to timeout for one
// to arrive.  It polls Pop() at ~100µs granularity, re-checking the closed
// flag on every pass.  It returns ErrClosed if the stack is closed while
// empty and ErrTimeout when the deadline passes.
func (s *Stack[T]) TakeTimeout(timeout time.Duration) (T, error) {
	// Fast path: data may already be there.
	if v, err := s.Pop(); err == nil {
		return v, nil
	}

	var zero T
	if s.IsClosed() {
		return zero, ErrClosed
	}

	deadline := time.Now().Add(timeout)
	sleeper := spin.Sleeper{}

	for {
		if v, err := s.Pop(); err == nil {
			return v, nil
		}
		if s.IsClosed() {
			return zero, ErrClosed
		}
		if !time.Now().Before(deadline) {
			return zero, ErrTimeout
		}
		sleeper.Sleep()
	}
}

// Freeze compacts any FIFO slack and makes the stack immutable.  Push and
// Pop will fail with ErrFrozen; peeks still work.  There is no unfreeze.
func (s *Stack[T]) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compactLocked()
	s.frozen = true
}

// IsFrozen returns whether the stack is immutable.
func (s *Stack[T]) IsFrozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Close signals that no more data will be pushed.  This is advisory: it
// terminates blocking takes but does not reject further pushes.
func (s *Stack[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// IsClosed returns whether the stack has been closed.
func (s *Stack[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Clear removes all elements.  It does not clear frozen or closed.
func (s *Stack[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elements = s.elements[:0]
	s.keys = s.keys[:0]
	s.head = 0
	if s.hashIdx != nil {
		s.hashIdx = make(map[string]int)
	}
}

// compactLocked drains the dead prefix before head.  The key index is
// rebuilt because every live slot shifts down by head.
func (s *Stack[T]) compactLocked() {
	if s.head == 0 {
		return
	}
	n := s.head
	s.elements = append(s.elements[:0], s.elements[s.head:]...)
	s.keys = append(s.keys[:0], s.keys[s.head:]...)
	s.head = 0
	if s.hashIdx != nil {
		s.rebuildHashLocked()
	}
	glog.V(2).Infof("stack compaction dropped %d dead slots", n)
}

// Compact reclaims memory: it drains the dead FIFO prefix and, under the
// Hash perspective, removes tombstoned slots and rebuilds the key index.
// Tombstones are never reclaimed implicitly, since that would shift the
// indices seen by any concurrently-held Indexed view; calling Compact is an
// explicit statement that no such view is live.
func (s *Stack[T]) Compact() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.compactLocked()
	if s.perspective != Hash {
		return
	}

	live := 0
	for i := range s.elements {
		if s.keys[i] == "" {
			continue
		}
		s.elements[live] = s.elements[i]
		s.keys[live] = s.keys[i]
		live++
	}
	if live == len(s.elements) {
		return
	}
	glog.V(2).Infof("stack compaction reclaimed %d tombstones", len(s.elements)-live)
	var zero T
	for i := live; i < len(s.elements); i++ {
		s.elements[i] = zero
		s.keys[i] = ""
	}
	s.elements = s.elements[:live]
	s.keys = s.keys[:live]
	s.rebuildHashLocked()
}
