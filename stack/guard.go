package stack

// Guard provides raw access to the stack for bulk or vectorized operations.
// It is obtained from Lock() and holds the stack's internal lock until
// Unlock() is called, so keep the scope short: every other goroutine touching
// the stack is blocked for the duration.
//
//	g := s.Lock()
//	defer g.Unlock()
//	for _, v := range g.Slice() {
//		// ...
//	}
type Guard[T any] struct {
	s *Stack[T]
}

// Lock acquires the stack's internal lock and returns a Guard for raw
// operations.  The caller must call Unlock() on the Guard.
func (s *Stack[T]) Lock() *Guard[T] {
	s.mu.Lock()
	return &Guard[T]{s: s}
}

// Unlock releases the stack's internal lock.  The Guard must not be used
// after this call.
func (g *Guard[T]) Unlock() {
	s := g.s
	g.s = nil
	s.mu.Unlock()
}

// Pop removes and returns the element the stack's perspective considers the
// default: the oldest for FIFO, the newest for everything else.
func (g *Guard[T]) Pop() (T, error) {
	s := g.s
	var zero T

	if s.lenLocked() == 0 {
		return zero, ErrEmpty
	}

	if s.perspective == FIFO {
		v := s.elements[s.head]
		s.elements[s.head] = zero
		s.head++
		return v, nil
	}

	idx := len(s.elements) - 1
	v := s.elements[idx]
	s.elements[idx] = zero
	s.elements = s.elements[:idx]
	s.keys = s.keys[:idx]
	return v, nil
}

// Push appends an unlabeled element.
func (g *Guard[T]) Push(v T) error {
	s := g.s
	if s.frozen {
		return ErrFrozen
	}
	if s.fullLocked() {
		return ErrFull
	}
	s.elements = append(s.elements, v)
	s.keys = append(s.keys, "")
	return nil
}

// Get returns the element labeled key.  Only meaningful under the Hash
// perspective; other perspectives have no key index.
func (g *Guard[T]) Get(key string) (T, bool) {
	s := g.s
	var zero T

	idx, ok := s.hashIdx[key]
	if !ok {
		return zero, false
	}
	if idx < s.head || idx >= len(s.elements) {
		return zero, false
	}
	return s.elements[idx], true
}

// Set stores v under key, overwriting in place when the key already maps to
// a live slot.  Fails with ErrKeyRequired when the stack is not under the
// Hash perspective.
func (g *Guard[T]) Set(key string, v T) error {
	s := g.s
	if s.perspective != Hash {
		return ErrKeyRequired
	}

	if idx, ok := s.hashIdx[key]; ok {
		s.elements[idx] = v
		return nil
	}

	idx := len(s.elements)
	s.elements = append(s.elements, v)
	s.keys = append(s.keys, key)
	s.hashIdx[key] = idx
	return nil
}

// At returns the element at index i (relative to the oldest live element).
func (g *Guard[T]) At(i int) (T, bool) {
	s := g.s
	var zero T

	idx := s.head + i
	if i < 0 || idx >= len(s.elements) {
		return zero, false
	}
	return s.elements[idx], true
}

// SetAt stores v at index i.  If i is beyond the current length, the stack
// auto-extends by repeating v into the gap.  This is an Indexed-perspective
// convenience for sparse writes.
func (g *Guard[T]) SetAt(i int, v T) error {
	s := g.s
	if i < 0 {
		return ErrIndexOutOfBounds
	}

	idx := s.head + i
	for len(s.elements) <= idx {
		s.elements = append(s.elements, v)
		s.keys = append(s.keys, "")
	}
	s.elements[idx] = v
	return nil
}

// Len returns the number of live elements.
func (g *Guard[T]) Len() int {
	return g.s.lenLocked()
}

// IsEmpty returns true if the stack holds no live elements.
func (g *Guard[T]) IsEmpty() bool {
	return g.s.lenLocked() == 0
}

// Slice returns the live elements as a slice sharing the stack's backing
// array.  Writes through it mutate the stack directly.  The slice is only
// valid until Unlock().
func (g *Guard[T]) Slice() []T {
	return g.s.elements[g.s.head:]
}
