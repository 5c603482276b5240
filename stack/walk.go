package stack

import "strconv"

// WalkFunc is applied to each element during a Walk.
type WalkFunc[T any] func(v T) (T, error)

// walkEntry is one snapshotted element plus the label its slot carried.
type walkEntry[T any] struct {
	v   T
	key string
}

// snapshot copies src's live elements in perspective order under src's lock:
// newest to oldest for LIFO, oldest to newest for FIFO and Indexed, and only
// the live labeled slots for Hash.  Unlabeled slots get their decimal slot
// index as a label so a Hash destination always has a key to use.
func snapshot[T any](src *Stack[T]) []walkEntry[T] {
	src.mu.Lock()
	defer src.mu.Unlock()

	n := src.lenLocked()
	if n == 0 {
		return nil
	}

	out := make([]walkEntry[T], 0, n)
	add := func(i int) {
		k := src.keys[i]
		if k == "" {
			k = strconv.Itoa(i)
		}
		out = append(out, walkEntry[T]{v: src.elements[i], key: k})
	}

	switch src.perspective {
	case LIFO:
		for i := len(src.elements) - 1; i >= src.head; i-- {
			add(i)
		}
	case Hash:
		// Skip tombstones and anything never labeled.
		for i := src.head; i < len(src.elements); i++ {
			if src.keys[i] != "" {
				add(i)
			}
		}
	default: // FIFO, Indexed
		for i := src.head; i < len(src.elements); i++ {
			add(i)
		}
	}
	return out
}

// Walk traverses src in perspective order, applies fn to each element and
// pushes the results onto dest.  src is not consumed.  Elements whose fn
// call fails are skipped and the error is pushed onto errs, if provided; so
// are push failures (a frozen or full destination).
//
// src is snapshotted under its own lock and fn runs with no lock held, so
// src and dest may be the same stack.  Pushes that race with other writers
// interleave with them; Walk is not atomic with respect to dest.
func (s *Stack[T]) Walk(src *Stack[T], fn WalkFunc[T], errs *Stack[error]) {
	hashDest := s.Perspective() == Hash

	for _, e := range snapshot(src) {
		v, err := fn(e.v)
		if err != nil {
			if errs != nil {
				errs.Push(err)
			}
			continue
		}

		if hashDest {
			err = s.PushKeyed(e.key, v)
		} else {
			err = s.Push(v)
		}
		if err != nil && errs != nil {
			errs.Push(err)
		}
	}
}

// Filter traverses src in perspective order and pushes onto dest only the
// elements for which pred returns true.  src is not consumed.
func (s *Stack[T]) Filter(src *Stack[T], pred func(v T) bool, errs *Stack[error]) {
	hashDest := s.Perspective() == Hash

	for _, e := range snapshot(src) {
		if !pred(e.v) {
			continue
		}

		var err error
		if hashDest {
			err = s.PushKeyed(e.key, e.v)
		} else {
			err = s.Push(e.v)
		}
		if err != nil && errs != nil {
			errs.Push(err)
		}
	}
}

// Map is a convenience wrapper: it walks src with fn and returns the results
// in a new stack with src's perspective.
func Map[T any](src *Stack[T], fn WalkFunc[T], errs *Stack[error]) *Stack[T] {
	dest := New[T](src.Perspective())
	dest.Walk(src, fn, errs)
	return dest
}

// Reduce traverses src in perspective order and folds the elements into a
// single accumulated value.
func Reduce[T, A any](src *Stack[T], initial A, fn func(acc A, v T) A) A {
	acc := initial
	for _, e := range snapshot(src) {
		acc = fn(acc, e.v)
	}
	return acc
}
