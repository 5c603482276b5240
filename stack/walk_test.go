package stack

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func drain[T any](t *testing.T, s *Stack[T]) []T {
	t.Helper()

	out := []T{}
	for {
		v, err := s.Pop()
		if errors.Is(err, ErrEmpty) {
			return out
		}
		if err != nil {
			t.Fatalf("drain: %s", err)
		}
		out = append(out, v)
	}
}

func TestWalk(t *testing.T) {
	src := New[int64](FIFO)
	src.Push(1)
	src.Push(2)
	src.Push(3)

	dest := New[int64](FIFO)
	dest.Walk(src, func(v int64) (int64, error) { return v * 2, nil }, nil)

	if diff := pretty.Compare(drain(t, dest), []int64{2, 4, 6}); diff != "" {
		t.Fatalf("TestWalk: -got +want:\n%s", diff)
	}

	// Walking does not consume the source.
	if src.Len() != 3 {
		t.Fatalf("TestWalk: src.Len(): got %d, want 3", src.Len())
	}
}

func TestWalkLIFOOrder(t *testing.T) {
	src := New[int64](LIFO)
	src.Push(1)
	src.Push(2)
	src.Push(3)

	// A LIFO source is traversed newest to oldest.
	dest := New[int64](FIFO)
	dest.Walk(src, func(v int64) (int64, error) { return v, nil }, nil)

	if diff := pretty.Compare(drain(t, dest), []int64{3, 2, 1}); diff != "" {
		t.Fatalf("TestWalkLIFOOrder: -got +want:\n%s", diff)
	}
}

func TestWalkErrors(t *testing.T) {
	src := New[int64](FIFO)
	for i := int64(1); i <= 4; i++ {
		src.Push(i)
	}

	dest := New[int64](FIFO)
	errs := New[error](FIFO)
	dest.Walk(
		src,
		func(v int64) (int64, error) {
			if v%2 == 0 {
				return 0, fmt.Errorf("even value %d", v)
			}
			return v, nil
		},
		errs,
	)

	if diff := pretty.Compare(drain(t, dest), []int64{1, 3}); diff != "" {
		t.Fatalf("TestWalkErrors: -got +want:\n%s", diff)
	}
	if errs.Len() != 2 {
		t.Fatalf("TestWalkErrors: errs.Len(): got %d, want 2", errs.Len())
	}
}

func TestWalkFrozenDest(t *testing.T) {
	src := New[int64](FIFO)
	src.Push(1)
	src.Push(2)

	dest := New[int64](FIFO)
	dest.Freeze()

	errs := New[error](FIFO)
	dest.Walk(src, func(v int64) (int64, error) { return v, nil }, errs)

	if errs.Len() != 2 {
		t.Fatalf("TestWalkFrozenDest: errs.Len(): got %d, want 2", errs.Len())
	}
	e, err := errs.Pop()
	if err != nil {
		t.Fatalf("TestWalkFrozenDest: errs.Pop(): %s", err)
	}
	if !errors.Is(e, ErrFrozen) {
		t.Fatalf("TestWalkFrozenDest: pushed error: got %v, want ErrFrozen", e)
	}
}

func TestWalkHashDest(t *testing.T) {
	src := New[int64](FIFO)
	src.Push(10)
	src.Push(20)
	src.Push(30)

	// Unlabeled slots reach a Hash destination under their slot index.
	dest := New[int64](Hash)
	dest.Walk(src, func(v int64) (int64, error) { return v, nil }, nil)

	for key, want := range map[string]int64{"0": 10, "1": 20, "2": 30} {
		v, err := dest.PeekKey(key)
		if err != nil {
			t.Fatalf("TestWalkHashDest: PeekKey(%s): %s", key, err)
		}
		if v != want {
			t.Fatalf("TestWalkHashDest: PeekKey(%s): got %d, want %d", key, v, want)
		}
	}
}

func TestWalkHashSourceSkipsTombstones(t *testing.T) {
	src := New[int64](Hash)
	src.PushKeyed("a", 1)
	src.PushKeyed("b", 2)
	src.PushKeyed("c", 3)
	src.PopKey("b")

	dest := New[int64](Hash)
	dest.Walk(src, func(v int64) (int64, error) { return v, nil }, nil)

	if dest.Len() != 2 {
		t.Fatalf("TestWalkHashSourceSkipsTombstones: dest.Len(): got %d, want 2", dest.Len())
	}
	if _, err := dest.PeekKey("b"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("TestWalkHashSourceSkipsTombstones: PeekKey(b): got %v, want ErrKeyNotFound", err)
	}
}

func TestWalkSelf(t *testing.T) {
	s := New[int64](FIFO)
	s.Push(1)
	s.Push(2)

	// src and dest may be the same stack.
	s.Walk(s, func(v int64) (int64, error) { return v * 10, nil }, nil)

	if diff := pretty.Compare(drain(t, s), []int64{1, 2, 10, 20}); diff != "" {
		t.Fatalf("TestWalkSelf: -got +want:\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	src := New[int64](FIFO)
	for i := int64(1); i <= 6; i++ {
		src.Push(i)
	}

	dest := New[int64](FIFO)
	dest.Filter(src, func(v int64) bool { return v%2 == 0 }, nil)

	if diff := pretty.Compare(drain(t, dest), []int64{2, 4, 6}); diff != "" {
		t.Fatalf("TestFilter: -got +want:\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	src := New[int64](LIFO)
	src.Push(1)
	src.Push(2)
	src.Push(3)

	dest := Map(src, func(v int64) (int64, error) { return v + 100, nil }, nil)

	if dest.Perspective() != LIFO {
		t.Fatalf("TestMap: dest perspective: got %v, want LIFO", dest.Perspective())
	}
	// Traversal was newest-first, so the source's oldest is now on top.
	if diff := pretty.Compare(drain(t, dest), []int64{101, 102, 103}); diff != "" {
		t.Fatalf("TestMap: -got +want:\n%s", diff)
	}
}

func TestReduce(t *testing.T) {
	src := New[int64](FIFO)
	for i := int64(1); i <= 5; i++ {
		src.Push(i)
	}

	sum := Reduce(src, int64(0), func(acc, v int64) int64 { return acc + v })
	if sum != 15 {
		t.Fatalf("TestReduce: sum: got %d, want 15", sum)
	}

	// Reduce can change the accumulator type.
	joined := Reduce(src, "", func(acc string, v int64) string {
		return fmt.Sprintf("%s%d", acc, v)
	})
	if joined != "12345" {
		t.Fatalf("TestReduce: joined: got %q, want 12345", joined)
	}
}
