package worksteal

import (
	"bytes"
	"sync"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/lukechampine/freeze"
	"golang.org/x/sync/errgroup"
)

func TestTaskCodec(t *testing.T) {
	tests := []Task{
		{ID: 0},
		{ID: 1, Data: []byte("payload")},
		{ID: -42, Data: []byte{0, 1, 2, 3}},
		{ID: 1<<62 + 7},
	}

	for _, want := range tests {
		got, ok := DecodeTask(want.Bytes())
		if !ok {
			t.Fatalf("TestTaskCodec: DecodeTask(id %d): got ok == false", want.ID)
		}
		if diff := pretty.Compare(got, want); diff != "" {
			t.Fatalf("TestTaskCodec: id %d: -got +want:\n%s", want.ID, diff)
		}
	}

	// Anything shorter than the ID header is rejected.
	for i := 0; i < taskHeaderSize; i++ {
		if _, ok := DecodeTask(make([]byte, i)); ok {
			t.Fatalf("TestTaskCodec: DecodeTask(%d bytes): got ok == true", i)
		}
	}
}

func TestTaskBytesCopies(t *testing.T) {
	// Freeze the payload; any write-through by the codec would fault.
	data := freeze.Slice([]byte("payload")).([]byte)

	task := Task{ID: 9, Data: data}
	enc := task.Bytes()
	enc[taskHeaderSize] = 'X' // Must not touch the frozen payload.

	got, ok := DecodeTask(enc)
	if !ok {
		t.Fatalf("TestTaskBytesCopies: DecodeTask: got ok == false")
	}
	got.Data[0] = 'Y' // Nor must the decode alias the encoding.
	if !bytes.Equal(enc[taskHeaderSize:], []byte("Xayload")) {
		t.Fatalf("TestTaskBytesCopies: decode aliased the encoded buffer")
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Fatalf("TestTaskBytesCopies: encode aliased the caller's payload")
	}
}

func TestDequePushPop(t *testing.T) {
	d := NewDeque(16)

	for i := int64(1); i <= 3; i++ {
		if !d.Push(Task{ID: i}) {
			t.Fatalf("TestDequePushPop: push %d: got false", i)
		}
	}
	if d.Len() != 3 {
		t.Fatalf("TestDequePushPop: Len(): got %d, want 3", d.Len())
	}

	for want := int64(3); want >= 1; want-- {
		task, ok := d.Pop()
		if !ok {
			t.Fatalf("TestDequePushPop: pop: got ok == false")
		}
		if task.ID != want {
			t.Fatalf("TestDequePushPop: pop: got id %d, want %d", task.ID, want)
		}
	}

	if _, ok := d.Pop(); ok {
		t.Fatalf("TestDequePushPop: pop on empty: got ok == true")
	}
}

func TestDequeSteal(t *testing.T) {
	d := NewDeque(16)

	for i := int64(1); i <= 3; i++ {
		d.Push(Task{ID: i})
	}

	task, ok := d.Steal()
	if !ok {
		t.Fatalf("TestDequeSteal: steal: got ok == false")
	}
	if task.ID != 1 {
		t.Fatalf("TestDequeSteal: steal: got id %d, want 1", task.ID)
	}

	// The owner still sees its own end.
	for want := int64(3); want >= 2; want-- {
		task, ok := d.Pop()
		if !ok {
			t.Fatalf("TestDequeSteal: pop: got ok == false")
		}
		if task.ID != want {
			t.Fatalf("TestDequeSteal: pop: got id %d, want %d", task.ID, want)
		}
	}

	if _, ok := d.Steal(); ok {
		t.Fatalf("TestDequeSteal: steal on empty: got ok == true")
	}
}

func TestDequeFull(t *testing.T) {
	d := NewDeque(2)

	if !d.Push(Task{ID: 1}) || !d.Push(Task{ID: 2}) {
		t.Fatalf("TestDequeFull: pushes within capacity failed")
	}
	if d.Push(Task{ID: 3}) {
		t.Fatalf("TestDequeFull: push past capacity: got true")
	}
	if d.Cap() != 2 {
		t.Fatalf("TestDequeFull: Cap(): got %d, want 2", d.Cap())
	}

	if _, ok := d.Steal(); !ok {
		t.Fatalf("TestDequeFull: steal: got ok == false")
	}
	if !d.Push(Task{ID: 3}) {
		t.Fatalf("TestDequeFull: push after steal: got false")
	}
}

func TestDequeWraparound(t *testing.T) {
	d := NewDeque(4)

	// Cycle the cursors well past the ring size.
	var next, expect int64
	for round := 0; round < 10; round++ {
		for i := 0; i < 4; i++ {
			if !d.Push(Task{ID: next}) {
				t.Fatalf("TestDequeWraparound: push %d: got false", next)
			}
			next++
		}
		for i := 0; i < 4; i++ {
			task, ok := d.Steal()
			if !ok {
				t.Fatalf("TestDequeWraparound: steal: got ok == false")
			}
			if task.ID != expect {
				t.Fatalf("TestDequeWraparound: steal: got id %d, want %d", task.ID, expect)
			}
			expect++
		}
	}
	if !d.IsEmpty() {
		t.Fatalf("TestDequeWraparound: IsEmpty(): got false, want true")
	}
}

func TestStackBasic(t *testing.T) {
	s := NewStack()

	for i := int64(1); i <= 3; i++ {
		if !s.Push(Task{ID: i, Data: []byte("work")}) {
			t.Fatalf("TestStackBasic: push %d: got false", i)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("TestStackBasic: Len(): got %d, want 3", s.Len())
	}

	task, ok := s.Pop()
	if !ok || task.ID != 3 {
		t.Fatalf("TestStackBasic: owner pop: got id %d, %v, want 3, true", task.ID, ok)
	}
	task, ok = s.Steal()
	if !ok || task.ID != 1 {
		t.Fatalf("TestStackBasic: thief steal: got id %d, %v, want 1, true", task.ID, ok)
	}
	task, ok = s.Pop()
	if !ok || task.ID != 2 {
		t.Fatalf("TestStackBasic: owner pop: got id %d, %v, want 2, true", task.ID, ok)
	}

	if _, ok := s.Pop(); ok {
		t.Fatalf("TestStackBasic: pop on empty: got ok == true")
	}
	if _, ok := s.Steal(); ok {
		t.Fatalf("TestStackBasic: steal on empty: got ok == true")
	}
}

func TestStackClose(t *testing.T) {
	s := NewStack()
	s.Push(Task{ID: 1})
	s.Close()

	if !s.IsClosed() {
		t.Fatalf("TestStackClose: IsClosed(): got false, want true")
	}
	if s.Push(Task{ID: 2}) {
		t.Fatalf("TestStackClose: push after close: got true")
	}
	// Pending work survives the close.
	if task, ok := s.Pop(); !ok || task.ID != 1 {
		t.Fatalf("TestStackClose: pop after close: got id %d, %v, want 1, true", task.ID, ok)
	}
}

func TestStackConcurrent(t *testing.T) {
	const count = 1000

	s := NewStack()
	for i := int64(0); i < count; i++ {
		if !s.Push(Task{ID: i}) {
			t.Fatalf("TestStackConcurrent: push %d: got false", i)
		}
	}

	// Unlike the deque, the view-based stack resolves everything under one
	// lock, so ok == false here can only mean empty.
	mu := sync.Mutex{}
	seen := map[int64]int{}
	record := func(id int64) {
		mu.Lock()
		seen[id]++
		mu.Unlock()
	}

	g := errgroup.Group{}
	g.Go(func() error { // Owner.
		for {
			task, ok := s.Pop()
			if !ok {
				return nil
			}
			record(task.ID)
		}
	})
	for i := 0; i < 3; i++ { // Thieves.
		g.Go(func() error {
			for {
				task, ok := s.Steal()
				if !ok {
					return nil
				}
				record(task.ID)
			}
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("TestStackConcurrent: %s", err)
	}

	if len(seen) != count {
		t.Fatalf("TestStackConcurrent: got %d distinct ids, want %d", len(seen), count)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("TestStackConcurrent: id %d delivered %d times, want 1", id, n)
		}
	}
	if !s.IsEmpty() {
		t.Fatalf("TestStackConcurrent: IsEmpty(): got false, want true")
	}
}

func BenchmarkDequePushPop(b *testing.B) {
	d := NewDeque(1024)
	task := Task{ID: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Push(task)
		d.Pop()
	}
}

func BenchmarkStackPushPop(b *testing.B) {
	s := NewStack()
	task := Task{ID: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Push(task)
		s.Pop()
	}
}
