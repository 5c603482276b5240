package worksteal

import "encoding/binary"

// taskHeaderSize is the encoded size of a Task's ID.
const taskHeaderSize = 8

// Task is a unit of work: an integer id plus an opaque byte payload.
type Task struct {
	ID   int64
	Data []byte
}

// Bytes encodes the task as its 8-byte big-endian ID followed by the raw
// payload.  The payload is copied, not aliased.
func (t Task) Bytes() []byte {
	b := make([]byte, taskHeaderSize+len(t.Data))
	binary.BigEndian.PutUint64(b, uint64(t.ID))
	copy(b[taskHeaderSize:], t.Data)
	return b
}

// DecodeTask decodes a task from its byte encoding.  It returns ok == false
// if b is too short to hold the ID header.
func DecodeTask(b []byte) (t Task, ok bool) {
	if len(b) < taskHeaderSize {
		return Task{}, false
	}
	t.ID = int64(binary.BigEndian.Uint64(b))
	if len(b) > taskHeaderSize {
		t.Data = make([]byte, len(b)-taskHeaderSize)
		copy(t.Data, b[taskHeaderSize:])
	}
	return t, true
}
