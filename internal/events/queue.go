package events

import "sync/atomic"

// Message is a raw three-byte MIDI channel message.
type Message [3]byte

// Queue is a fixed-size single-producer single-consumer ring. One goroutine
// pushes, the audio thread pops; neither side locks or allocates.
type Queue struct {
	buf  []Message
	mask uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewQueue creates a queue holding at least capacity messages. Capacity is
// rounded up to a power of two.
func NewQueue(capacity int) *Queue {
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &Queue{buf: make([]Message, n), mask: uint64(n - 1)}
}

// Push appends msg. It returns false and drops msg when the queue is full.
func (q *Queue) Push(msg Message) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = msg
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest message.
func (q *Queue) Pop() (Message, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Message{}, false
	}
	msg := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return msg, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}
