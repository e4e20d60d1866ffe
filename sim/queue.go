// Implements the FIFO queue of process ids used by every scheduling policy.

package sim

import (
	"fmt"
	"strings"
)

// Queue is a FIFO queue of process ids. Policies store ids, never PCB pointers;
// the simulator's process table is the single owner of control blocks.
type Queue struct {
	queue []ProcessID
}

// Enqueue adds a process to the back of the queue.
func (q *Queue) Enqueue(id ProcessID) {
	q.queue = append(q.queue, id)
}

// PrependFront inserts a process at the front of the queue.
// Used for preemption: an evicted process goes back to the head of its queue.
func (q *Queue) PrependFront(id ProcessID) {
	q.queue = append([]ProcessID{id}, q.queue...)
}

// Dequeue removes and returns the process at the front of the queue.
func (q *Queue) Dequeue() (ProcessID, bool) {
	if len(q.queue) == 0 {
		return 0, false
	}
	id := q.queue[0]
	q.queue = q.queue[1:]
	return id, true
}

// RemoveAt removes and returns the i-th process.
func (q *Queue) RemoveAt(i int) ProcessID {
	if i < 0 || i >= len(q.queue) {
		panic(fmt.Sprintf("RemoveAt: index %d out of range [0,%d)", i, len(q.queue)))
	}
	id := q.queue[i]
	q.queue = append(q.queue[:i], q.queue[i+1:]...)
	return id
}

// Peek returns the process at the front of the queue without removing it.
func (q *Queue) Peek() (ProcessID, bool) {
	if len(q.queue) == 0 {
		return 0, false
	}
	return q.queue[0], true
}

// Len returns the number of processes in the queue.
func (q *Queue) Len() int {
	return len(q.queue)
}

// Items returns a copy of the queue contents in extraction order.
func (q *Queue) Items() []ProcessID {
	out := make([]ProcessID, len(q.queue))
	copy(out, q.queue)
	return out
}

func (q *Queue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range q.queue {
		sb.WriteString(fmt.Sprint(id))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
