// Package sched implements the ready queue and the three pluggable
// scheduling policies.
package sched

import "github.com/so-sim/vsok/internal/process"

// Queue is a doubly-linked ready queue. It stores non-owning
// references into the process table's array; the table owns all
// Descriptor storage.
type Queue struct {
	head, tail *node
	index      map[*process.Descriptor]*node
}

type node struct {
	desc       *process.Descriptor
	prev, next *node
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{index: make(map[*process.Descriptor]*node)}
}

// Len reports the number of descriptors currently enqueued.
func (q *Queue) Len() int { return len(q.index) }

// Contains reports whether d is currently enqueued.
func (q *Queue) Contains(d *process.Descriptor) bool {
	_, ok := q.index[d]
	return ok
}

// PushBack enqueues d at the tail, used by FIFO round-robin re-queueing.
func (q *Queue) PushBack(d *process.Descriptor) {
	q.insertBefore(&node{desc: d}, nil)
}

// InsertByPriority enqueues d keeping the queue in non-decreasing
// priority order. Ties are broken by insertion order: d is placed
// after every already-queued descriptor whose priority is less than
// or equal to d's, so two descriptors with equal priority come out in
// the order they were inserted.
func (q *Queue) InsertByPriority(d *process.Descriptor) {
	n := &node{desc: d}
	mark := q.head
	for mark != nil && mark.desc.Priority <= d.Priority {
		mark = mark.next
	}
	q.insertBefore(n, mark)
}

func (q *Queue) insertBefore(n, mark *node) {
	if mark == nil {
		n.prev = q.tail
		if q.tail != nil {
			q.tail.next = n
		} else {
			q.head = n
		}
		q.tail = n
	} else {
		n.next = mark
		n.prev = mark.prev
		if mark.prev != nil {
			mark.prev.next = n
		} else {
			q.head = n
		}
		mark.prev = n
	}
	q.index[n.desc] = n
}

// Remove takes d out of the queue, wherever it sits, and reports
// whether it was there. It is a no-op if d is not enqueued. The
// running descriptor is normally not enqueued; the exception is init
// right after RESET, which Dispatcher.Reset enqueues while RUNNING.
func (q *Queue) Remove(d *process.Descriptor) bool {
	n, ok := q.index[d]
	if !ok {
		return false
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		q.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		q.tail = n.prev
	}
	delete(q.index, d)
	return true
}

// PopFront removes and returns the descriptor at the head of the
// queue, or nil if the queue is empty.
func (q *Queue) PopFront() *process.Descriptor {
	if q.head == nil {
		return nil
	}
	d := q.head.desc
	q.Remove(d)
	return d
}

// PeekFront returns the descriptor at the head without removing it.
func (q *Queue) PeekFront() *process.Descriptor {
	if q.head == nil {
		return nil
	}
	return q.head.desc
}

// Slice returns the queue contents head-to-tail. Used by the metrics
// report writer and by tests that assert on queue order.
func (q *Queue) Slice() []*process.Descriptor {
	out := make([]*process.Descriptor, 0, len(q.index))
	for n := q.head; n != nil; n = n.next {
		out = append(out, n.desc)
	}
	return out
}
