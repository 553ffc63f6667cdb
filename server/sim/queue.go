package sim

import "sync"

// Connected and Disconnected are lifecycle events queued by the transport.
type Connected struct{}

type Disconnected struct {
	Err error
}

// Inbound is one queued delivery from the transport.
type Inbound struct {
	Conn ConnID
	Msg  any
}

// Queue buffers inbound deliveries between transport goroutines and the
// simulation goroutine. Client messages are bounded by limit; lifecycle
// events are always accepted. Drain preserves arrival order.
type Queue struct {
	mu     sync.Mutex
	items  []Inbound
	inputs int
	limit  int
	stats  *Stats
}

// NewQueue creates a queue holding at most limit client messages per tick.
// limit <= 0 means unbounded.
func NewQueue(limit int, stats *Stats) *Queue {
	if stats == nil {
		stats = &Stats{}
	}
	return &Queue{limit: limit, stats: stats}
}

// Push queues a client message. It returns false and counts a drop when the
// queue is full.
func (q *Queue) Push(conn ConnID, msg any) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.limit > 0 && q.inputs >= q.limit {
		q.stats.QueueDropped.Add(1)
		return false
	}
	q.inputs++
	q.items = append(q.items, Inbound{Conn: conn, Msg: msg})
	return true
}

// PushLifecycle queues a Connected or Disconnected event. It never drops.
func (q *Queue) PushLifecycle(conn ConnID, msg any) {
	q.mu.Lock()
	q.items = append(q.items, Inbound{Conn: conn, Msg: msg})
	q.mu.Unlock()
}

// Drain removes and returns everything queued so far.
func (q *Queue) Drain() []Inbound {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	q.inputs = 0
	return out
}

// Len returns the number of queued deliveries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
