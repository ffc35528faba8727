package shard

import "sync"

// queue is an unbounded FIFO of work items with a single consumer.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []WorkItem
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends an item. It never blocks on the consumer and reports false
// once the queue has been closed.
func (q *queue) push(item WorkItem) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// pop blocks until an item is available. After close it keeps returning
// queued items and reports false once the queue is empty.
func (q *queue) pop() (WorkItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}

	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
