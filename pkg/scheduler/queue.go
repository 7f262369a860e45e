package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

type task struct {
	id        string
	releaseAt time.Time
	seq       uint64
	index     int
	run       func()
}

// taskHeap orders tasks by release time, then by insertion order.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if !h[i].releaseAt.Equal(h[j].releaseAt) {
		return h[i].releaseAt.Before(h[j].releaseAt)
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// taskQueue is a bounded queue releasing tasks once their release time is
// reached. Waiters park on the changed channel, which is closed and replaced
// on every mutation.
type taskQueue struct {
	mu       sync.Mutex
	items    taskHeap
	capacity int
	policy   OnFullPolicy
	closed   bool
	seq      uint64
	changed  chan struct{}
}

func newTaskQueue(capacity int, policy OnFullPolicy) *taskQueue {
	return &taskQueue{
		capacity: capacity,
		policy:   policy,
		changed:  make(chan struct{}),
	}
}

// push inserts t. When the queue is full it either waits for room (until ctx
// is done) or fails with QueueFullError, depending on the policy.
func (q *taskQueue) push(ctx context.Context, t *task) error {
	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return srvErrors.NewQueueClosedError()
		}
		if len(q.items) < q.capacity {
			break
		}
		if q.policy == OnFullReject {
			q.mu.Unlock()
			return srvErrors.NewQueueFullError(q.capacity)
		}

		changed := q.changed
		q.mu.Unlock()
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
		q.mu.Lock()
	}

	q.seq++
	t.seq = q.seq
	heap.Push(&q.items, t)
	q.broadcast()
	q.mu.Unlock()
	return nil
}

// pop blocks until a task is eligible. Once the queue is closed it keeps
// handing out the remaining tasks and then fails with QueueClosedError.
func (q *taskQueue) pop(ctx context.Context) (*task, error) {
	for {
		q.mu.Lock()
		if len(q.items) == 0 && q.closed {
			q.mu.Unlock()
			return nil, srvErrors.NewQueueClosedError()
		}

		var timer *time.Timer
		var release <-chan time.Time
		if len(q.items) > 0 {
			head := q.items[0]
			wait := time.Until(head.releaseAt)
			if wait <= 0 {
				heap.Pop(&q.items)
				q.broadcast()
				q.mu.Unlock()
				return head, nil
			}
			timer = time.NewTimer(wait)
			release = timer.C
		}
		changed := q.changed
		q.mu.Unlock()

		select {
		case <-changed:
		case <-release:
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil, ctx.Err()
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

func (q *taskQueue) remove(t *task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t.index < 0 || t.index >= len(q.items) || q.items[t.index] != t {
		return false
	}
	heap.Remove(&q.items, t.index)
	q.broadcast()
	return true
}

// drain empties the queue and returns its tasks in release order.
func (q *taskQueue) drain() []*task {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := make([]*task, 0, len(q.items))
	for len(q.items) > 0 {
		tasks = append(tasks, heap.Pop(&q.items).(*task))
	}
	q.broadcast()
	return tasks
}

// close stops accepting tasks. Queued tasks can still be popped.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.broadcast()
}

func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *taskQueue) broadcast() {
	close(q.changed)
	q.changed = make(chan struct{})
}
