package native

import "sync"

// Dispatcher runs functions on the goroutine that owns the view tree.
type Dispatcher interface {
	Post(fn func())
}

// Queue is a Dispatcher whose owner drains it from its UI loop.
// Post is safe from any goroutine; Drain must only be called by the owner.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	ready   chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post enqueues fn and wakes the owner.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after a Post. Owners select on it alongside their
// other events and call Drain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs every queued function in post order and returns how many ran.
// Functions posted while draining run in the same call.
func (q *Queue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Len returns the number of queued functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// DispatcherFunc adapts a function, such as tview's QueueUpdateDraw, to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }
