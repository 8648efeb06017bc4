package fifo

import "sync"

//
// Queue is a thread-safe, unbounded first-in-first-out queue. Elements are popped in exactly the
// order they were pushed.
//
type Queue[T any] struct {
	mu    *sync.Mutex
	queue []T
}

//
// New instantiates a new, empty queue.
//
func New[T any]() *Queue[T] {
	return &Queue[T]{
		mu:    &sync.Mutex{},
		queue: make([]T, 0),
	}
}

//
// Push appends the provided element to the tail of the queue.
//
func (o *Queue[T]) Push(e T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.queue = append(o.queue, e)
}

//
// Pop removes and returns the element at the head of the queue and a true sentinel, or the zero
// value and a false sentinel if the queue is empty.
//
func (o *Queue[T]) Pop() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var zero T

	if len(o.queue) == 0 {
		return zero, false
	}

	e := o.queue[0]

	//
	// Clear the vacated slot so the backing array does not pin the popped element.
	//
	o.queue[0] = zero
	o.queue = o.queue[1:]

	if len(o.queue) == 0 {
		o.queue = o.queue[:0:0]
	}

	return e, true
}

//
// Peek returns the element at the head of the queue without removing it.
//
func (o *Queue[T]) Peek() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.queue) == 0 {
		var zero T

		return zero, false
	}

	return o.queue[0], true
}

//
// Len returns the current length of the queue.
//
func (o *Queue[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.queue)
}
