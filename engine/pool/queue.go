package pool

// Queue is a FIFO queue whose cells come from a Pool.
type Queue[T any] struct {
	cells *Pool[T]
	head  *Cell[T]
	tail  *Cell[T]
	count int
}

// NewQueue creates an empty queue drawing cells from cells.
// A nil pool gives the queue a private one.
//
// Parameters:
//   - cells: the pool to draw cells from, may be shared with other structures of the same owner
//
// Returns:
//   - *Queue[T]: the new queue
func NewQueue[T any](cells *Pool[T]) *Queue[T] {
	if cells == nil {
		cells = NewPool[T]()
	}
	return &Queue[T]{cells: cells}
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return q.count
}

// Enqueue appends v at the back of the queue.
func (q *Queue[T]) Enqueue(v T) {
	c := q.cells.Create(v, nil)
	if q.tail == nil {
		q.head = c
	} else {
		q.tail.Next = c
	}
	q.tail = c
	q.count++
}

// Dequeue removes and returns the front value. Panics if the queue is empty.
func (q *Queue[T]) Dequeue() T {
	if q.head == nil {
		panic("pool: dequeue from empty queue")
	}
	c := q.head
	v := c.Value
	q.head = c.Next
	if q.head == nil {
		q.tail = nil
	}
	q.count--
	q.cells.Release(c)
	return v
}

// Peek returns the front value without removing it. Panics if the queue is empty.
func (q *Queue[T]) Peek() T {
	if q.head == nil {
		panic("pool: peek on empty queue")
	}
	return q.head.Value
}

// Second returns the value behind the front one. Panics if fewer than two values are queued.
func (q *Queue[T]) Second() T {
	if q.count < 2 {
		panic("pool: second on queue with fewer than two values")
	}
	return q.head.Next.Value
}

// Clear releases every queued cell back to the pool.
func (q *Queue[T]) Clear() {
	for c := q.head; c != nil; {
		next := c.Next
		q.cells.Release(c)
		c = next
	}
	q.head, q.tail, q.count = nil, nil, 0
}

// All yields the queued values from front to back without removing them.
func (q *Queue[T]) All(yield func(T) bool) {
	for c := q.head; c != nil; c = c.Next {
		if !yield(c.Value) {
			return
		}
	}
}
