package queueing

import "github.com/piecebuf/piecebuf/hooking"

// QueueBuilder builds Queues.
type QueueBuilder[T any] struct {
	capacity int
}

// WithCapacity defines the capacity of the queue.
func (b QueueBuilder[T]) WithCapacity(capacity int) QueueBuilder[T] {
	b.capacity = capacity
	return b
}

// Build builds a new, empty Queue.
func (b QueueBuilder[T]) Build(name string) *Queue[T] {
	capacityMustBePositive("queue", b.capacity)

	return &Queue[T]{
		name:  name,
		slots: make([]T, b.capacity),
	}
}

// A Queue is a fixed-capacity circular FIFO.
type Queue[T any] struct {
	hooking.HookableBase

	name  string
	slots []T
	front int
	size  int
}

// Name returns the name of the queue.
func (q *Queue[T]) Name() string {
	return q.name
}

// Capacity returns the maximum number of elements.
func (q *Queue[T]) Capacity() int {
	return len(q.slots)
}

// Size returns the number of elements currently queued.
func (q *Queue[T]) Size() int {
	return q.size
}

// IsEmpty reports whether the queue holds no element.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// IsFull reports whether the queue holds Capacity elements.
func (q *Queue[T]) IsFull() bool {
	return q.size == len(q.slots)
}

// slot maps an offset from the front onto the backing array.
func (q *Queue[T]) slot(offset int) int {
	return (q.front + offset) % len(q.slots)
}

// Enqueue adds e at the back of the queue.
func (q *Queue[T]) Enqueue(e T) error {
	if q.IsFull() {
		return NewContainerError(q.name, ErrFull)
	}

	q.slots[q.slot(q.size)] = e
	q.size++

	q.invoke(HookPosEnqueue, e, nil)

	return nil
}

// Dequeue removes and returns the front element.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T

	if q.IsEmpty() {
		return zero, NewContainerError(q.name, ErrEmpty)
	}

	e := q.slots[q.front]
	q.slots[q.front] = zero
	q.front = q.slot(1)
	q.size--

	q.invoke(HookPosDequeue, e, nil)

	return e, nil
}

// PeekFront returns the front element without removing it.
func (q *Queue[T]) PeekFront() (T, error) {
	if q.IsEmpty() {
		var zero T
		return zero, NewContainerError(q.name, ErrEmpty)
	}

	return q.slots[q.front], nil
}

// PeekAt returns the element offset positions behind the front.
func (q *Queue[T]) PeekAt(offset int) (T, error) {
	if offset < 0 || offset >= q.size {
		var zero T
		return zero, NewContainerError(q.name, ErrOutOfRange)
	}

	return q.slots[q.slot(offset)], nil
}

// Replace overwrites the element offset positions behind the front and returns
// the element that was there. The size does not change.
func (q *Queue[T]) Replace(offset int, e T) (T, error) {
	if offset < 0 || offset >= q.size {
		var zero T
		return zero, NewContainerError(q.name, ErrOutOfRange)
	}

	i := q.slot(offset)
	old := q.slots[i]
	q.slots[i] = e

	q.invoke(HookPosReplace, e, old)

	return old, nil
}

// Elements returns a copy of the queued elements, front to back.
func (q *Queue[T]) Elements() []T {
	out := make([]T, q.size)
	for i := range out {
		out[i] = q.slots[q.slot(i)]
	}

	return out
}

func (q *Queue[T]) invoke(pos *hooking.HookPos, item, detail any) {
	if q.NumHooks() == 0 {
		return
	}

	q.InvokeHook(hooking.HookCtx{
		Domain: q,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
