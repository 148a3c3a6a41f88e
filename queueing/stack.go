package queueing

import "github.com/piecebuf/piecebuf/hooking"

// StackBuilder builds Stacks.
type StackBuilder[T any] struct {
	capacity int
}

// WithCapacity defines the capacity of the stack.
func (b StackBuilder[T]) WithCapacity(capacity int) StackBuilder[T] {
	b.capacity = capacity
	return b
}

// Build builds a new, empty Stack.
func (b StackBuilder[T]) Build(name string) *Stack[T] {
	capacityMustBePositive("stack", b.capacity)

	return &Stack[T]{
		name:     name,
		capacity: b.capacity,
		elements: make([]T, 0, b.capacity),
	}
}

// A Stack is a fixed-capacity LIFO. Offsets are counted from the top.
type Stack[T any] struct {
	hooking.HookableBase

	name     string
	capacity int
	elements []T
}

// Name returns the name of the stack.
func (s *Stack[T]) Name() string {
	return s.name
}

// Capacity returns the maximum number of elements.
func (s *Stack[T]) Capacity() int {
	return s.capacity
}

// Size returns the number of elements on the stack.
func (s *Stack[T]) Size() int {
	return len(s.elements)
}

// IsEmpty reports whether the stack holds no element.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.elements) == 0
}

// IsFull reports whether the stack holds Capacity elements.
func (s *Stack[T]) IsFull() bool {
	return len(s.elements) == s.capacity
}

// Push puts e on top of the stack.
func (s *Stack[T]) Push(e T) error {
	if s.IsFull() {
		return NewContainerError(s.name, ErrFull)
	}

	s.elements = append(s.elements, e)

	s.invoke(HookPosPush, e, nil)

	return nil
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, error) {
	var zero T

	if s.IsEmpty() {
		return zero, NewContainerError(s.name, ErrEmpty)
	}

	top := len(s.elements) - 1
	e := s.elements[top]
	s.elements[top] = zero
	s.elements = s.elements[:top]

	s.invoke(HookPosPop, e, nil)

	return e, nil
}

// PeekTop returns the top element without removing it.
func (s *Stack[T]) PeekTop() (T, error) {
	if s.IsEmpty() {
		var zero T
		return zero, NewContainerError(s.name, ErrEmpty)
	}

	return s.elements[len(s.elements)-1], nil
}

// PeekAt returns the element offset positions below the top.
func (s *Stack[T]) PeekAt(offset int) (T, error) {
	i, err := s.index(offset)
	if err != nil {
		var zero T
		return zero, err
	}

	return s.elements[i], nil
}

// Replace overwrites the element offset positions below the top and returns
// the element that was there. The size does not change.
func (s *Stack[T]) Replace(offset int, e T) (T, error) {
	i, err := s.index(offset)
	if err != nil {
		var zero T
		return zero, err
	}

	old := s.elements[i]
	s.elements[i] = e

	s.invoke(HookPosReplace, e, old)

	return old, nil
}

// Elements returns a copy of the stacked elements, top to bottom.
func (s *Stack[T]) Elements() []T {
	out := make([]T, len(s.elements))
	for i := range out {
		out[i] = s.elements[len(s.elements)-1-i]
	}

	return out
}

func (s *Stack[T]) index(offset int) (int, error) {
	if offset < 0 || offset >= len(s.elements) {
		return 0, NewContainerError(s.name, ErrOutOfRange)
	}

	return len(s.elements) - 1 - offset, nil
}

func (s *Stack[T]) invoke(pos *hooking.HookPos, item, detail any) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
