// Package queueing provides the bounded containers the piece buffer is made
// of: a circular FIFO queue and a LIFO stack.
package queueing

import (
	"log"

	"github.com/piecebuf/piecebuf/hooking"
)

// HookPosEnqueue marks when an element is added to the back of a queue.
var HookPosEnqueue = &hooking.HookPos{Name: "Enqueue"}

// HookPosDequeue marks when an element is removed from the front of a queue.
var HookPosDequeue = &hooking.HookPos{Name: "Dequeue"}

// HookPosPush marks when an element is pushed onto a stack.
var HookPosPush = &hooking.HookPos{Name: "Push"}

// HookPosPop marks when an element is popped from a stack.
var HookPosPop = &hooking.HookPos{Name: "Pop"}

// HookPosReplace marks when an occupied slot is overwritten in place.
var HookPosReplace = &hooking.HookPos{Name: "Replace"}

// A Container is the element-agnostic view of a queue or stack.
type Container interface {
	hooking.Hookable

	Name() string
	Capacity() int
	Size() int
	IsEmpty() bool
	IsFull() bool
}

func capacityMustBePositive(kind string, capacity int) {
	if capacity < 1 {
		log.Panicf("%s capacity must be positive, got %d", kind, capacity)
	}
}
