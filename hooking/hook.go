// Package hooking lets observers watch pieces move without the containers
// and buffers knowing who is listening.
//
// Containers report every piece they take in or give out (enqueue, dequeue,
// push, pop, replace). Buffers report every operation they run, successful
// or not. Loggers, the operation recorder and tests attach to either level
// through AcceptHook.
package hooking

// HookPos names the site a hook fires from, such as a queue enqueue or a
// completed buffer operation. Sites are compared by pointer.
type HookPos struct {
	Name string
}

// HookCtx describes one firing. Domain is the object that fired, Item is the
// piece or operation concerned, and Detail carries whatever the site adds
// (the resulting state, an error).
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is implemented by everything hooks can attach to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// A Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hook list for a Hookable. Embed it and call
// InvokeHook at every site.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of attached hooks. Sites use it to skip
// building a HookCtx nobody will read.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns the attached hooks in attach order.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook attaches a hook. Attaching the same hook twice panics, since it
// would see every event twice. HookFuncs are not comparable and are exempt.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	for _, existing := range h.hookList {
		if existing == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook calls every attached hook, in attach order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
