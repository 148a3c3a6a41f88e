package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedDomain struct {
	HookableBase
}

func (d *namedDomain) Name() string {
	return "Reserve"
}

type countingHook struct {
	ctxs []HookCtx
}

func (h *countingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		domain *namedDomain
		pos    *HookPos
	)

	BeforeEach(func() {
		domain = &namedDomain{}
		pos = &HookPos{Name: "Push"}
	})

	It("should invoke hooks in registration order", func() {
		var order []int

		domain.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		domain.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		domain.InvokeHook(HookCtx{Domain: domain, Pos: pos})

		Expect(domain.NumHooks()).To(Equal(2))
		Expect(order).To(Equal([]int{1, 2}))
	})

	It("should pass the context through", func() {
		hook := &countingHook{}
		domain.AcceptHook(hook)

		domain.InvokeHook(HookCtx{Domain: domain, Pos: pos, Item: 42})

		Expect(hook.ctxs).To(HaveLen(1))
		Expect(hook.ctxs[0].Item).To(Equal(42))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(pos))
	})

	It("should panic on duplicated hook", func() {
		hook := &countingHook{}
		domain.AcceptHook(hook)

		Expect(func() { domain.AcceptHook(hook) }).To(Panic())
	})
})

var _ = Describe("LogHook", func() {
	It("should log domain, position and item", func() {
		out := &bytes.Buffer{}
		hook := NewLogHook(log.New(out, "", 0))
		domain := &namedDomain{}

		hook.Func(HookCtx{
			Domain: domain,
			Pos:    &HookPos{Name: "Push"},
			Item:   "[I 0]",
		})

		Expect(out.String()).To(Equal("Reserve Push [I 0]\n"))
	})

	It("should append the detail when present", func() {
		out := &bytes.Buffer{}
		hook := NewLogHook(log.New(out, "", 0))

		hook.Func(HookCtx{
			Domain: &namedDomain{},
			Pos:    &HookPos{Name: "Pop"},
			Item:   1,
			Detail: "empty",
		})

		Expect(out.String()).To(Equal("Reserve Pop 1 (empty)\n"))
	})
})
