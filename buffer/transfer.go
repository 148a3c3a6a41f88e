package buffer

import (
	"fmt"

	"github.com/piecebuf/piecebuf/hooking"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/piecebuf/piecebuf/queueing"
)

// swapTripleWidth is how many pieces SwapTriple exchanges on each side.
const swapTripleWidth = 3

// Do runs the given operation.
func (b *Buffer) Do(op Op) (Result, error) {
	switch op {
	case OpPlay:
		return b.Play()
	case OpReserve:
		return b.Reserve()
	case OpUseReserved:
		return b.UseReserved()
	case OpSwapTop:
		return b.SwapTop()
	case OpSwapTriple:
		return b.SwapTriple()
	default:
		return Result{Op: op}, fmt.Errorf("%w: %v", ErrUnknownOp, op)
	}
}

// Play discards the front piece of the queue and refills the queue with a new
// piece.
func (b *Buffer) Play() (Result, error) {
	return b.run(OpPlay, func() (Result, error) {
		if b.queue.IsEmpty() {
			return Result{}, b.emptyErr(b.queue)
		}

		played, err := b.queue.Dequeue()
		mustSucceed(err)

		return Result{
			Discarded: []piece.Piece{played},
			Generated: []piece.Piece{b.refill()},
		}, nil
	})
}

// Reserve moves the front piece of the queue onto the reserve and refills the
// queue. The queue is checked for emptiness before the reserve for fullness.
func (b *Buffer) Reserve() (Result, error) {
	return b.run(OpReserve, func() (Result, error) {
		if b.queue.IsEmpty() {
			return Result{}, b.emptyErr(b.queue)
		}

		if b.reserve.IsFull() {
			return Result{}, queueing.NewContainerError(b.reserve.Name(), queueing.ErrFull)
		}

		moved, err := b.queue.Dequeue()
		mustSucceed(err)
		mustSucceed(b.reserve.Push(moved))

		return Result{
			Reserved:  []piece.Piece{moved},
			Generated: []piece.Piece{b.refill()},
		}, nil
	})
}

// UseReserved discards the top piece of the reserve.
func (b *Buffer) UseReserved() (Result, error) {
	return b.run(OpUseReserved, func() (Result, error) {
		if b.reserve.IsEmpty() {
			return Result{}, b.emptyErr(b.reserve)
		}

		used, err := b.reserve.Pop()
		mustSucceed(err)

		return Result{Discarded: []piece.Piece{used}}, nil
	})
}

// SwapTop exchanges the front piece of the queue with the top of the reserve.
func (b *Buffer) SwapTop() (Result, error) {
	return b.run(OpSwapTop, func() (Result, error) {
		if b.queue.IsEmpty() {
			return Result{}, b.emptyErr(b.queue)
		}

		if b.reserve.IsEmpty() {
			return Result{}, b.emptyErr(b.reserve)
		}

		fromQueue, fromReserve := b.exchange(1)

		return Result{FromQueue: fromQueue, FromReserve: fromReserve}, nil
	})
}

// SwapTriple exchanges the three front pieces of the queue with the three
// reserved pieces. The reserve must be full. The former reserve top becomes
// the queue front and the former queue front becomes the reserve top, so both
// groups come out reversed relative to their bottom-to-top order.
func (b *Buffer) SwapTriple() (Result, error) {
	return b.run(OpSwapTriple, func() (Result, error) {
		if b.queue.Size() < swapTripleWidth {
			return Result{}, fmt.Errorf(
				"%w: %s holds %d pieces, need at least %d",
				ErrSizeMismatch, b.queue.Name(), b.queue.Size(), swapTripleWidth)
		}

		if b.reserve.Size() != swapTripleWidth {
			return Result{}, fmt.Errorf(
				"%w: %s holds %d pieces, need exactly %d",
				ErrSizeMismatch, b.reserve.Name(), b.reserve.Size(), swapTripleWidth)
		}

		fromQueue, fromReserve := b.exchange(swapTripleWidth)

		return Result{FromQueue: fromQueue, FromReserve: fromReserve}, nil
	})
}

// exchange swaps the n pieces behind the queue front with the n pieces below
// the reserve top, position by position. Callers have checked both sizes.
func (b *Buffer) exchange(n int) (fromQueue, fromReserve []piece.Piece) {
	for i := 0; i < n; i++ {
		r, err := b.reserve.PeekAt(i)
		mustSucceed(err)

		q, err := b.queue.Replace(i, r)
		mustSucceed(err)

		_, err = b.reserve.Replace(i, q)
		mustSucceed(err)

		fromQueue = append(fromQueue, q)
		fromReserve = append(fromReserve, r)
	}

	return fromQueue, fromReserve
}

// refill generates a piece and enqueues it. Callers have just dequeued.
func (b *Buffer) refill() piece.Piece {
	p := b.source.Generate()
	mustSucceed(b.queue.Enqueue(p))

	return p
}

func (b *Buffer) emptyErr(c queueing.Container) error {
	return queueing.NewContainerError(c.Name(), queueing.ErrEmpty)
}

// run executes body under the buffer lock and reports the outcome to hooks
// once the lock is released. Hooks observe operations in execution order and
// may read the buffer, but must not run operations on it.
func (b *Buffer) run(op Op, body func() (Result, error)) (Result, error) {
	b.lock.Lock()
	res, err := body()
	res.Op = op

	if b.NumHooks() == 0 {
		b.lock.Unlock()
		return res, err
	}

	state := b.snapshot()
	ticket := b.nextTicket
	b.nextTicket++
	b.lock.Unlock()

	b.waitHookTurn(ticket)
	defer b.endHookTurn()

	if err != nil {
		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    HookPosOperationFailed,
			Item:   op,
			Detail: &Failure{Err: err, State: state},
		})

		return res, err
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosOperation,
		Item:   res,
		Detail: state,
	})

	return res, nil
}

func (b *Buffer) waitHookTurn(ticket uint64) {
	b.hookLock.Lock()
	defer b.hookLock.Unlock()

	for b.dispatched != ticket {
		b.hookTurn.Wait()
	}
}

func (b *Buffer) endHookTurn() {
	b.hookLock.Lock()
	defer b.hookLock.Unlock()

	b.dispatched++
	b.hookTurn.Broadcast()
}
