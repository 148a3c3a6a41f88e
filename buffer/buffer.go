// Package buffer implements the piece buffer: a queue of upcoming pieces and
// a reserve stack, plus the operations that move pieces between them.
package buffer

import (
	"errors"
	"log"
	"sync"

	"github.com/piecebuf/piecebuf/hooking"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/piecebuf/piecebuf/queueing"
)

// Capacities of the two containers.
const (
	QueueCapacity   = 5
	ReserveCapacity = 3
)

// Errors specific to the buffer. Container errors come from the queueing
// package (queueing.ErrEmpty, queueing.ErrFull, queueing.ErrOutOfRange).
var (
	ErrSizeMismatch = errors.New("size mismatch")
	ErrUnknownOp    = errors.New("unknown operation")
	ErrInvalidState = errors.New("invalid buffer state")
)

// HookPosOperation marks a completed operation. The hook item is the Result
// and the detail is the State after the operation.
var HookPosOperation = &hooking.HookPos{Name: "Operation"}

// HookPosOperationFailed marks a rejected operation. The hook item is the Op
// and the detail is a *Failure.
var HookPosOperationFailed = &hooking.HookPos{Name: "Operation Failed"}

// Builder builds Buffers.
type Builder struct {
	source piece.Source
}

// WithSource defines where new pieces come from.
func (b Builder) WithSource(src piece.Source) Builder {
	b.source = src
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.source == nil {
		log.Panic("a buffer needs a piece source")
	}
}

func (b Builder) build(name string) *Buffer {
	b.parametersMustBeValid()

	buf := &Buffer{
		name:   name,
		source: b.source,
		queue: queueing.QueueBuilder[piece.Piece]{}.
			WithCapacity(QueueCapacity).
			Build(name + ".Queue"),
		reserve: queueing.StackBuilder[piece.Piece]{}.
			WithCapacity(ReserveCapacity).
			Build(name + ".Reserve"),
	}
	buf.hookTurn = sync.NewCond(&buf.hookLock)

	return buf
}

// Build creates a buffer whose queue is filled with QueueCapacity pieces from
// the source, in generation order, and whose reserve is empty.
func (b Builder) Build(name string) *Buffer {
	buf := b.build(name)

	for !buf.queue.IsFull() {
		mustSucceed(buf.queue.Enqueue(buf.source.Generate()))
	}

	return buf
}

// BuildFromState creates a buffer holding the pieces of a snapshot. The
// source is expected to continue after the snapshot's NextID. A seekable
// source is moved to the snapshot's SourcePos.
func (b Builder) BuildFromState(name string, s State) (*Buffer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	buf := b.build(name)

	if seeker, ok := buf.source.(piece.SeekableSource); ok {
		seeker.Seek(s.SourcePos)
	}

	for _, p := range s.Queue {
		mustSucceed(buf.queue.Enqueue(p))
	}

	for i := len(s.Reserve) - 1; i >= 0; i-- {
		mustSucceed(buf.reserve.Push(s.Reserve[i]))
	}

	return buf, nil
}

// A Buffer owns the queue of upcoming pieces and the reserve. All methods are
// safe for concurrent use; operations are serialized.
type Buffer struct {
	hooking.HookableBase

	lock    sync.Mutex
	name    string
	source  piece.Source
	queue   *queueing.Queue[piece.Piece]
	reserve *queueing.Stack[piece.Piece]

	// Operations take a ticket under lock and report to hooks in ticket
	// order, after lock is released.
	hookLock   sync.Mutex
	hookTurn   *sync.Cond
	nextTicket uint64
	dispatched uint64
}

// A Failure is the detail of a rejected operation: the error and the
// unchanged state of the buffer.
type Failure struct {
	Err   error
	State State
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Name returns the name of the buffer.
func (b *Buffer) Name() string {
	return b.name
}

// QueueContainer exposes the queue for monitoring and hook registration.
func (b *Buffer) QueueContainer() queueing.Container {
	return b.queue
}

// ReserveContainer exposes the reserve for monitoring and hook registration.
func (b *Buffer) ReserveContainer() queueing.Container {
	return b.reserve
}

// QueuePieces returns the queued pieces, front to back.
func (b *Buffer) QueuePieces() []piece.Piece {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.queue.Elements()
}

// ReservePieces returns the reserved pieces, top to bottom.
func (b *Buffer) ReservePieces() []piece.Piece {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.reserve.Elements()
}

// QueueSize returns the number of queued pieces.
func (b *Buffer) QueueSize() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.queue.Size()
}

// ReserveSize returns the number of reserved pieces.
func (b *Buffer) ReserveSize() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.reserve.Size()
}

// PeekQueue returns the piece offset positions behind the queue front.
func (b *Buffer) PeekQueue(offset int) (piece.Piece, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.queue.PeekAt(offset)
}

// PeekReserve returns the piece offset positions below the reserve top.
func (b *Buffer) PeekReserve(offset int) (piece.Piece, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.reserve.PeekAt(offset)
}

// Snapshot captures the current contents of the buffer.
func (b *Buffer) Snapshot() State {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.snapshot()
}

func (b *Buffer) snapshot() State {
	s := State{
		Queue:   b.queue.Elements(),
		Reserve: b.reserve.Elements(),
	}

	if r, ok := b.source.(piece.ResumableSource); ok {
		s.NextID = r.NextID()
	}

	if r, ok := b.source.(piece.SeekableSource); ok {
		s.SourcePos = r.Position()
	}

	return s
}

func mustSucceed(err error) {
	if err != nil {
		log.Panic(err)
	}
}
