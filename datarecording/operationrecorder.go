package datarecording

import (
	"log"
	"strings"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/hooking"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/rs/xid"
)

// OperationTable is the table operation entries are written to.
const OperationTable = "operation"

// OperationEntry is one row of the operation log. Piece lists are stored in
// their rendered form, e.g. "[I 0] [O 1]".
type OperationEntry struct {
	Session   string
	Seq       int
	Op        string
	Success   bool
	Error     string
	Discarded string
	Reserved  string
	Generated string
	Queue     string
	Reserve   string
}

// An OperationRecorder is a buffer hook that writes one OperationEntry for
// every operation, whether it succeeded or not.
type OperationRecorder struct {
	writer  *Writer
	session string
	seq     int
}

// NewOperationRecorder returns a recorder writing through w. An empty
// session gets a generated id.
func NewOperationRecorder(w *Writer, session string) *OperationRecorder {
	if session == "" {
		session = xid.New().String()
	}

	return &OperationRecorder{
		writer:  w,
		session: session,
	}
}

// Session returns the session id written with every entry.
func (r *OperationRecorder) Session() string {
	return r.session
}

// Func records the operation reported by the buffer.
func (r *OperationRecorder) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case buffer.HookPosOperation:
		r.recordSuccess(ctx)
	case buffer.HookPosOperationFailed:
		r.recordFailure(ctx)
	}
}

func (r *OperationRecorder) recordSuccess(ctx hooking.HookCtx) {
	res := ctx.Item.(buffer.Result)
	state, _ := ctx.Detail.(buffer.State)

	r.insert(OperationEntry{
		Op:        res.Op.String(),
		Success:   true,
		Discarded: formatPieces(res.Discarded),
		Reserved:  formatPieces(res.Reserved),
		Generated: formatPieces(res.Generated),
		Queue:     formatPieces(state.Queue),
		Reserve:   formatPieces(state.Reserve),
	})
}

func (r *OperationRecorder) recordFailure(ctx hooking.HookCtx) {
	op := ctx.Item.(buffer.Op)

	entry := OperationEntry{
		Op: op.String(),
	}

	if failure, ok := ctx.Detail.(*buffer.Failure); ok {
		entry.Error = failure.Error()
		entry.Queue = formatPieces(failure.State.Queue)
		entry.Reserve = formatPieces(failure.State.Reserve)
	}

	r.insert(entry)
}

func (r *OperationRecorder) insert(entry OperationEntry) {
	r.seq++
	entry.Session = r.session
	entry.Seq = r.seq

	if err := r.writer.Insert(entry); err != nil {
		log.Panicf("recording operation %d of session %s: %v",
			entry.Seq, r.session, err)
	}
}

func formatPieces(pieces []piece.Piece) string {
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = p.String()
	}

	return strings.Join(parts, " ")
}
