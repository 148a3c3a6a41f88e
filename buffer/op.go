package buffer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piecebuf/piecebuf/piece"
)

// Op identifies one of the transfer operations. The numeric values are the
// command codes the console driver accepts.
type Op int

// The transfer operations.
const (
	OpPlay Op = iota + 1
	OpReserve
	OpUseReserved
	OpSwapTop
	OpSwapTriple
)

// AllOps lists the operations in command-code order.
var AllOps = []Op{OpPlay, OpReserve, OpUseReserved, OpSwapTop, OpSwapTriple}

var opNames = map[Op]string{
	OpPlay:        "play",
	OpReserve:     "reserve",
	OpUseReserved: "use",
	OpSwapTop:     "swap",
	OpSwapTriple:  "swap3",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}

	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Valid reports whether o is a known operation.
func (o Op) Valid() bool {
	_, ok := opNames[o]
	return ok
}

// ParseOp accepts an operation name or its command code.
func ParseOp(s string) (Op, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if code, err := strconv.Atoi(s); err == nil {
		if Op(code).Valid() {
			return Op(code), nil
		}

		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}

	for op, name := range opNames {
		if name == s {
			return op, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

// A Result describes what an operation did.
type Result struct {
	Op Op `json:"op"`

	// Discarded holds pieces that left the system.
	Discarded []piece.Piece `json:"discarded,omitempty"`

	// Reserved holds pieces moved from the queue onto the reserve.
	Reserved []piece.Piece `json:"reserved,omitempty"`

	// Generated holds pieces created to refill the queue.
	Generated []piece.Piece `json:"generated,omitempty"`

	// FromQueue and FromReserve hold exchanged pieces, in queue order and in
	// top-to-bottom reserve order.
	FromQueue   []piece.Piece `json:"from_queue,omitempty"`
	FromReserve []piece.Piece `json:"from_reserve,omitempty"`
}

// MarshalText lets Op appear by name in JSON.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an operation name or code.
func (o *Op) UnmarshalText(text []byte) error {
	op, err := ParseOp(string(text))
	if err != nil {
		return err
	}

	*o = op

	return nil
}
