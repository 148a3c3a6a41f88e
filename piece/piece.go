// Package piece defines the game pieces handled by the buffer and the sources
// that create them.
package piece

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the shape of a piece.
type Kind byte

// The shapes a source can produce.
const (
	KindI Kind = 'I'
	KindO Kind = 'O'
	KindT Kind = 'T'
	KindL Kind = 'L'
)

// AllKinds lists every shape in the order cyclic sources use.
var AllKinds = []Kind{KindI, KindO, KindT, KindL}

func (k Kind) String() string {
	return string(rune(k))
}

// Valid reports whether k is one of the known shapes.
func (k Kind) Valid() bool {
	switch k {
	case KindI, KindO, KindT, KindL:
		return true
	default:
		return false
	}
}

// ParseKind converts a one-letter shape name into a Kind.
func ParseKind(s string) (Kind, error) {
	if len(s) != 1 || !Kind(s[0]).Valid() {
		return 0, fmt.Errorf("unknown piece kind %q", s)
	}

	return Kind(s[0]), nil
}

// MarshalJSON encodes the kind as its letter.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind letter.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// A Piece is an immutable shape with a unique id.
type Piece struct {
	Kind Kind   `json:"kind"`
	ID   uint64 `json:"id"`
}

// String renders the piece as "[K id]".
func (p Piece) String() string {
	return "[" + p.Kind.String() + " " + strconv.FormatUint(p.ID, 10) + "]"
}
