package buffer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/piecebuf/piecebuf/piece"
)

// State is a serializable snapshot of a buffer.
type State struct {
	// Queue lists the queued pieces, front to back.
	Queue []piece.Piece `json:"queue"`

	// Reserve lists the reserved pieces, top to bottom.
	Reserve []piece.Piece `json:"reserve"`

	// NextID is the id the source will give to its next piece.
	NextID uint64 `json:"next_id"`

	// SourcePos is where a shape-cycling source stands in its cycle. Random
	// sources leave it at 0.
	SourcePos int `json:"source_pos,omitempty"`
}

// Validate checks that the snapshot could have been taken from a buffer.
func (s State) Validate() error {
	if len(s.Queue) != QueueCapacity {
		return fmt.Errorf("%w: queue holds %d pieces, want %d",
			ErrInvalidState, len(s.Queue), QueueCapacity)
	}

	if len(s.Reserve) > ReserveCapacity {
		return fmt.Errorf("%w: reserve holds %d pieces, at most %d allowed",
			ErrInvalidState, len(s.Reserve), ReserveCapacity)
	}

	if s.SourcePos < 0 {
		return fmt.Errorf("%w: negative source position %d",
			ErrInvalidState, s.SourcePos)
	}

	seen := make(map[uint64]bool, len(s.Queue)+len(s.Reserve))
	for _, group := range [][]piece.Piece{s.Queue, s.Reserve} {
		for _, p := range group {
			if !p.Kind.Valid() {
				return fmt.Errorf("%w: piece %d has no valid kind",
					ErrInvalidState, p.ID)
			}

			if seen[p.ID] {
				return fmt.Errorf("%w: piece id %d appears twice",
					ErrInvalidState, p.ID)
			}

			if p.ID >= s.NextID {
				return fmt.Errorf("%w: piece id %d is not below next id %d",
					ErrInvalidState, p.ID, s.NextID)
			}

			seen[p.ID] = true
		}
	}

	return nil
}

// WriteState encodes a snapshot as JSON.
func WriteState(w io.Writer, s State) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	return encoder.Encode(s)
}

// ReadState decodes and validates a JSON snapshot.
func ReadState(r io.Reader) (State, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var s State
	if err := decoder.Decode(&s); err != nil {
		return State{}, err
	}

	if err := s.Validate(); err != nil {
		return State{}, err
	}

	return s, nil
}
