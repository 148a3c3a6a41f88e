package piece

import "sync/atomic"

// IDGenerator hands out piece ids.
type IDGenerator interface {
	// Generate returns the next id and advances the counter.
	Generate() uint64

	// Peek returns the id the next Generate call will return.
	Peek() uint64
}

// NewSequentialIDGenerator returns a generator whose first id is start.
func NewSequentialIDGenerator(start uint64) IDGenerator {
	return &sequentialIDGenerator{nextID: start}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() uint64 {
	return atomic.AddUint64(&g.nextID, 1) - 1
}

func (g *sequentialIDGenerator) Peek() uint64 {
	return atomic.LoadUint64(&g.nextID)
}
