package piece

import (
	"log"
	"math/rand"
	"time"
)

// A Source creates fresh pieces on demand.
type Source interface {
	Generate() Piece
}

// A ResumableSource can tell which id its next piece will carry, so that a
// saved session can continue the same sequence.
type ResumableSource interface {
	Source
	NextID() uint64
}

// A SeekableSource walks a fixed sequence of shapes and can be moved to a
// position in it.
type SeekableSource interface {
	Source
	Position() int
	Seek(pos int)
}

// RandomSourceBuilder builds sources that pick shapes uniformly at random.
type RandomSourceBuilder struct {
	seed  int64
	ids   IDGenerator
	kinds []Kind
}

// MakeRandomSourceBuilder creates a builder with a time-based seed, all
// shapes and a counter starting at 0.
func MakeRandomSourceBuilder() RandomSourceBuilder {
	return RandomSourceBuilder{
		seed:  time.Now().UnixNano(),
		kinds: AllKinds,
	}
}

// WithSeed fixes the random seed.
func (b RandomSourceBuilder) WithSeed(seed int64) RandomSourceBuilder {
	b.seed = seed
	return b
}

// WithIDGenerator sets the id counter the source draws from.
func (b RandomSourceBuilder) WithIDGenerator(ids IDGenerator) RandomSourceBuilder {
	b.ids = ids
	return b
}

// WithKinds restricts the shapes the source picks from.
func (b RandomSourceBuilder) WithKinds(kinds []Kind) RandomSourceBuilder {
	b.kinds = kinds
	return b
}

// Build creates the source.
func (b RandomSourceBuilder) Build() *RandomSource {
	mustHaveValidKinds(b.kinds)

	ids := b.ids
	if ids == nil {
		ids = NewSequentialIDGenerator(0)
	}

	return &RandomSource{
		rng:   rand.New(rand.NewSource(b.seed)),
		ids:   ids,
		kinds: append([]Kind(nil), b.kinds...),
	}
}

// RandomSource picks a shape uniformly at random for every piece.
type RandomSource struct {
	rng   *rand.Rand
	ids   IDGenerator
	kinds []Kind
}

// Generate creates a new piece.
func (s *RandomSource) Generate() Piece {
	return Piece{
		Kind: s.kinds[s.rng.Intn(len(s.kinds))],
		ID:   s.ids.Generate(),
	}
}

// NextID returns the id of the next piece.
func (s *RandomSource) NextID() uint64 {
	return s.ids.Peek()
}

// CyclicSource walks through its shapes in order, one per piece.
type CyclicSource struct {
	ids   IDGenerator
	kinds []Kind
	next  int
}

// NewCyclicSource creates a deterministic source. A nil kinds list means all
// shapes; a nil generator starts ids at 0.
func NewCyclicSource(kinds []Kind, ids IDGenerator) *CyclicSource {
	if kinds == nil {
		kinds = AllKinds
	}

	mustHaveValidKinds(kinds)

	if ids == nil {
		ids = NewSequentialIDGenerator(0)
	}

	return &CyclicSource{
		ids:   ids,
		kinds: append([]Kind(nil), kinds...),
	}
}

// Generate creates a new piece.
func (s *CyclicSource) Generate() Piece {
	p := Piece{
		Kind: s.kinds[s.next],
		ID:   s.ids.Generate(),
	}

	s.next = (s.next + 1) % len(s.kinds)

	return p
}

// NextID returns the id of the next piece.
func (s *CyclicSource) NextID() uint64 {
	return s.ids.Peek()
}

// Position returns the index of the shape the next piece will take.
func (s *CyclicSource) Position() int {
	return s.next
}

// Seek makes the next piece take the shape at pos, wrapping around the
// shape list.
func (s *CyclicSource) Seek(pos int) {
	n := len(s.kinds)
	s.next = ((pos % n) + n) % n
}

func mustHaveValidKinds(kinds []Kind) {
	if len(kinds) == 0 {
		log.Panic("a piece source needs at least one kind")
	}

	for _, k := range kinds {
		if !k.Valid() {
			log.Panicf("invalid piece kind %q", byte(k))
		}
	}
}
