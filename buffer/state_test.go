package buffer

import (
	"bytes"
	"strings"

	"github.com/piecebuf/piecebuf/piece"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	var buf *Buffer

	BeforeEach(func() {
		buf = Builder{}.
			WithSource(piece.NewCyclicSource(nil, nil)).
			Build("Buffer")
		_, _ = buf.Reserve()
		_, _ = buf.Reserve()
		_, _ = buf.Play()
	})

	It("should capture both containers and the next id", func() {
		s := buf.Snapshot()

		Expect(ids(s.Queue)).To(Equal([]uint64{3, 4, 5, 6, 7}))
		Expect(ids(s.Reserve)).To(Equal([]uint64{1, 0}))
		Expect(s.NextID).To(Equal(uint64(8)))
	})

	It("should round-trip through JSON and resume", func() {
		out := &bytes.Buffer{}
		Expect(WriteState(out, buf.Snapshot())).To(Succeed())

		s, err := ReadState(out)
		Expect(err).NotTo(HaveOccurred())

		src := piece.NewCyclicSource(nil, piece.NewSequentialIDGenerator(s.NextID))
		restored, err := Builder{}.WithSource(src).BuildFromState("Buffer", s)
		Expect(err).NotTo(HaveOccurred())

		Expect(restored.QueuePieces()).To(Equal(buf.QueuePieces()))
		Expect(restored.ReservePieces()).To(Equal(buf.ReservePieces()))

		res, err := restored.Play()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Generated[0].ID).To(Equal(uint64(8)))
	})

	It("should keep the shape cycle across a resume", func() {
		s := buf.Snapshot()
		Expect(s.SourcePos).To(Equal(0))

		_, _ = buf.Play()
		s = buf.Snapshot()
		Expect(s.SourcePos).To(Equal(1))

		src := piece.NewCyclicSource(nil, piece.NewSequentialIDGenerator(s.NextID))
		restored, err := Builder{}.WithSource(src).BuildFromState("Buffer", s)
		Expect(err).NotTo(HaveOccurred())

		want, err := buf.Play()
		Expect(err).NotTo(HaveOccurred())
		got, err := restored.Play()
		Expect(err).NotTo(HaveOccurred())

		Expect(got.Generated).To(Equal(want.Generated))
		Expect(got.Generated[0].Kind).To(Equal(piece.KindO))
	})

	It("should reject a negative source position", func() {
		s := buf.Snapshot()
		s.SourcePos = -1

		Expect(s.Validate()).To(MatchError(ErrInvalidState))
	})

	It("should reject a short queue", func() {
		s := buf.Snapshot()
		s.Queue = s.Queue[:4]

		_, err := Builder{}.
			WithSource(piece.NewCyclicSource(nil, nil)).
			BuildFromState("Buffer", s)

		Expect(err).To(MatchError(ErrInvalidState))
	})

	It("should reject duplicated ids", func() {
		s := buf.Snapshot()
		s.Reserve = append(s.Reserve, s.Queue[0])

		Expect(s.Validate()).To(MatchError(ErrInvalidState))
	})

	It("should reject ids at or past the next id", func() {
		s := buf.Snapshot()
		s.NextID = 7

		Expect(s.Validate()).To(MatchError(ErrInvalidState))
	})

	It("should reject unknown fields", func() {
		_, err := ReadState(strings.NewReader(`{"queue":[],"extra":1}`))

		Expect(err).To(HaveOccurred())
	})
})
