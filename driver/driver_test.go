package driver

import (
	"bytes"
	"context"
	"strings"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/piece"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Driver", func() {
	var (
		buf *buffer.Buffer
		out *bytes.Buffer
	)

	BeforeEach(func() {
		buf = buffer.Builder{}.
			WithSource(piece.NewCyclicSource(nil, nil)).
			Build("Buffer")
		out = &bytes.Buffer{}
	})

	run := func(input string) error {
		d := New(buf, strings.NewReader(input), out)
		return d.Run(context.Background())
	}

	It("should render the initial state and exit on 0", func() {
		Expect(run("0\n")).To(Succeed())

		Expect(out.String()).To(ContainSubstring(
			"Piece queue\t[I 0] [O 1] [T 2] [L 3] [I 4]"))
		Expect(out.String()).To(ContainSubstring(
			"Reserve stack\t(top -> base): [empty]"))
		Expect(out.String()).To(ContainSubstring("Thanks for using"))
	})

	It("should play and report the generated piece", func() {
		Expect(run("1\n0\n")).To(Succeed())

		Expect(out.String()).To(ContainSubstring(
			"piece [I 0] was played and removed from the game!"))
		Expect(out.String()).To(ContainSubstring(
			"New piece [O 5] generated automatically"))
		Expect(out.String()).To(ContainSubstring(
			"Piece queue\t[O 1] [T 2] [L 3] [I 4] [O 5]"))
	})

	It("should run the reserve-then-swap scenario", func() {
		Expect(run("2\n2\n2\n5\n0\n")).To(Succeed())

		Expect(out.String()).To(ContainSubstring(
			"(top -> base): [T 2] [O 1] [I 0]"))
		Expect(out.String()).To(ContainSubstring(
			"swapped the first 3 queued pieces with the 3 reserved pieces"))
		Expect(buf.QueuePieces()[0]).To(Equal(piece.Piece{Kind: piece.KindT, ID: 2}))
		Expect(buf.ReservePieces()[0]).To(Equal(piece.Piece{Kind: piece.KindL, ID: 3}))
	})

	It("should report errors and keep going", func() {
		Expect(run("3\n4\n5\n2\n2\n2\n2\n1\n0\n")).To(Succeed())

		text := out.String()
		Expect(text).To(ContainSubstring(">>> Error: The reserve is empty!"))
		Expect(text).To(ContainSubstring(">>> Error: The reserve needs exactly 3 pieces!"))
		Expect(text).To(ContainSubstring(
			">>> Error: The reserve is full! (maximum capacity: 3 pieces)"))
		Expect(text).To(ContainSubstring("was played and removed"))
	})

	It("should re-prompt on invalid options", func() {
		Expect(run("9\nabc\n\n0\n")).To(Succeed())

		Expect(strings.Count(out.String(), "Invalid option! Try again.")).To(Equal(3))
		Expect(buf.QueueSize()).To(Equal(buffer.QueueCapacity))
	})

	It("should stop at the end of input", func() {
		Expect(run("2\n")).To(Succeed())

		Expect(buf.ReserveSize()).To(Equal(1))
		Expect(out.String()).NotTo(ContainSubstring("Thanks for using"))
	})

	It("should stop when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d := New(buf, strings.NewReader("1\n"), out)

		Expect(d.Run(ctx)).To(MatchError(context.Canceled))
		Expect(buf.QueuePieces()[0].ID).To(Equal(uint64(0)))
	})
})
