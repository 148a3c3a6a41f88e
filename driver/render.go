package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/piecebuf/piecebuf/queueing"
)

const rule = "========================================"

func (d *Driver) printBanner() {
	fmt.Fprintln(d.out, rule)
	fmt.Fprintln(d.out, "  PIECE MANAGER")
	fmt.Fprintln(d.out, "  Circular queue + reserve stack")
	fmt.Fprintln(d.out, rule)
}

func (d *Driver) printState() {
	s := d.buf.Snapshot()

	fmt.Fprintf(d.out, "\n%s\nCurrent state:\n%s\n", rule, rule)
	fmt.Fprintf(d.out, "Piece queue\t%s\n", formatPieces(s.Queue))
	fmt.Fprintf(d.out, "Reserve stack\t(top -> base): %s\n", formatPieces(s.Reserve))
	fmt.Fprintln(d.out, rule)
}

func (d *Driver) printMenu() {
	fmt.Fprintf(d.out, "\n%s\nAvailable options:\n%s\n", rule, rule)
	fmt.Fprintln(d.out, "1 - Play the piece at the front of the queue")
	fmt.Fprintln(d.out, "2 - Send the front piece to the reserve")
	fmt.Fprintln(d.out, "3 - Use the reserved piece")
	fmt.Fprintln(d.out, "4 - Swap the front piece with the top of the reserve")
	fmt.Fprintln(d.out, "5 - Swap the first 3 queued pieces with the 3 reserved pieces")
	fmt.Fprintln(d.out, "0 - Exit")
	fmt.Fprintln(d.out, rule)
	fmt.Fprint(d.out, "Option: ")
}

func (d *Driver) printFarewell() {
	fmt.Fprintln(d.out, "\nShutting down...")
	fmt.Fprintln(d.out, "Thanks for using the piece manager!")
}

func (d *Driver) printResult(res buffer.Result) {
	switch res.Op {
	case buffer.OpPlay:
		fmt.Fprintf(d.out,
			"\n>>> Action: piece %s was played and removed from the game!\n",
			res.Discarded[0])
		d.printGenerated(res)
	case buffer.OpReserve:
		fmt.Fprintf(d.out, "\n>>> Action: piece %s sent to the reserve!\n",
			res.Reserved[0])
		d.printGenerated(res)
	case buffer.OpUseReserved:
		fmt.Fprintf(d.out,
			"\n>>> Action: reserved piece %s was used and removed from the game!\n",
			res.Discarded[0])
	case buffer.OpSwapTop:
		fmt.Fprintf(d.out,
			"\n>>> Action: piece %s from the queue swapped with piece %s from the reserve!\n",
			res.FromQueue[0], res.FromReserve[0])
	case buffer.OpSwapTriple:
		fmt.Fprintf(d.out,
			"\n>>> Action: swapped the first %d queued pieces with the %d reserved pieces.\n",
			len(res.FromQueue), len(res.FromReserve))
	}
}

func (d *Driver) printGenerated(res buffer.Result) {
	for _, p := range res.Generated {
		fmt.Fprintf(d.out,
			">>> New piece %s generated automatically to keep the queue full.\n", p)
	}
}

// describeError turns an operation error into a sentence for the player.
func (d *Driver) describeError(op buffer.Op, err error) string {
	if errors.Is(err, buffer.ErrSizeMismatch) {
		if d.buf.QueueSize() < 3 {
			return "The queue needs at least 3 pieces!"
		}

		return "The reserve needs exactly 3 pieces!"
	}

	var cerr *queueing.ContainerError
	if !errors.As(err, &cerr) {
		return err.Error()
	}

	what := "The queue"
	capacity := d.buf.QueueContainer().Capacity()
	if cerr.Container == d.buf.ReserveContainer().Name() {
		what = "The reserve"
		capacity = d.buf.ReserveContainer().Capacity()
	}

	switch {
	case errors.Is(err, queueing.ErrEmpty):
		return what + " is empty!"
	case errors.Is(err, queueing.ErrFull):
		return fmt.Sprintf("%s is full! (maximum capacity: %d pieces)",
			what, capacity)
	default:
		return fmt.Sprintf("%v failed: %v", op, err)
	}
}

func formatPieces(pieces []piece.Piece) string {
	if len(pieces) == 0 {
		return "[empty]"
	}

	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = p.String()
	}

	return strings.Join(parts, " ")
}
