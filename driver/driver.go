// Package driver runs the interactive console loop over a piece buffer.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/piecebuf/piecebuf/buffer"
)

// ExitCode is the menu code that ends the loop.
const ExitCode = "0"

// A Driver reads menu choices from in, runs them against the buffer and writes
// the outcome to out.
type Driver struct {
	buf *buffer.Buffer
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Driver.
func New(buf *buffer.Buffer, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		buf: buf,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run loops until the user picks the exit code, the input ends or ctx is
// done. Operation failures are printed and do not end the loop.
func (d *Driver) Run(ctx context.Context) error {
	d.printBanner()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.printState()
		d.printMenu()

		if !d.in.Scan() {
			fmt.Fprintln(d.out)
			return d.in.Err()
		}

		choice := strings.TrimSpace(d.in.Text())
		if choice == ExitCode {
			d.printFarewell()
			return nil
		}

		op, err := buffer.ParseOp(choice)
		if err != nil {
			fmt.Fprintln(d.out, "\nInvalid option! Try again.")
			continue
		}

		res, err := d.buf.Do(op)
		if err != nil {
			fmt.Fprintf(d.out, "\n>>> Error: %s\n", d.describeError(op, err))
			continue
		}

		d.printResult(res)
	}
}
