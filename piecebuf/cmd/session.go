package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/datarecording"
	"github.com/piecebuf/piecebuf/driver"
	"github.com/piecebuf/piecebuf/hooking"
	"github.com/piecebuf/piecebuf/monitoring"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const bufferName = "Buffer"

func runSession(c *cobra.Command, _ []string) error {
	opts, err := optionsFromFlags(c.Flags())
	if err != nil {
		return err
	}

	buf, err := buildBuffer(opts)
	if err != nil {
		return err
	}

	if opts.verbose {
		attachLogHook(buf)
	}

	if opts.record != "" {
		w, err := datarecording.Create(opts.record)
		if err != nil {
			return err
		}
		defer w.Close()

		buf.AcceptHook(datarecording.NewOperationRecorder(w, ""))
	}

	if opts.monitorPort != 0 {
		m, err := startMonitor(buf, opts)
		if err != nil {
			return err
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			_ = m.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
	defer stop()

	err = driver.New(buf, c.InOrStdin(), c.OutOrStdout()).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if opts.stateFile != "" {
		return saveState(opts.stateFile, buf)
	}

	return nil
}

// buildBuffer resumes from the state file when it exists, otherwise starts a
// fresh buffer.
func buildBuffer(opts sessionOptions) (*buffer.Buffer, error) {
	state, found, err := loadState(opts.stateFile)
	if err != nil {
		return nil, err
	}

	ids := piece.NewSequentialIDGenerator(state.NextID)
	builder := buffer.Builder{}.WithSource(buildSource(opts, ids))

	if !found {
		return builder.Build(bufferName), nil
	}

	return builder.BuildFromState(bufferName, state)
}

func buildSource(opts sessionOptions, ids piece.IDGenerator) piece.Source {
	if opts.cyclic {
		return piece.NewCyclicSource(nil, ids)
	}

	b := piece.MakeRandomSourceBuilder().WithIDGenerator(ids)
	if opts.seed != 0 {
		b = b.WithSeed(opts.seed)
	}

	return b.Build()
}

func loadState(path string) (buffer.State, bool, error) {
	if path == "" {
		return buffer.State{}, false, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return buffer.State{}, false, nil
	}

	if err != nil {
		return buffer.State{}, false, err
	}
	defer f.Close()

	state, err := buffer.ReadState(f)
	if err != nil {
		return buffer.State{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	return state, true, nil
}

func saveState(path string, buf *buffer.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = buffer.WriteState(f, buf.Snapshot())
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return err
}

func attachLogHook(buf *buffer.Buffer) {
	hook := hooking.NewLogHook(log.New(os.Stderr, "", log.LstdFlags))

	buf.QueueContainer().AcceptHook(hook)
	buf.ReserveContainer().AcceptHook(hook)
	buf.AcceptHook(hook)
}

func startMonitor(
	buf *buffer.Buffer,
	opts sessionOptions,
) (*monitoring.Monitor, error) {
	m := monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
	m.RegisterBuffer(buf)

	url, err := m.StartServer()
	if err != nil {
		return nil, err
	}

	if opts.openBrowser {
		if err := browser.OpenURL(url + "/api/state"); err != nil {
			log.Printf("could not open browser: %v", err)
		}
	}

	return m, nil
}
