package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagEnvFile     = "env-file"
	flagSeed        = "seed"
	flagCyclic      = "cyclic"
	flagRecord      = "record"
	flagMonitorPort = "monitor-port"
	flagOpenBrowser = "open-browser"
	flagState       = "state"
	flagVerbose     = "verbose"
)

const envPrefix = "PIECEBUF_"

// sessionOptions collects everything a session is configured with.
type sessionOptions struct {
	seed        int64
	cyclic      bool
	record      string
	monitorPort int
	openBrowser bool
	stateFile   string
	verbose     bool
}

func addSessionFlags(c *cobra.Command) {
	f := c.Flags()
	f.Int64(flagSeed, 0, "Random seed for new pieces, 0 picks one from the clock")
	f.Bool(flagCyclic, false, "Generate pieces in the fixed order I, O, T, L")
	f.String(flagRecord, "", "Record operations into <name>.sqlite3")
	f.Int(flagMonitorPort, 0,
		"Serve the monitoring API on this port; 0 disables, below 1000 picks a random port")
	f.Bool(flagOpenBrowser, false, "Open the monitoring URL in a browser")
	f.String(flagState, "", "Resume from and save to this state file")
	f.Bool(flagVerbose, false, "Log every container change to stderr")
}

// envName maps a flag name to its environment variable.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// loadEnvironment reads the env file, then lets PIECEBUF_* variables fill in
// flags that were not given on the command line.
func loadEnvironment(c *cobra.Command, _ []string) error {
	envFile, err := c.Flags().GetString(flagEnvFile)
	if err != nil {
		return err
	}

	if envFile != "" {
		err = godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	return applyEnv(c.Flags())
}

func applyEnv(flags *pflag.FlagSet) error {
	var firstErr error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == flagEnvFile || firstErr != nil {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		if err := flags.Set(f.Name, value); err != nil {
			firstErr = fmt.Errorf("%s: %w", envName(f.Name), err)
		}
	})

	return firstErr
}

func optionsFromFlags(flags *pflag.FlagSet) (opts sessionOptions, err error) {
	if opts.seed, err = flags.GetInt64(flagSeed); err != nil {
		return opts, err
	}

	if opts.cyclic, err = flags.GetBool(flagCyclic); err != nil {
		return opts, err
	}

	if opts.record, err = flags.GetString(flagRecord); err != nil {
		return opts, err
	}

	if opts.monitorPort, err = flags.GetInt(flagMonitorPort); err != nil {
		return opts, err
	}

	if opts.openBrowser, err = flags.GetBool(flagOpenBrowser); err != nil {
		return opts, err
	}

	if opts.stateFile, err = flags.GetString(flagState); err != nil {
		return opts, err
	}

	if opts.verbose, err = flags.GetBool(flagVerbose); err != nil {
		return opts, err
	}

	if opts.openBrowser && opts.monitorPort == 0 {
		return opts, errors.New("--open-browser needs --monitor-port")
	}

	return opts, nil
}
