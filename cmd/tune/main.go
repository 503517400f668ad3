package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/driver"
	"tunelang/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "tune-cli 0.1.0-dev"

// exitCode carries a process status out of a command without printing.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

type options struct {
	configPath string
	output     string
	tempo      float64
	instrument int
	verbose    bool
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return execute(args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func execute(args []string, std streams) int {
	root := newRootCommand(std)
	root.SetArgs(args)
	err := root.Execute()
	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintln(std.err, err)
		return 1
	}
}

func newRootCommand(std streams) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "tune",
		Short:         "Evaluate tune programs",
		Long:          `Evaluate programs in the tune expression language and write the music they describe as MIDI files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(std.in)
	root.SetOut(std.out)
	root.SetErr(std.err)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to tune.yml (default: nearest tune.yml above the working directory)")
	flags.StringVarP(&opts.output, "output", "o", "", "MIDI file written for tune and track results")
	flags.Float64Var(&opts.tempo, "tempo", 0, "beats per minute; one beat is one second of note duration at 60")
	flags.IntVar(&opts.instrument, "instrument", 0, "default instrument (1 - 128)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newRunCommand(opts, std),
		newReplCommand(opts, std),
		newParseCommand(std),
		newVersionCommand(std),
	)
	return root
}

func newRunCommand(opts *options, std streams) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program file",
		Long:  `Run a .tune source file or a .json/.yml expression tree and print its result.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(opts, std.err)
			if err != nil {
				return err
			}
			session := driver.NewSession(cfg, std.out, interpreter.NewStreamReader(std.in, std.out), logger)
			if _, err := session.RunFile(args[0]); err != nil {
				fmt.Fprintf(std.err, "ERROR: %v\n", err)
				return exitCode(1)
			}
			return nil
		},
	}
}

func newParseCommand(std streams) *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the expression tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := driver.LoadProgram(args[0])
			if err != nil {
				fmt.Fprintf(std.err, "ERROR: %v\n", err)
				return exitCode(1)
			}
			if source {
				fmt.Fprintln(std.out, ast.Format(expr))
				return nil
			}
			return driver.WriteTree(std.out, expr)
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "print surface syntax instead of JSON")
	return cmd
}

func newVersionCommand(std streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(std.out, cliToolVersion)
		},
	}
}

// loadSettings resolves tune.yml and applies flag overrides.
func loadSettings(opts *options, stderr io.Writer) (*driver.Config, *slog.Logger, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := driver.ResolveConfig(opts.configPath, ".")
	if err != nil {
		return nil, nil, err
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.tempo != 0 {
		cfg.Tempo = opts.tempo
	}
	if opts.instrument != 0 {
		cfg.Instrument = opts.instrument
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}
	return cfg, logger, nil
}
