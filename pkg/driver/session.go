package driver

import (
	"fmt"
	"io"
	"log/slog"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/interpreter"
	"tunelang/interpreter-go/pkg/runtime"
	"tunelang/interpreter-go/pkg/score"
)

// Session runs whole programs against one configuration. Each run starts from
// an empty environment; the score file is shared and overwritten.
type Session struct {
	Config *Config

	out      io.Writer
	logger   *slog.Logger
	renderer *score.FileRenderer
	interp   *interpreter.Interpreter
}

// NewSession wires an interpreter to out and in using cfg. A nil cfg means
// DefaultConfig and a nil logger discards.
func NewSession(cfg *Config, out io.Writer, in interpreter.LineReader, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	renderer := &score.FileRenderer{
		Path:   cfg.Output,
		Tempo:  cfg.Tempo,
		Player: cfg.Player,
		Logger: logger,
	}
	interp := interpreter.New(
		interpreter.WithOutput(out),
		interpreter.WithInput(in),
		interpreter.WithRenderer(renderer),
		interpreter.WithLogger(logger),
		interpreter.WithMaxDepth(cfg.MaxDepth),
		interpreter.WithDefaultInstrument(cfg.Instrument),
	)
	return &Session{Config: cfg, out: out, logger: logger, renderer: renderer, interp: interp}
}

// Run evaluates expr and reports the result. Tunes and tracks are also
// written to the configured score file.
func (s *Session) Run(expr ast.Expression) (runtime.Value, error) {
	val, err := s.interp.Evaluate(expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "Result: %s\n", val)
	switch val.Kind() {
	case runtime.KindTune, runtime.KindTrack:
		if err := s.renderer.Render(val, s.Config.Instrument-1); err != nil {
			return val, fmt.Errorf("render result: %w", err)
		}
		fmt.Fprintf(s.out, "MIDI saved as %s\n", s.renderer.Path)
	}
	return val, nil
}

// RunFile loads and runs the program at path.
func (s *Session) RunFile(path string) (runtime.Value, error) {
	expr, err := LoadProgram(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("program loaded", "path", path)
	return s.Run(expr)
}

// Rendered reports how many score files this session has written.
func (s *Session) Rendered() int {
	return s.renderer.Written
}
