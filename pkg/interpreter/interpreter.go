package interpreter

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

// ReadPrompt is shown when a program reads an integer.
const ReadPrompt = "Enter an integer >> "

// LineReader supplies one line of text per call, without the trailing newline.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScoreRenderer turns note, tune and track values into a playable artifact.
// defaultInstrument is zero-based and applies to values that carry none.
type ScoreRenderer interface {
	Render(value runtime.Value, defaultInstrument int) error
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects show output for integers and booleans.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithInput replaces the reader consulted by read expressions.
func WithInput(r LineReader) Option {
	return func(i *Interpreter) {
		if r != nil {
			i.in = r
		}
	}
}

// WithRenderer installs the collaborator that receives shown music values.
func WithRenderer(r ScoreRenderer) Option {
	return func(i *Interpreter) {
		i.renderer = r
	}
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithMaxDepth bounds the number of nested function applications. Zero
// disables the limit.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) {
		if n >= 0 {
			i.maxDepth = n
		}
	}
}

// WithDefaultInstrument sets the 1-based instrument used by repeat on a bare
// note and handed to the renderer by show.
func WithDefaultInstrument(n int) Option {
	return func(i *Interpreter) {
		if n >= runtime.MinInstrument && n <= runtime.MaxInstrument {
			i.defaultInstrument = n - 1
		}
	}
}

// Interpreter evaluates expression trees. It is not safe for concurrent use.
type Interpreter struct {
	out               io.Writer
	in                LineReader
	renderer          ScoreRenderer
	logger            *slog.Logger
	maxDepth          int
	depth             int
	defaultInstrument int
}

// New returns an interpreter wired to stdin and stdout.
func New(options ...Option) *Interpreter {
	i := &Interpreter{
		out:               os.Stdout,
		in:                NewStreamReader(os.Stdin, os.Stdout),
		logger:            slog.New(slog.DiscardHandler),
		defaultInstrument: runtime.DefaultInstrument - 1,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Evaluate runs expr in an empty environment.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.EvaluateIn(runtime.NewEnvironment(), expr)
}

// EvaluateIn runs expr against env. A failure aborts the whole evaluation.
func (i *Interpreter) EvaluateIn(env *runtime.Environment, expr ast.Expression) (runtime.Value, error) {
	if env == nil {
		env = runtime.NewEnvironment()
	}
	i.depth = 0
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		i.logger.Debug("evaluation failed", "error", err)
		return nil, err
	}
	return val, nil
}

// StreamReader reads lines from a plain stream, echoing prompts to w.
type StreamReader struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewStreamReader wraps r. Prompts are written to w when it is non-nil.
func NewStreamReader(r io.Reader, w io.Writer) *StreamReader {
	return &StreamReader{scanner: bufio.NewScanner(r), prompt: w}
}

func (s *StreamReader) ReadLine(prompt string) (string, error) {
	if s.prompt != nil && prompt != "" {
		_, _ = io.WriteString(s.prompt, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(s.scanner.Text(), "\r"), nil
}
