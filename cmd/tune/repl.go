package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"tunelang/interpreter-go/pkg/driver"
	"tunelang/interpreter-go/pkg/parser"
)

const (
	historyFile    = ".tune_history"
	promptContinue = "...   "
	banner         = "tune REPL. Type :quit or press Ctrl+D to exit."
)

// lineEditor is the part of *liner.State the REPL relies on.
type lineEditor interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// editorReader answers read expressions from the REPL's own line editor so
// history and editing keep working inside programs.
type editorReader struct {
	editor lineEditor
}

func (r editorReader) ReadLine(prompt string) (string, error) {
	return r.editor.Prompt(prompt)
}

func newReplCommand(opts *options, std streams) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(opts, std.err)
			if err != nil {
				return err
			}

			state := liner.NewLiner()
			defer state.Close()
			state.SetCtrlCAborts(true)

			histPath := cfg.History
			if histPath == "" {
				if home, err := os.UserHomeDir(); err == nil {
					histPath = filepath.Join(home, historyFile)
				}
			}
			if histPath != "" {
				if f, err := os.Open(histPath); err == nil {
					_, _ = state.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(histPath); err == nil {
						_, _ = state.WriteHistory(f)
						_ = f.Close()
					} else {
						logger.Warn("history not saved", "path", histPath, "error", err)
					}
				}()
			}

			fmt.Fprintln(std.out, banner)
			session := driver.NewSession(cfg, std.out, editorReader{editor: state}, logger)
			repl(state, session, cfg.Prompt, std.out)
			return nil
		},
	}
}

// repl evaluates one program per entry until end of input. Failures are
// reported and the loop continues.
func repl(editor lineEditor, session *driver.Session, prompt string, out io.Writer) {
	for {
		src, ok := readProgram(editor, prompt)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		trimmed := strings.TrimSpace(src)
		switch trimmed {
		case "":
			continue
		case ":quit", ":q":
			return
		}
		editor.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))

		expr, err := parser.ParseString(src)
		if err != nil {
			fmt.Fprintf(out, "ERROR: %v\n", err)
			continue
		}
		if _, err := session.Run(expr); err != nil {
			fmt.Fprintf(out, "ERROR: %v\n", err)
		}
	}
}

// readProgram collects lines until they parse or fail somewhere other than
// the end of input. The bool is false once the editor is exhausted.
func readProgram(editor lineEditor, prompt string) (string, bool) {
	var b strings.Builder
	for {
		current := prompt
		if b.Len() > 0 {
			current = promptContinue
		}
		line, err := editor.Prompt(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.ParseString(src); err != nil && parser.Incomplete([]byte(src)) {
			continue
		}
		return src, true
	}
}
