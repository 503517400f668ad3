package score

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"tunelang/interpreter-go/pkg/runtime"
)

// DefaultOutput is the file written when no path is configured.
const DefaultOutput = "answer.midi"

// FileRenderer writes each rendered value to Path, replacing the previous
// file, and optionally hands the file to an external player.
type FileRenderer struct {
	Path   string
	Tempo  float64
	Player []string
	Logger *slog.Logger

	// Written counts successful renders.
	Written int
}

// Render compiles value and writes it as a MIDI file.
func (r *FileRenderer) Render(value runtime.Value, defaultInstrument int) error {
	sc, err := Compile(value, defaultInstrument)
	if err != nil {
		return err
	}
	path := r.Path
	if path == "" {
		path = DefaultOutput
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("score: create %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("score: create %s: %w", path, err)
	}
	buf := bufio.NewWriter(file)
	if err := WriteMIDI(buf, sc, r.Tempo); err != nil {
		file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("score: write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("score: close %s: %w", path, err)
	}
	r.Written++
	r.logger().Info("score written", "path", path, "parts", len(sc.Parts), "beats", sc.Length())
	return r.play(path)
}

func (r *FileRenderer) play(path string) error {
	if len(r.Player) == 0 {
		return nil
	}
	args := append(append([]string(nil), r.Player[1:]...), path)
	cmd := exec.Command(r.Player[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("score: start player %s: %w", r.Player[0], err)
	}
	r.logger().Debug("player started", "command", r.Player[0], "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			r.logger().Warn("player exited", "command", r.Player[0], "error", err)
		}
	}()
	return nil
}

func (r *FileRenderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
