package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tunelang/interpreter-go/pkg/runtime"
	"tunelang/interpreter-go/pkg/score"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "tune.yml"

// DefaultMaxDepth leaves nested function calls unbounded.
const DefaultMaxDepth = 0

// ErrConfigNotFound is returned by FindConfig when no tune.yml exists above
// the start directory.
var ErrConfigNotFound = errors.New("config not found")

// Config holds interpreter settings read from tune.yml.
type Config struct {
	Path       string
	Output     string
	Tempo      float64
	Instrument int
	Prompt     string
	History    string
	Player     []string
	MaxDepth   int
}

// DefaultConfig returns the settings used when no tune.yml is present.
func DefaultConfig() *Config {
	return &Config{
		Output:     score.DefaultOutput,
		Tempo:      score.DefaultTempo,
		Instrument: runtime.DefaultInstrument,
		Prompt:     "tune> ",
		MaxDepth:   DefaultMaxDepth,
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Output     *string    `yaml:"output"`
	Tempo      *float64   `yaml:"tempo"`
	Instrument *int       `yaml:"instrument"`
	Prompt     *string    `yaml:"prompt"`
	History    *string    `yaml:"history"`
	Player     stringList `yaml:"player"`
	MaxDepth   *int       `yaml:"max_depth"`
}

// LoadConfig parses tune.yml from disk. Unset keys keep their defaults and
// relative paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	dir := filepath.Dir(path)
	if f.Output != nil {
		cfg.Output = resolvePath(dir, *f.Output)
	}
	if f.Tempo != nil {
		cfg.Tempo = *f.Tempo
	}
	if f.Instrument != nil {
		cfg.Instrument = *f.Instrument
	}
	if f.Prompt != nil {
		cfg.Prompt = *f.Prompt
	}
	if f.History != nil {
		cfg.History = resolvePath(dir, *f.History)
	}
	if len(f.Player) > 0 {
		cfg.Player = append([]string(nil), f.Player...)
	}
	if f.MaxDepth != nil {
		cfg.MaxDepth = *f.MaxDepth
	}
	return cfg
}

func resolvePath(dir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if strings.TrimSpace(c.Output) == "" {
		errs.Issues = append(errs.Issues, "output must be a non-empty path")
	}
	if c.Tempo <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("tempo must be positive, got %g", c.Tempo))
	}
	if c.Instrument < runtime.MinInstrument || c.Instrument > runtime.MaxInstrument {
		errs.Issues = append(errs.Issues, fmt.Sprintf("instrument must be between %d and %d, got %d", runtime.MinInstrument, runtime.MaxInstrument, c.Instrument))
	}
	if c.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "max_depth must not be negative")
	}
	for i, arg := range c.Player {
		if strings.TrimSpace(arg) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("player[%d] must be a non-empty string", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// FindConfig walks from start towards the filesystem root looking for
// tune.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

// ResolveConfig loads explicit when set, otherwise the nearest tune.yml above
// start, otherwise the defaults.
func ResolveConfig(explicit, start string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	path, err := FindConfig(start)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// stringList accepts either a single whitespace separated string or a list.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected string", item.Line)
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	case yaml.AliasNode:
		if value.Alias != nil {
			return l.UnmarshalYAML(value.Alias)
		}
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
}
