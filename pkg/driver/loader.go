package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/parser"
)

// SourceExtension marks programs written in the surface syntax.
const SourceExtension = ".tune"

// LoadProgram reads a program from disk. Source files are parsed; .json,
// .yml and .yaml files hold an expression tree document.
func LoadProgram(path string) (ast.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	var expr ast.Expression
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		expr, err = decodeJSONProgram(data)
	case ".yml", ".yaml":
		expr, err = decodeYAMLProgram(data)
	default:
		expr, err = parser.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return expr, nil
}

func decodeJSONProgram(data []byte) (ast.Expression, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var doc map[string]any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return ast.Decode(doc)
}

func decodeYAMLProgram(data []byte) (ast.Expression, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil, errors.New("parse yaml: document is empty")
	}
	return ast.Decode(doc)
}

// WriteTree encodes expr as an indented JSON document readable by
// LoadProgram.
func WriteTree(w io.Writer, expr ast.Expression) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(expr); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return nil
}
