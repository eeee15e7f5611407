package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"mycfg/internal/ir"
)

// ReadTree parses JSON from r into a generic tree value. Numbers are kept
// as json.Number so integer literals keep their full precision.
func ReadTree(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return tree, nil
}

// DecodeReader reads a JSON program from r and decodes it
func DecodeReader(r io.Reader) (ir.Program, error) {
	tree, err := ReadTree(r)
	if err != nil {
		return ir.Program{}, err
	}
	return Decode(tree)
}

// DecodeFile reads and decodes the JSON program at path
func DecodeFile(path string) (ir.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return ir.Program{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	return DecodeReader(f)
}
