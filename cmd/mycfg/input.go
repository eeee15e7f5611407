// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"

	"mycfg/grammar"
	mycfgerrors "mycfg/internal/errors"
	"mycfg/internal/ir"
	"mycfg/internal/parser"
)

// load reads the input file, or stdin when no argument is given, and
// decodes it. Decode and syntax errors are rendered with source context
// before the process exits.
func load(c *cli.Command) (ir.Program, error) {
	startTime := time.Now()

	name := "<stdin>"
	var source []byte
	var err error

	switch len(c.Args) {
	case 0:
		source, err = io.ReadAll(os.Stdin)
	case 1:
		name = c.Args[0]
		source, err = os.ReadFile(name)
	default:
		return ir.Program{}, errors.New("expected at most one input file, got %d", len(c.Args))
	}
	if err != nil {
		return ir.Program{}, errors.Wrap(err, "read %v", name)
	}

	program, err := decode(c.Bool("text"), name, source)
	if err != nil {
		if !isDiagnostic(err) {
			return ir.Program{}, errors.Wrap(err, "decode %v", name)
		}

		reporter := mycfgerrors.NewErrorReporter(name, string(source))
		fmt.Fprint(os.Stderr, reporter.Format(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "Decoding %s failed after %s\n", name, formatDuration(time.Since(startTime)))
		os.Exit(1)
	}

	if c.Bool("verbose") {
		color.New(color.FgGreen).Fprintf(os.Stderr, "Decoded %s in %s\n", name, formatDuration(time.Since(startTime)))
	}

	return program, nil
}

func decode(text bool, name string, source []byte) (ir.Program, error) {
	if text {
		return grammar.DecodeSource(name, string(source))
	}

	tree, err := parser.ReadTree(bytes.NewReader(source))
	if err != nil {
		return ir.Program{}, err
	}
	return parser.Decode(tree)
}

func isDiagnostic(err error) bool {
	var de *mycfgerrors.DecodeError
	var se *mycfgerrors.SyntaxError
	return stderrors.As(err, &de) || stderrors.As(err, &se)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
