// Package repl reads text-form functions interactively and prints the
// decoded, optimized program and its control flow graphs.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mycfg/grammar"
	"mycfg/internal/errors"
	"mycfg/internal/ir"
)

const PROMPT = ">> "

// CONTINUE is shown while a function body is still open
const CONTINUE = ".. "

// Start reads lines from in until EOF. Input is collected until every
// opened brace is closed, then decoded and evaluated as one program.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	var buffer strings.Builder
	depth := 0

	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		buffer.WriteString(line)
		buffer.WriteString("\n")
		depth += braceDepth(line)

		if depth > 0 {
			fmt.Fprint(out, CONTINUE)
			continue
		}

		if source := buffer.String(); strings.TrimSpace(source) != "" {
			fmt.Fprint(out, Eval(source))
		}
		buffer.Reset()
		depth = 0
		fmt.Fprint(out, PROMPT)
	}
}

// Eval decodes a text-form source and returns the optimized program
// followed by the digraph of every function, or a rendered diagnostic.
func Eval(source string) string {
	program, err := grammar.DecodeSource("<repl>", source)
	if err != nil {
		return errors.NewErrorReporter("<repl>", source).Format(err)
	}

	var b strings.Builder
	b.WriteString(ir.Print(ir.Optimize(program)))
	for _, fn := range program.Functions {
		b.WriteString(ir.Graphviz(fn))
	}
	return b.String()
}

func braceDepth(line string) int {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.Count(line, "{") - strings.Count(line, "}")
}
