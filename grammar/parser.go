package grammar

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"mycfg/internal/errors"
	"mycfg/internal/ir"
	irparser "mycfg/internal/parser"
)

var parser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(TextLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// ParseFile parses the text form program at path
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSource(path, string(source))
}

// ParseSource parses a text form program. Syntax errors are returned as
// *errors.SyntaxError.
func ParseSource(sourceName, source string) (*Program, error) {
	program, err := parser.ParseString(sourceName, source)
	if err != nil {
		return nil, syntaxError(err)
	}
	return program, nil
}

// ParseTree parses a text form program and lowers it to the generic tree
// value accepted by the decoder.
func ParseTree(sourceName, source string) (any, error) {
	program, err := ParseSource(sourceName, source)
	if err != nil {
		return nil, err
	}
	return program.Tree()
}

func syntaxError(err error) error {
	var pe participle.Error
	if !stderrors.As(err, &pe) {
		return err
	}

	pos := pe.Position()
	return &errors.SyntaxError{
		Position: errors.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column},
		Message:  pe.Message(),
	}
}

// DecodeSource parses a text form program and decodes it into basic blocks.
func DecodeSource(sourceName, source string) (ir.Program, error) {
	tree, err := ParseTree(sourceName, source)
	if err != nil {
		return ir.Program{}, err
	}
	return irparser.Decode(tree)
}
