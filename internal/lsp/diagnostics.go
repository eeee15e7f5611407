package lsp

import (
	stderrors "errors"
	"strconv"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mycfg/grammar"
	"mycfg/internal/errors"
)

// ConvertError transforms a parse or decode failure into LSP diagnostics.
// Syntax errors carry a source position; decode errors are reported on the
// first line with their tree path in the message.
func ConvertError(err error, program *grammar.Program) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}

	ce := errors.FromError(err)
	code := protocol.IntegerOrString{Value: ce.Code}

	diagnostic := protocol.Diagnostic{
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Code:     &code,
		Source:   ptrString("mycfg"),
		Message:  ce.Message,
	}

	var se *errors.SyntaxError
	var de *errors.DecodeError
	switch {
	case stderrors.As(err, &se):
		diagnostic.Source = ptrString("mycfg-parser")
		diagnostic.Range = lineRange(se.Position.Line, se.Position.Column, 1)
	case stderrors.As(err, &de):
		diagnostic.Source = ptrString("mycfg-decoder")
		diagnostic.Message = de.Location() + ": " + ce.Message
		diagnostic.Range = decodeRange(de, program)
	}

	return []protocol.Diagnostic{diagnostic}
}

// decodeRange points at the opcode of the failing instruction, or the
// function name when the path stops above the instruction list.
func decodeRange(de *errors.DecodeError, program *grammar.Program) protocol.Range {
	if program != nil {
		if i, ok := functionIndex(de.Path); ok && i < len(program.Functions) {
			fn := program.Functions[i]
			if item, ok := instructionIndex(de.Path); ok && item < len(fn.Body) {
				if inst := fn.Body[item].Instruction; inst != nil {
					return lineRange(inst.Op.Pos.Line, inst.Op.Pos.Column, len(inst.Op.Value))
				}
			}
			return lineRange(fn.Name.Pos.Line, fn.Name.Pos.Column, len(fn.Name.Value))
		}
	}
	return lineRange(1, 1, 1)
}

func functionIndex(path []string) (int, bool) {
	return pathIndex(path, 0, "functions")
}

func instructionIndex(path []string) (int, bool) {
	return pathIndex(path, 1, "instrs")
}

func pathIndex(path []string, at int, key string) (int, bool) {
	if len(path) <= at {
		return 0, false
	}
	digits, ok := strings.CutPrefix(path[at], key+"[")
	if !ok {
		return 0, false
	}
	digits, ok = strings.CutSuffix(digits, "]")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	return n, err == nil
}

func lineRange(line, column, length int) protocol.Range {
	line = max(line, 1)
	column = max(column, 1)
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line - 1), Character: uint32(column - 1)},
		End:   protocol.Position{Line: uint32(line - 1), Character: uint32(column - 1 + max(length, 1))},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
