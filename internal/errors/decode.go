package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes a decode failure
type Kind string

const (
	KindUnknownOpcode   Kind = "unknown_opcode"
	KindInvalidType     Kind = "invalid_type"
	KindMalformedRecord Kind = "malformed_record"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrUnknownOpcode   = &DecodeError{Kind: KindUnknownOpcode}
	ErrInvalidType     = &DecodeError{Kind: KindInvalidType}
	ErrMalformedRecord = &DecodeError{Kind: KindMalformedRecord}
)

// DecodeError is returned when a tree value cannot be decoded into a program.
// Decoding stops at the first DecodeError.
type DecodeError struct {
	Kind   Kind
	Path   []string // e.g. functions[0], instrs[3], op
	Value  any
	Detail string
}

// Code returns the stable error code for the error's kind
func (e *DecodeError) Code() string {
	switch e.Kind {
	case KindUnknownOpcode:
		return ErrorUnknownOpcode
	case KindInvalidType:
		return ErrorInvalidType
	default:
		return ErrorMalformedRecord
	}
}

// Location renders Path as a dotted selector
func (e *DecodeError) Location() string {
	return strings.Join(e.Path, ".")
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	var b strings.Builder

	b.WriteString("[decode] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Location())
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

// Is reports whether target is a DecodeError of the same kind
func (e *DecodeError) Is(target error) bool {
	if t, ok := target.(*DecodeError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// UnknownOpcode creates an error for an opcode string outside the opcode table
func UnknownOpcode(path []string, op string) *DecodeError {
	return &DecodeError{
		Kind:   KindUnknownOpcode,
		Path:   path,
		Value:  op,
		Detail: fmt.Sprintf("unknown opcode %q", op),
	}
}

// InvalidType creates an error for a type that is not "int" or "bool"
func InvalidType(path []string, value any) *DecodeError {
	return &DecodeError{
		Kind:   KindInvalidType,
		Path:   path,
		Value:  value,
		Detail: fmt.Sprintf("invalid type %v, expected \"int\" or \"bool\"", describe(value)),
	}
}

// Malformed creates an error for a structurally invalid record
func Malformed(path []string, format string, args ...any) *DecodeError {
	return &DecodeError{
		Kind:   KindMalformedRecord,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	}
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v (%T)", v, v)
}

// Position is a 1-based location in a text source
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// SyntaxError is returned when the text form cannot be parsed or lowered
type SyntaxError struct {
	Position Position
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[syntax] %s: %s", e.Position, e.Message)
}
