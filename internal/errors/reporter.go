package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is the presentation form of any error produced while
// reading, decoding or parsing a program.
type CompilerError struct {
	Level    ErrorLevel
	Code     string    // Error code like E0100
	Message  string    // Primary error message
	Position *Position // Location in a text source, if known
	Length   int       // Length of the problematic region
	Location string    // Tree path for decode errors
	Notes    []string  // Additional context notes
	HelpText string    // Help text for the error
}

// FromError converts err into a CompilerError. Errors of unknown types are
// reported under ErrorInput.
func FromError(err error) CompilerError {
	var decodeErr *DecodeError
	if stderrors.As(err, &decodeErr) {
		ce := CompilerError{
			Level:    Error,
			Code:     decodeErr.Code(),
			Message:  decodeErr.Detail,
			Location: decodeErr.Location(),
		}
		if ce.Message == "" {
			ce.Message = GetErrorDescription(ce.Code)
		}
		switch decodeErr.Kind {
		case KindUnknownOpcode:
			ce.HelpText = "opcode must be one of: const add sub mul div eq lt gt le ge not and or jmp br call ret id print nop"
		case KindInvalidType:
			ce.HelpText = "use \"int\" or \"bool\""
		}
		return ce
	}

	var syntaxErr *SyntaxError
	if stderrors.As(err, &syntaxErr) {
		pos := syntaxErr.Position
		return CompilerError{
			Level:    Error,
			Code:     ErrorSyntax,
			Message:  syntaxErr.Message,
			Position: &pos,
			Length:   1,
		}
	}

	return CompilerError{
		Level:   Error,
		Code:    ErrorInput,
		Message: err.Error(),
	}
}

// ErrorReporter handles consistent error formatting
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Format formats err as a CompilerError
func (er *ErrorReporter) Format(err error) string {
	return er.FormatError(FromError(err))
}

// FormatError formats a compiler error with rust-like styling
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0100]: message
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	line := 0
	if err.Position != nil {
		line = err.Position.Line
	}
	lineNumberWidth := er.getLineNumberWidth(line)
	indent := strings.Repeat(" ", lineNumberWidth)

	switch {
	case err.Position != nil:
		result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
			indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	case err.Location != "":
		result.WriteString(fmt.Sprintf("%s %s %s at %s\n",
			indent, dim("-->"), er.filename, err.Location))
	default:
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), er.filename))
	}

	if err.Position != nil && line > 0 && line <= len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, line)),
			dim("│"),
			er.lines[line-1]))

		marker := er.createMarker(err.Position.Column, err.Length, err.Level)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for errors
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", max(0, column-1))
	marker := strings.Repeat("^", length)

	return spaces + er.getLevelColor(level)(marker)
}

// getLineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}
