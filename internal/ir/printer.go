package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the string representation of an IR program
func Print(program Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

// PrintFunction returns the string representation of a single function
func PrintFunction(fn Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

// PrintBlock returns the string representation of a single block
func PrintBlock(block BasicBlock) string {
	p := NewPrinter()
	p.printBlock(block)
	return p.output.String()
}

// FormatInstruction renders one instruction without indentation or newline
func FormatInstruction(inst Instruction) string {
	return formatInstruction(inst)
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printProgram(program Program) {
	for i, fn := range program.Functions {
		if i > 0 {
			p.output.WriteString("\n")
		}
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn Function) {
	params := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		params[i] = fmt.Sprintf("%s: %s", arg.Name, arg.Type)
	}

	p.writeLine("@%s(%s): %s {", fn.Name, strings.Join(params, ","), fn.ReturnType)
	for _, block := range fn.Blocks {
		p.printBlock(block)
	}
	p.writeLine("}")
}

func (p *Printer) printBlock(block BasicBlock) {
	p.writeLine(".%s:", block.Name)
	p.indent += 2
	for _, inst := range block.Instructions {
		p.writeLine("%s", formatInstruction(inst))
	}
	p.indent -= 2
}

func formatInstruction(inst Instruction) string {
	var b strings.Builder

	if inst.HasDest() {
		fmt.Fprintf(&b, "%s: %s = ", inst.Dest, inst.Type)
	}

	b.WriteString(inst.Op.String())

	if inst.Value != nil {
		b.WriteString(" ")
		b.WriteString(inst.Value.String())
	}
	for _, fn := range inst.Funcs {
		b.WriteString(" @")
		b.WriteString(fn)
	}
	for _, arg := range inst.Args {
		b.WriteString(" ")
		b.WriteString(arg)
	}
	for _, label := range inst.Labels {
		b.WriteString(" .")
		b.WriteString(label)
	}

	b.WriteString(";")
	return b.String()
}
