package grammar

import (
	"fmt"
	"strings"

	"mycfg/internal/ir"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func (p *Program) String() string {
	var b strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fn.StringWithIndent(0))
	}
	return b.String()
}

func (f *Function) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(indent(level) + "@" + f.Name.Value)
	if len(f.Params) > 0 {
		params := make([]string, len(f.Params))
		for i, param := range f.Params {
			params[i] = param.String()
		}
		b.WriteString("(" + strings.Join(params, ", ") + ")")
	}
	if f.Type != nil {
		b.WriteString(": " + f.Type.Value)
	}
	b.WriteString(" {\n")
	for _, item := range f.Body {
		if item.Label != nil {
			b.WriteString(indent(level) + item.Label.String() + "\n")
			continue
		}
		b.WriteString(indent(level+1) + item.Instruction.String() + "\n")
	}
	b.WriteString(indent(level) + "}\n")
	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s: %s", p.Name.Value, p.Type.Value)
}

func (l *Label) String() string {
	return fmt.Sprintf(".%s:", l.Name.Value)
}

func (i *Instruction) String() string {
	var b strings.Builder
	if i.Target != nil {
		b.WriteString(fmt.Sprintf("%s: %s = ", i.Target.Dest.Value, i.Target.Type.Value))
	}
	b.WriteString(i.Op.Value)
	for _, operand := range i.Operands {
		b.WriteString(" " + operand.String())
	}
	b.WriteString(";")
	return b.String()
}

func (o *Operand) String() string {
	switch {
	case o.Func != nil:
		return "@" + o.Func.Value
	case o.Label != nil:
		return "." + o.Label.Value
	case o.Int != nil:
		return fmt.Sprintf("%d", *o.Int)
	case o.Bool != nil:
		return *o.Bool
	case o.Arg != nil:
		return o.Arg.Value
	}
	return ""
}

// FromIR builds the text form syntax tree of a decoded program. Blocks
// become labels, so printing and re-parsing yields an equal program.
func FromIR(program ir.Program) *Program {
	out := &Program{}
	for _, fn := range program.Functions {
		out.Functions = append(out.Functions, functionFromIR(fn))
	}
	return out
}

// Format renders a decoded program in the text form.
func Format(program ir.Program) string {
	return FromIR(program).String()
}

func functionFromIR(fn ir.Function) *Function {
	out := &Function{Name: ident(fn.Name)}
	for _, arg := range fn.Args {
		out.Params = append(out.Params, &Param{Name: ident(arg.Name), Type: typeName(arg.Type)})
	}
	if fn.ReturnType != ir.NoType {
		out.Type = typeName(fn.ReturnType)
	}
	for _, block := range fn.Blocks {
		out.Body = append(out.Body, &BodyItem{Label: &Label{Name: ident(block.Name)}})
		for _, inst := range block.Instructions {
			out.Body = append(out.Body, &BodyItem{Instruction: instructionFromIR(inst)})
		}
	}
	return out
}

func instructionFromIR(inst ir.Instruction) *Instruction {
	out := &Instruction{Op: ident(inst.Op.Mnemonic())}
	if inst.HasDest() {
		out.Target = &Target{Dest: ident(inst.Dest), Type: typeName(inst.Type)}
	}
	if inst.Value != nil {
		operand := &Operand{}
		if inst.Value.Type == ir.BoolType {
			text := fmt.Sprintf("%t", inst.Value.Bool)
			operand.Bool = &text
		} else {
			n := inst.Value.Int
			operand.Int = &n
		}
		out.Operands = append(out.Operands, operand)
	}
	for _, fn := range inst.Funcs {
		out.Operands = append(out.Operands, &Operand{Func: ident(fn)})
	}
	for _, arg := range inst.Args {
		out.Operands = append(out.Operands, &Operand{Arg: ident(arg)})
	}
	for _, label := range inst.Labels {
		out.Operands = append(out.Operands, &Operand{Label: ident(label)})
	}
	return out
}

func ident(name string) *Ident {
	return &Ident{Value: name}
}

func typeName(t ir.Type) *Ident {
	return ident(strings.ToLower(t.String()))
}
