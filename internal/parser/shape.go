package parser

import (
	"mycfg/internal/errors"
	"mycfg/internal/ir"
)

type presence int

const (
	forbidden presence = iota
	required
	optional
)

// shape lists which fields an opcode accepts. unbounded marks an
// open-ended argument count.
type shape struct {
	dest    presence
	minArgs int
	maxArgs int
	funcs   int
	labels  int
	value   presence
}

const unbounded = -1

var (
	binaryShape = shape{dest: required, minArgs: 2, maxArgs: 2}
	unaryShape  = shape{dest: required, minArgs: 1, maxArgs: 1}
)

var shapes = map[ir.Op]shape{
	ir.OpConst: {dest: required, value: required},
	ir.OpAdd:   binaryShape,
	ir.OpSub:   binaryShape,
	ir.OpMul:   binaryShape,
	ir.OpDiv:   binaryShape,
	ir.OpEq:    binaryShape,
	ir.OpLt:    binaryShape,
	ir.OpGt:    binaryShape,
	ir.OpLe:    binaryShape,
	ir.OpGe:    binaryShape,
	ir.OpNot:   unaryShape,
	ir.OpAnd:   binaryShape,
	ir.OpOr:    binaryShape,
	ir.OpJmp:   {labels: 1},
	ir.OpBr:    {minArgs: 1, maxArgs: 1, labels: 2},
	ir.OpCall:  {dest: optional, maxArgs: unbounded, funcs: 1},
	ir.OpRet:   {maxArgs: 1},
	ir.OpId:    unaryShape,
	ir.OpPrint: {maxArgs: unbounded},
	ir.OpNop:   {},
}

// checkShape validates inst against its opcode's field shape. An empty
// list counts as an absent field.
func checkShape(inst ir.Instruction, path []string) error {
	s := shapes[inst.Op]
	op := inst.Op.Mnemonic()

	if inst.HasDest() != (inst.Type != ir.NoType) {
		return errors.Malformed(path, "%s: \"dest\" and \"type\" must appear together", op)
	}

	switch s.dest {
	case required:
		if !inst.HasDest() {
			return errors.Malformed(path, "%s requires a destination", op)
		}
	case forbidden:
		if inst.HasDest() {
			return errors.Malformed(path, "%s does not take a destination", op)
		}
	}

	n := len(inst.Args)
	if n < s.minArgs || (s.maxArgs != unbounded && n > s.maxArgs) {
		switch {
		case s.minArgs == s.maxArgs:
			return errors.Malformed(path, "%s requires exactly %d args, got %d", op, s.minArgs, n)
		default:
			return errors.Malformed(path, "%s takes at most %d args, got %d", op, s.maxArgs, n)
		}
	}

	if len(inst.Funcs) != s.funcs {
		return errors.Malformed(path, "%s requires exactly %d funcs, got %d", op, s.funcs, len(inst.Funcs))
	}
	if len(inst.Labels) != s.labels {
		return errors.Malformed(path, "%s requires exactly %d labels, got %d", op, s.labels, len(inst.Labels))
	}

	switch {
	case s.value == required && inst.Value == nil:
		return errors.Malformed(path, "%s requires a value", op)
	case s.value == forbidden && inst.Value != nil:
		return errors.Malformed(path, "%s does not take a value", op)
	}

	return nil
}
