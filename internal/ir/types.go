package ir

import (
	"slices"
	"strconv"
)

// IR types for the block-structured program model.
// Values are treated as immutable once decoded: passes return new
// Functions and BasicBlocks and never modify their input.

// Type is the declared type of a variable, argument or return value
type Type int

const (
	NoType Type = iota
	IntType
	BoolType
)

// String returns the display name used by the printer
func (t Type) String() string {
	switch t {
	case IntType:
		return "Int"
	case BoolType:
		return "Bool"
	default:
		return "void"
	}
}

var typeNames = map[string]Type{
	"int":  IntType,
	"bool": BoolType,
}

// LookupType maps a type string of the tree encoding to a Type
func LookupType(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}

// Value is a literal carried by a Const instruction
type Value struct {
	Type Type // IntType or BoolType
	Int  int64
	Bool bool
}

// IntValue returns an integer literal
func IntValue(v int64) *Value {
	return &Value{Type: IntType, Int: v}
}

// BoolValue returns a boolean literal
func BoolValue(v bool) *Value {
	return &Value{Type: BoolType, Bool: v}
}

func (v *Value) String() string {
	if v.Type == BoolType {
		return strconv.FormatBool(v.Bool)
	}
	return strconv.FormatInt(v.Int, 10)
}

// Group is the opcode family an Op belongs to
type Group int

const (
	GroupConst Group = iota
	GroupArithmetic
	GroupComparison
	GroupLogic
	GroupControl
	GroupMisc
)

// Op is one of the sixteen instruction opcodes
type Op int

const (
	OpConst Op = iota

	OpAdd
	OpSub
	OpMul
	OpDiv

	OpEq
	OpLt
	OpGt
	OpLe
	OpGe

	OpNot
	OpAnd
	OpOr

	OpJmp
	OpBr
	OpCall
	OpRet

	OpId
	OpPrint
	OpNop
)

type opInfo struct {
	mnemonic string
	display  string
	group    Group
}

var opTable = [...]opInfo{
	OpConst: {"const", "Const", GroupConst},
	OpAdd:   {"add", "Add", GroupArithmetic},
	OpSub:   {"sub", "Sub", GroupArithmetic},
	OpMul:   {"mul", "Mul", GroupArithmetic},
	OpDiv:   {"div", "Div", GroupArithmetic},
	OpEq:    {"eq", "Eq", GroupComparison},
	OpLt:    {"lt", "Lt", GroupComparison},
	OpGt:    {"gt", "Gt", GroupComparison},
	OpLe:    {"le", "Le", GroupComparison},
	OpGe:    {"ge", "Ge", GroupComparison},
	OpNot:   {"not", "Not", GroupLogic},
	OpAnd:   {"and", "And", GroupLogic},
	OpOr:    {"or", "Or", GroupLogic},
	OpJmp:   {"jmp", "Jmp", GroupControl},
	OpBr:    {"br", "Br", GroupControl},
	OpCall:  {"call", "Call", GroupControl},
	OpRet:   {"ret", "ret", GroupControl},
	OpId:    {"id", "Id", GroupMisc},
	OpPrint: {"print", "Print", GroupMisc},
	OpNop:   {"nop", "Nop", GroupMisc},
}

var opcodes = func() map[string]Op {
	m := make(map[string]Op, len(opTable))
	for op, info := range opTable {
		m[info.mnemonic] = Op(op)
	}
	return m
}()

// LookupOp maps an opcode string of the tree encoding to an Op
func LookupOp(mnemonic string) (Op, bool) {
	op, ok := opcodes[mnemonic]
	return op, ok
}

// Ops returns every opcode in declaration order
func Ops() []Op {
	ops := make([]Op, len(opTable))
	for i := range opTable {
		ops[i] = Op(i)
	}
	return ops
}

// Mnemonic returns the opcode string used by the tree encoding
func (o Op) Mnemonic() string { return opTable[o].mnemonic }

// String returns the display name used by the printer
func (o Op) String() string { return opTable[o].display }

// Group returns the opcode family
func (o Op) Group() Group { return opTable[o].group }

// IsTerminator reports whether o ends a basic block
func (o Op) IsTerminator() bool {
	return o == OpJmp || o == OpBr || o == OpRet
}

// Instruction is a single decoded instruction. Absent fields are zero:
// an empty Dest, NoType, nil slices and a nil Value.
type Instruction struct {
	Op     Op
	Dest   string
	Type   Type
	Args   []string
	Funcs  []string
	Labels []string
	Value  *Value
}

// HasDest reports whether the instruction writes a variable
func (i Instruction) HasDest() bool {
	return i.Dest != ""
}

// IsTerminator reports whether the instruction ends a basic block
func (i Instruction) IsTerminator() bool {
	return i.Op.IsTerminator()
}

// Equal reports structural equality
func (i Instruction) Equal(other Instruction) bool {
	if i.Op != other.Op || i.Dest != other.Dest || i.Type != other.Type {
		return false
	}
	if !slices.Equal(i.Args, other.Args) ||
		!slices.Equal(i.Funcs, other.Funcs) ||
		!slices.Equal(i.Labels, other.Labels) {
		return false
	}
	if i.Value == nil || other.Value == nil {
		return i.Value == other.Value
	}
	return *i.Value == *other.Value
}

// BasicBlock is a named straight-line instruction sequence. Only the last
// instruction may be a terminator.
type BasicBlock struct {
	Name         string
	Instructions []Instruction
}

// Terminal returns the block's last instruction
func (b BasicBlock) Terminal() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return Instruction{}, false
	}
	return b.Instructions[len(b.Instructions)-1], true
}

// Equal reports structural equality
func (b BasicBlock) Equal(other BasicBlock) bool {
	return b.Name == other.Name &&
		slices.EqualFunc(b.Instructions, other.Instructions, Instruction.Equal)
}

// Argument is a named, typed function parameter
type Argument struct {
	Name string
	Type Type
}

// Function is a named sequence of basic blocks in program order
type Function struct {
	Name       string
	Args       []Argument
	ReturnType Type
	Blocks     []BasicBlock
}

// Block returns the block with the given name
func (f Function) Block(name string) (BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return BasicBlock{}, false
}

// InstructionCount returns the number of instructions over all blocks
func (f Function) InstructionCount() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instructions)
	}
	return n
}

// WithBlocks returns a copy of f with its blocks replaced
func (f Function) WithBlocks(blocks []BasicBlock) Function {
	f.Blocks = blocks
	return f
}

// Equal reports structural equality
func (f Function) Equal(other Function) bool {
	return f.Name == other.Name &&
		f.ReturnType == other.ReturnType &&
		slices.Equal(f.Args, other.Args) &&
		slices.EqualFunc(f.Blocks, other.Blocks, BasicBlock.Equal)
}

// Program is a set of uniquely named functions. Functions keeps the order
// they were declared in.
type Program struct {
	Functions []Function
}

// Function returns the function with the given name
func (p Program) Function(name string) (Function, bool) {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Map returns a new Program with fn applied to every function
func (p Program) Map(fn func(Function) Function) Program {
	functions := make([]Function, len(p.Functions))
	for i, f := range p.Functions {
		functions[i] = fn(f)
	}
	return Program{Functions: functions}
}

// Equal reports structural equality
func (p Program) Equal(other Program) bool {
	return slices.EqualFunc(p.Functions, other.Functions, Function.Equal)
}
