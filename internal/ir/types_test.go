package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOp(t *testing.T) {
	tests := []struct {
		mnemonic string
		op       Op
		group    Group
	}{
		{"const", OpConst, GroupConst},
		{"add", OpAdd, GroupArithmetic},
		{"sub", OpSub, GroupArithmetic},
		{"mul", OpMul, GroupArithmetic},
		{"div", OpDiv, GroupArithmetic},
		{"eq", OpEq, GroupComparison},
		{"lt", OpLt, GroupComparison},
		{"gt", OpGt, GroupComparison},
		{"le", OpLe, GroupComparison},
		{"ge", OpGe, GroupComparison},
		{"not", OpNot, GroupLogic},
		{"and", OpAnd, GroupLogic},
		{"or", OpOr, GroupLogic},
		{"jmp", OpJmp, GroupControl},
		{"br", OpBr, GroupControl},
		{"call", OpCall, GroupControl},
		{"ret", OpRet, GroupControl},
		{"id", OpId, GroupMisc},
		{"print", OpPrint, GroupMisc},
		{"nop", OpNop, GroupMisc},
	}

	seen := make(map[Op]bool)
	for _, tt := range tests {
		t.Run(tt.mnemonic, func(t *testing.T) {
			op, ok := LookupOp(tt.mnemonic)
			require.True(t, ok)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.group, op.Group())
			assert.Equal(t, tt.mnemonic, op.Mnemonic())
		})
		seen[tt.op] = true
	}
	assert.Len(t, seen, len(Ops()), "every opcode maps to a distinct variant")

	for _, bad := range []string{"", "ADD", "mod", "phi", "const "} {
		_, ok := LookupOp(bad)
		assert.False(t, ok, "%q should not be an opcode", bad)
	}
}

func TestTerminators(t *testing.T) {
	for _, op := range Ops() {
		want := op == OpJmp || op == OpBr || op == OpRet
		assert.Equal(t, want, op.IsTerminator(), op.Mnemonic())
	}
}

func TestLookupType(t *testing.T) {
	typ, ok := LookupType("int")
	assert.True(t, ok)
	assert.Equal(t, IntType, typ)

	typ, ok = LookupType("bool")
	assert.True(t, ok)
	assert.Equal(t, BoolType, typ)

	_, ok = LookupType("float")
	assert.False(t, ok)
}

func TestInstructionEqual(t *testing.T) {
	a := Instruction{Op: OpConst, Dest: "x", Type: IntType, Value: IntValue(1)}

	assert.True(t, a.Equal(Instruction{Op: OpConst, Dest: "x", Type: IntType, Value: IntValue(1)}))
	assert.False(t, a.Equal(Instruction{Op: OpConst, Dest: "x", Type: IntType, Value: IntValue(2)}))
	assert.False(t, a.Equal(Instruction{Op: OpConst, Dest: "x", Type: IntType}))
	assert.False(t, a.Equal(Instruction{Op: OpConst, Dest: "y", Type: IntType, Value: IntValue(1)}))

	p := Instruction{Op: OpPrint, Args: []string{"x", "y"}}
	assert.True(t, p.Equal(Instruction{Op: OpPrint, Args: []string{"x", "y"}}))
	assert.False(t, p.Equal(Instruction{Op: OpPrint, Args: []string{"y", "x"}}))
}

func TestFunctionLookup(t *testing.T) {
	fn := Function{Name: "main", Blocks: []BasicBlock{
		block("entry", constInt("a", 1), jmp("exit")),
		block("exit", ret()),
	}}
	program := Program{Functions: []Function{fn}}

	got, ok := program.Function("main")
	require.True(t, ok)
	assert.Equal(t, 3, got.InstructionCount())

	exit, ok := got.Block("exit")
	require.True(t, ok)
	terminal, ok := exit.Terminal()
	require.True(t, ok)
	assert.Equal(t, OpRet, terminal.Op)

	_, ok = program.Function("missing")
	assert.False(t, ok)
}
