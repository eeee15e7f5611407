package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func block(name string, insts ...Instruction) BasicBlock {
	return BasicBlock{Name: name, Instructions: insts}
}

func jmp(label string) Instruction {
	return Instruction{Op: OpJmp, Labels: []string{label}}
}

func br(cond, t, f string) Instruction {
	return Instruction{Op: OpBr, Args: []string{cond}, Labels: []string{t, f}}
}

func ret(args ...string) Instruction {
	return Instruction{Op: OpRet, Args: args}
}

func constInt(dest string, v int64) Instruction {
	return Instruction{Op: OpConst, Dest: dest, Type: IntType, Value: IntValue(v)}
}

func idOp(dest, src string) Instruction {
	return Instruction{Op: OpId, Dest: dest, Type: IntType, Args: []string{src}}
}

func add(dest, a, b string) Instruction {
	return Instruction{Op: OpAdd, Dest: dest, Type: IntType, Args: []string{a, b}}
}

func printOp(args ...string) Instruction {
	return Instruction{Op: OpPrint, Args: args}
}

func TestSuccessors(t *testing.T) {
	fn := Function{
		Name: "main",
		Blocks: []BasicBlock{
			block("entry", constInt("c", 1), br("c", "then", "else")),
			block("then", printOp("c"), jmp("exit")),
			block("else", printOp("c")),
			block("early", ret()),
			block("exit", jmp("entry")),
		},
	}

	cfg := Successors(fn)

	assert.Len(t, cfg, 5)
	assert.Equal(t, []string{"then", "else"}, cfg["entry"])
	assert.Equal(t, []string{"exit"}, cfg["then"])
	assert.Equal(t, []string{"early"}, cfg["else"], "non-terminated block falls through")
	assert.Equal(t, []string{"exit"}, cfg["early"], "ret in a non-last block falls through")
	assert.Equal(t, []string{}, cfg["exit"], "last block has no successors even with jmp")
}

func TestSuccessorsSingleBlock(t *testing.T) {
	fn := Function{
		Name:   "loop",
		Blocks: []BasicBlock{block("self", jmp("self"))},
	}

	assert.Equal(t, ControlFlowGraph{"self": {}}, Successors(fn))
}

func TestSuccessorsCallFallsThrough(t *testing.T) {
	fn := Function{
		Name: "main",
		Blocks: []BasicBlock{
			block("a", Instruction{Op: OpCall, Funcs: []string{"f"}}),
			block("b", ret()),
		},
	}

	assert.Equal(t, []string{"b"}, Successors(fn)["a"])
}

func TestSuccessorsEmptyFunction(t *testing.T) {
	assert.Empty(t, Successors(Function{Name: "empty"}))
}

func TestPredecessors(t *testing.T) {
	cfg := ControlFlowGraph{
		"entry": {"left", "right"},
		"left":  {"join"},
		"right": {"join"},
		"join":  {},
	}

	preds := cfg.Predecessors()

	assert.Equal(t, []string{}, preds["entry"])
	assert.Equal(t, []string{"entry"}, preds["left"])
	assert.Equal(t, []string{"left", "right"}, preds["join"])
}

func TestGraphviz(t *testing.T) {
	fn := Function{
		Name: "main",
		Blocks: []BasicBlock{
			block("zeta", constInt("c", 1), br("c", "beta", "alpha")),
			block("beta", jmp("zeta")),
			block("alpha", ret()),
		},
	}

	want := `digraph main {
  alpha;
  beta;
  zeta;
  beta -> zeta;
  zeta -> beta;
  zeta -> alpha;
}
`
	assert.Equal(t, want, Graphviz(fn))
}
