package ir

// This file contains the local dead-code passes. Every pass is a pure
// function: it builds new blocks and functions and leaves its input as is.

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mycfg.ir")

// OptimizationPass represents a single function-level transformation
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(fn Function) (Function, bool) // Reports whether the result differs from fn
}

// OptimizationPipeline manages the sequence of optimization passes
type OptimizationPipeline struct {
	passes []OptimizationPass
}

// NewOptimizationPipeline creates a new optimization pipeline with default passes
func NewOptimizationPipeline() *OptimizationPipeline {
	pipeline := &OptimizationPipeline{}

	pipeline.AddPass(&DeadVariableElimination{})
	pipeline.AddPass(&DeadStoreElimination{})

	return pipeline
}

// AddPass adds an optimization pass to the pipeline
func (p *OptimizationPipeline) AddPass(pass OptimizationPass) {
	p.passes = append(p.passes, pass)
}

// Passes returns the configured passes in execution order
func (p *OptimizationPipeline) Passes() []OptimizationPass {
	return p.passes
}

// Run applies the pipeline to every function of program
func (p *OptimizationPipeline) Run(program Program) Program {
	log.Debugf("running %d optimization passes over %d functions", len(p.passes), len(program.Functions))
	return program.Map(p.RunFunction)
}

// RunFunction applies every pass in order, repeating the whole sequence
// until no pass changes fn.
func (p *OptimizationPipeline) RunFunction(fn Function) Function {
	for round := 1; ; round++ {
		changed := false
		for _, pass := range p.passes {
			before := fn.InstructionCount()
			next, ok := pass.Apply(fn)
			log.Debugf("@%s round %d: %s changed=%t instructions %d -> %d",
				fn.Name, round, pass.Name(), ok, before, next.InstructionCount())
			fn = next
			changed = changed || ok
		}
		if !changed {
			return fn
		}
	}
}

// DeadVariableElimination removes instructions whose destination is never
// read anywhere in the function
type DeadVariableElimination struct {
	// Worklist selects the use-count formulation over the naive fixpoint.
	Worklist bool
}

func (dve *DeadVariableElimination) Name() string {
	return "Dead Variable Elimination"
}

func (dve *DeadVariableElimination) Description() string {
	return "Removes definitions whose destination never appears as an argument in the function"
}

func (dve *DeadVariableElimination) Apply(fn Function) (Function, bool) {
	var result Function
	if dve.Worklist {
		result = EliminateDeadVariablesWorklist(fn)
	} else {
		result = EliminateDeadVariables(fn)
	}
	return result, !result.Equal(fn)
}

// DeadStoreElimination removes definitions overwritten later in the same
// block before any use
type DeadStoreElimination struct{}

func (dse *DeadStoreElimination) Name() string {
	return "Dead Store Elimination"
}

func (dse *DeadStoreElimination) Description() string {
	return "Removes block-local definitions superseded by a later definition with no use in between"
}

func (dse *DeadStoreElimination) Apply(fn Function) (Function, bool) {
	blocks := make([]BasicBlock, len(fn.Blocks))
	for i, block := range fn.Blocks {
		blocks[i] = EliminateDeadStores(block)
	}
	result := fn.WithBlocks(blocks)
	return result, !result.Equal(fn)
}

// EliminateDeadVariables removes, until nothing changes, every instruction
// that has a destination not referenced by any instruction's arguments.
// Instructions without a destination are always kept.
//
// The rule is by name only: definition order and redefinition are not
// considered.
func EliminateDeadVariables(fn Function) Function {
	for {
		next := dropUnusedDefinitions(fn, usedNames(fn))
		if next.Equal(fn) {
			return next
		}
		fn = next
	}
}

// usedNames collects every name that appears in any instruction's arguments
func usedNames(fn Function) map[string]bool {
	used := make(map[string]bool)
	for _, block := range fn.Blocks {
		for _, inst := range block.Instructions {
			for _, arg := range inst.Args {
				used[arg] = true
			}
		}
	}
	return used
}

func dropUnusedDefinitions(fn Function, used map[string]bool) Function {
	blocks := make([]BasicBlock, len(fn.Blocks))
	for i, block := range fn.Blocks {
		kept := make([]Instruction, 0, len(block.Instructions))
		for _, inst := range block.Instructions {
			if !inst.HasDest() || used[inst.Dest] {
				kept = append(kept, inst)
			}
		}
		blocks[i] = BasicBlock{Name: block.Name, Instructions: kept}
	}
	return fn.WithBlocks(blocks)
}

type instLoc struct {
	block, index int
}

// EliminateDeadVariablesWorklist computes the same result as
// EliminateDeadVariables in a single pass over use counts. A name whose
// count drops to zero is queued and all its definitions are removed, which
// in turn releases the names they read.
func EliminateDeadVariablesWorklist(fn Function) Function {
	uses := make(map[string]int)
	defs := make(map[string][]instLoc)
	dead := make([][]bool, len(fn.Blocks))

	for b, block := range fn.Blocks {
		dead[b] = make([]bool, len(block.Instructions))
		for i, inst := range block.Instructions {
			for _, arg := range inst.Args {
				uses[arg]++
			}
			if inst.HasDest() {
				defs[inst.Dest] = append(defs[inst.Dest], instLoc{b, i})
			}
		}
	}

	var queue []string
	for name := range defs {
		if uses[name] == 0 {
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for _, loc := range defs[name] {
			if dead[loc.block][loc.index] {
				continue
			}
			dead[loc.block][loc.index] = true

			for _, arg := range fn.Blocks[loc.block].Instructions[loc.index].Args {
				uses[arg]--
				if uses[arg] == 0 && len(defs[arg]) > 0 {
					queue = append(queue, arg)
				}
			}
		}
	}

	blocks := make([]BasicBlock, len(fn.Blocks))
	for b, block := range fn.Blocks {
		kept := make([]Instruction, 0, len(block.Instructions))
		for i, inst := range block.Instructions {
			if !dead[b][i] {
				kept = append(kept, inst)
			}
		}
		blocks[b] = BasicBlock{Name: block.Name, Instructions: kept}
	}
	return fn.WithBlocks(blocks)
}

// EliminateDeadStores removes, until nothing changes, every definition in
// block that is followed by another definition of the same name with no use
// of that name in between.
//
// Only this block is inspected. A value that is live out of the block is
// not protected from a later redefinition inside it.
func EliminateDeadStores(block BasicBlock) BasicBlock {
	for {
		next := dropOverwrittenStores(block)
		if next.Equal(block) {
			return next
		}
		block = next
	}
}

func dropOverwrittenStores(block BasicBlock) BasicBlock {
	pending := make(map[string]int) // name -> index of its unused definition
	dead := make([]bool, len(block.Instructions))

	for i, inst := range block.Instructions {
		for _, arg := range inst.Args {
			delete(pending, arg)
		}
		if inst.HasDest() {
			if prev, ok := pending[inst.Dest]; ok {
				dead[prev] = true
			}
			pending[inst.Dest] = i
		}
	}

	kept := make([]Instruction, 0, len(block.Instructions))
	for i, inst := range block.Instructions {
		if !dead[i] {
			kept = append(kept, inst)
		}
	}
	return BasicBlock{Name: block.Name, Instructions: kept}
}
