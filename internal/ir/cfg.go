package ir

import (
	"fmt"
	"slices"
	"strings"
)

// ControlFlowGraph maps every block name of a function to its ordered
// successor block names.
type ControlFlowGraph map[string][]string

// Successors computes the control flow graph of fn.
//
// A block ending in jmp flows to its label and a block ending in br flows to
// its true label then its false label. Every other non-last block, including
// one ending in ret, falls through to the next block in program order. The
// last block never has successors.
func Successors(fn Function) ControlFlowGraph {
	cfg := make(ControlFlowGraph, len(fn.Blocks))

	for i, block := range fn.Blocks {
		if i == len(fn.Blocks)-1 {
			cfg[block.Name] = []string{}
			break
		}

		terminal, ok := block.Terminal()
		switch {
		case ok && terminal.Op == OpJmp:
			cfg[block.Name] = []string{terminal.Labels[0]}
		case ok && terminal.Op == OpBr:
			cfg[block.Name] = []string{terminal.Labels[0], terminal.Labels[1]}
		default:
			cfg[block.Name] = []string{fn.Blocks[i+1].Name}
		}
	}

	return cfg
}

// Nodes returns the block names in lexicographic order
func (g ControlFlowGraph) Nodes() []string {
	nodes := make([]string, 0, len(g))
	for name := range g {
		nodes = append(nodes, name)
	}
	slices.Sort(nodes)
	return nodes
}

// Predecessors inverts the graph. Each predecessor list is in lexicographic
// order of the source block.
func (g ControlFlowGraph) Predecessors() map[string][]string {
	preds := make(map[string][]string, len(g))
	for _, name := range g.Nodes() {
		if _, ok := preds[name]; !ok {
			preds[name] = []string{}
		}
		for _, succ := range g[name] {
			preds[succ] = append(preds[succ], name)
		}
	}
	return preds
}

// Graphviz renders fn's control flow graph as a digraph description with
// nodes and edges sorted by block name.
func Graphviz(fn Function) string {
	cfg := Successors(fn)
	nodes := cfg.Nodes()

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", fn.Name)
	for _, name := range nodes {
		fmt.Fprintf(&b, "  %s;\n", name)
	}
	for _, name := range nodes {
		for _, succ := range cfg[name] {
			fmt.Fprintf(&b, "  %s -> %s;\n", name, succ)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
