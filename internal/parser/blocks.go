package parser

import (
	"fmt"

	"mycfg/internal/errors"
	"mycfg/internal/ir"
)

// BlockBuilder groups a flat instruction stream into basic blocks. It keeps
// one pending block: a buffer of instructions and an optional name.
type BlockBuilder struct {
	blocks  []ir.BasicBlock
	pending []ir.Instruction
	name    string
	named   bool
}

// NewBlockBuilder creates an empty builder
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{}
}

// Label starts a new block name. A non-empty pending block is finished
// first; consecutive labels with nothing between them keep only the last.
func (b *BlockBuilder) Label(name string) {
	b.finalize()
	b.name = name
	b.named = true
}

// Add appends inst to the pending block and finishes the block if inst is
// a terminator.
func (b *BlockBuilder) Add(inst ir.Instruction) {
	b.pending = append(b.pending, inst)
	if inst.IsTerminator() {
		b.finalize()
		b.name = ""
		b.named = false
	}
}

// Finish finishes any trailing instructions and returns the blocks in
// program order.
func (b *BlockBuilder) Finish() []ir.BasicBlock {
	b.finalize()
	return b.blocks
}

// finalize turns a non-empty pending buffer into a block. Unnamed blocks
// are called block_<k>, k being the number of blocks finished so far. The
// synthesized name is not checked against explicit labels.
func (b *BlockBuilder) finalize() {
	if len(b.pending) == 0 {
		return
	}

	name := b.name
	if !b.named {
		name = fmt.Sprintf("block_%d", len(b.blocks))
	}

	b.blocks = append(b.blocks, ir.BasicBlock{Name: name, Instructions: b.pending})
	b.pending = nil
	b.name = ""
	b.named = false
}

// BuildBlocks decodes a function's "instrs" records, labels and
// instructions interleaved, into basic blocks.
func BuildBlocks(records []any) ([]ir.BasicBlock, error) {
	return buildBlocks(records, nil)
}

func buildBlocks(records []any, path []string) ([]ir.BasicBlock, error) {
	builder := NewBlockBuilder()

	for i, record := range records {
		recPath := index(path, "instrs", i)

		obj, err := asObject(record, recPath)
		if err != nil {
			return nil, err
		}

		if _, ok := obj["op"]; ok {
			inst, err := decodeInstruction(obj, recPath)
			if err != nil {
				return nil, err
			}
			builder.Add(inst)
			continue
		}

		if _, ok := obj["label"]; ok {
			label, err := obj.requiredString("label", recPath)
			if err != nil {
				return nil, err
			}
			builder.Label(label)
			continue
		}

		return nil, errors.Malformed(recPath, "record has neither %q nor %q", "op", "label")
	}

	return builder.Finish(), nil
}
