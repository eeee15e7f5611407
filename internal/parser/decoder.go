package parser

import (
	"github.com/tliron/commonlog"

	"mycfg/internal/errors"
	"mycfg/internal/ir"
)

var log = commonlog.GetLogger("mycfg.parser")

// Decode converts a generic tree value into a Program. The first problem
// found aborts decoding; no partial program is returned.
func Decode(tree any) (ir.Program, error) {
	root, err := asObject(tree, nil)
	if err != nil {
		return ir.Program{}, err
	}

	raw, ok := root["functions"]
	if !ok {
		return ir.Program{}, errors.Malformed(nil, "missing required field %q", "functions")
	}
	nodes, err := asList(raw, []string{"functions"})
	if err != nil {
		return ir.Program{}, err
	}

	program := ir.Program{Functions: make([]ir.Function, 0, len(nodes))}
	seen := make(map[string]bool, len(nodes))

	for i, node := range nodes {
		path := index(nil, "functions", i)

		fn, err := decodeFunction(node, path)
		if err != nil {
			return ir.Program{}, err
		}
		if seen[fn.Name] {
			return ir.Program{}, errors.Malformed(child(path, "name"), "duplicate function @%s", fn.Name)
		}
		seen[fn.Name] = true

		log.Debugf("decoded @%s: %d blocks, %d instructions", fn.Name, len(fn.Blocks), fn.InstructionCount())
		program.Functions = append(program.Functions, fn)
	}

	return program, nil
}

// DecodeFunction converts one function record
func DecodeFunction(node any) (ir.Function, error) {
	return decodeFunction(node, nil)
}

func decodeFunction(node any, path []string) (ir.Function, error) {
	obj, err := asObject(node, path)
	if err != nil {
		return ir.Function{}, err
	}

	name, err := obj.requiredString("name", path)
	if err != nil {
		return ir.Function{}, err
	}

	args, err := decodeArguments(obj, path)
	if err != nil {
		return ir.Function{}, err
	}

	retType, err := obj.optionalType("type", path)
	if err != nil {
		return ir.Function{}, err
	}

	var records []any
	if raw, ok := obj["instrs"]; ok {
		records, err = asList(raw, child(path, "instrs"))
		if err != nil {
			return ir.Function{}, err
		}
	}

	blocks, err := buildBlocks(records, path)
	if err != nil {
		return ir.Function{}, err
	}

	return ir.Function{
		Name:       name,
		Args:       args,
		ReturnType: retType,
		Blocks:     blocks,
	}, nil
}

func decodeArguments(obj object, path []string) ([]ir.Argument, error) {
	raw, ok := obj["args"]
	if !ok {
		return nil, nil
	}
	nodes, err := asList(raw, child(path, "args"))
	if err != nil {
		return nil, err
	}

	args := make([]ir.Argument, len(nodes))
	for i, node := range nodes {
		argPath := index(path, "args", i)

		arg, err := asObject(node, argPath)
		if err != nil {
			return nil, err
		}
		name, err := arg.requiredString("name", argPath)
		if err != nil {
			return nil, err
		}
		typeRaw, ok := arg["type"]
		if !ok {
			return nil, errors.Malformed(argPath, "missing required field %q", "type")
		}
		typ, err := decodeType(typeRaw, child(argPath, "type"))
		if err != nil {
			return nil, err
		}

		args[i] = ir.Argument{Name: name, Type: typ}
	}
	return args, nil
}

// DecodeInstruction converts one instruction record ({"op": ...}) into an
// Instruction, validating the field shape its opcode requires.
func DecodeInstruction(node any) (ir.Instruction, error) {
	obj, err := asObject(node, nil)
	if err != nil {
		return ir.Instruction{}, err
	}
	return decodeInstruction(obj, nil)
}

func decodeInstruction(obj object, path []string) (ir.Instruction, error) {
	mnemonic, err := obj.requiredString("op", path)
	if err != nil {
		return ir.Instruction{}, err
	}
	op, ok := ir.LookupOp(mnemonic)
	if !ok {
		return ir.Instruction{}, errors.UnknownOpcode(child(path, "op"), mnemonic)
	}

	inst := ir.Instruction{Op: op}

	dest, hasDest, err := obj.optionalString("dest", path)
	if err != nil {
		return ir.Instruction{}, err
	}
	if hasDest && dest == "" {
		return ir.Instruction{}, errors.Malformed(child(path, "dest"), "destination must not be empty")
	}
	inst.Dest = dest

	if inst.Type, err = obj.optionalType("type", path); err != nil {
		return ir.Instruction{}, err
	}
	if inst.Args, err = obj.optionalStrings("args", path); err != nil {
		return ir.Instruction{}, err
	}
	if inst.Funcs, err = obj.optionalStrings("funcs", path); err != nil {
		return ir.Instruction{}, err
	}
	if inst.Labels, err = obj.optionalStrings("labels", path); err != nil {
		return ir.Instruction{}, err
	}
	if raw, ok := obj["value"]; ok {
		if inst.Value, err = decodeValue(raw, child(path, "value")); err != nil {
			return ir.Instruction{}, err
		}
	}

	if err := checkShape(inst, path); err != nil {
		return ir.Instruction{}, err
	}
	return inst, nil
}
