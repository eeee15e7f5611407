package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"

	"mycfg/internal/errors"
)

// Tree lowers the parsed program to the generic tree value of the JSON
// encoding: objects are map[string]any, lists are []any.
func (p *Program) Tree() (any, error) {
	functions := make([]any, 0, len(p.Functions))
	for _, fn := range p.Functions {
		node, err := fn.tree()
		if err != nil {
			return nil, err
		}
		functions = append(functions, node)
	}
	return map[string]any{"functions": functions}, nil
}

func (f *Function) tree() (map[string]any, error) {
	node := map[string]any{"name": f.Name.Value}

	if len(f.Params) > 0 {
		args := make([]any, len(f.Params))
		for i, param := range f.Params {
			args[i] = map[string]any{"name": param.Name.Value, "type": param.Type.Value}
		}
		node["args"] = args
	}
	if f.Type != nil {
		node["type"] = f.Type.Value
	}

	instrs := make([]any, 0, len(f.Body))
	for _, item := range f.Body {
		if item.Label != nil {
			instrs = append(instrs, map[string]any{"label": item.Label.Name.Value})
			continue
		}
		inst, err := item.Instruction.tree()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, inst)
	}
	node["instrs"] = instrs

	return node, nil
}

func (i *Instruction) tree() (map[string]any, error) {
	node := map[string]any{"op": i.Op.Value}

	if i.Target != nil {
		node["dest"] = i.Target.Dest.Value
		node["type"] = i.Target.Type.Value
	}

	var args, funcs, labels []any
	for _, operand := range i.Operands {
		switch {
		case operand.Func != nil:
			funcs = append(funcs, operand.Func.Value)
		case operand.Label != nil:
			labels = append(labels, operand.Label.Value)
		case operand.Arg != nil:
			args = append(args, operand.Arg.Value)
		default:
			if _, ok := node["value"]; ok {
				return nil, syntaxAt(operand.Pos, "instruction has more than one literal operand")
			}
			if operand.Int != nil {
				node["value"] = *operand.Int
			} else {
				node["value"] = *operand.Bool == "true"
			}
		}
	}

	if args != nil {
		node["args"] = args
	}
	if funcs != nil {
		node["funcs"] = funcs
	}
	if labels != nil {
		node["labels"] = labels
	}

	return node, nil
}

func syntaxAt(pos lexer.Position, message string) error {
	return &errors.SyntaxError{
		Position: errors.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column},
		Message:  message,
	}
}
