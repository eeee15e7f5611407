package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"

	"mycfg/grammar"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(program *grammar.Program) []SemanticToken {
	var tokens []SemanticToken

	if program == nil {
		return tokens
	}

	for _, fn := range program.Functions {
		tokens = append(tokens, walkFunction(fn)...)
	}

	return tokens
}

func walkFunction(fn *grammar.Function) []SemanticToken {
	var tokens []SemanticToken

	tokens = append(tokens, identToken(fn.Name, "function", "declaration")...)
	for _, param := range fn.Params {
		tokens = append(tokens, identToken(param.Name, "parameter", "declaration")...)
		tokens = append(tokens, identToken(param.Type, "type")...)
	}
	tokens = append(tokens, identToken(fn.Type, "type")...)

	for _, item := range fn.Body {
		if item.Label != nil {
			tokens = append(tokens, identToken(item.Label.Name, "namespace", "declaration")...)
			continue
		}
		tokens = append(tokens, walkInstruction(item.Instruction)...)
	}

	return tokens
}

func walkInstruction(inst *grammar.Instruction) []SemanticToken {
	var tokens []SemanticToken

	if inst.Target != nil {
		tokens = append(tokens, identToken(inst.Target.Dest, "variable", "declaration")...)
		tokens = append(tokens, identToken(inst.Target.Type, "type")...)
	}
	tokens = append(tokens, identToken(inst.Op, "keyword")...)

	for _, operand := range inst.Operands {
		switch {
		case operand.Func != nil:
			tokens = append(tokens, identToken(operand.Func, "function")...)
		case operand.Label != nil:
			tokens = append(tokens, identToken(operand.Label, "namespace")...)
		case operand.Arg != nil:
			tokens = append(tokens, identToken(operand.Arg, "variable")...)
		case operand.Int != nil:
			tokens = append(tokens, makeToken(operand.Pos, operand.String(), "number")...)
		case operand.Bool != nil:
			tokens = append(tokens, makeToken(operand.Pos, *operand.Bool, "keyword")...)
		}
	}

	return tokens
}

func identToken(ident *grammar.Ident, tokenType string, modifiers ...string) []SemanticToken {
	if ident == nil {
		return nil
	}
	return makeToken(ident.Pos, ident.Value, tokenType, modifiers...)
}

func makeToken(pos lexer.Position, text, tokenType string, modifiers ...string) []SemanticToken {
	if pos.Line == 0 || text == "" {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(len(text)),
		TokenType:      tokenTypeIndex(tokenType),
		TokenModifiers: modifierMask(modifiers),
	}}
}

func tokenTypeIndex(tokenType string) int {
	for i, name := range SemanticTokenTypes {
		if name == tokenType {
			return i
		}
	}
	return 0
}

func modifierMask(modifiers []string) int {
	mask := 0
	for _, modifier := range modifiers {
		for i, name := range SemanticTokenModifiers {
			if name == modifier {
				mask |= 1 << i
			}
		}
	}
	return mask
}

// encodeSemanticTokens packs tokens into the LSP wire format of relative
// line and start offsets.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}
