package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Text form of a program:
//
//	@name(a: int, b: bool): int {
//	.label:
//	  dst: int = op arg @func .label 5;
//	  op arg;
//	}

type Program struct {
	Functions []*Function `@@*`
}

type Function struct {
	Pos    lexer.Position
	Name   *Ident      `"@" @@`
	Params []*Param    `[ "(" [ @@ { "," @@ } ] ")" ]`
	Type   *Ident      `[ ":" @@ ]`
	Body   []*BodyItem `"{" @@* "}"`
}

type Param struct {
	Name *Ident `@@ ":"`
	Type *Ident `@@`
}

type Ident struct {
	Pos   lexer.Position
	Value string `@Ident`
}

type BodyItem struct {
	Label       *Label       `  @@`
	Instruction *Instruction `| @@`
}

type Label struct {
	Pos  lexer.Position
	Name *Ident `"." @@ ":"`
}

type Instruction struct {
	Pos      lexer.Position
	Target   *Target    `@@?`
	Op       *Ident     `@@`
	Operands []*Operand `@@* ";"`
}

type Target struct {
	Dest *Ident `@@ ":"`
	Type *Ident `@@ "="`
}

type Operand struct {
	Pos   lexer.Position
	Func  *Ident  `  "@" @@`
	Label *Ident  `| "." @@`
	Int   *int64  `| @Int`
	Bool  *string `| @("true" | "false")`
	Arg   *Ident  `| @@`
}
