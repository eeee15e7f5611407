package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var TextLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Punctuation", Pattern: `[@.:;,(){}=]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
