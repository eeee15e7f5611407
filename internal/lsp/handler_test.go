package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mycfg/internal/lsp"
)

const countdown = `@main(n: int) {
  one: int = const 1;
.loop:
  n: int = sub n one;
  br n .loop .done;
.done:
  print n;
}
`

type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (r *recorder) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	require.NotEmpty(t, r.published, "no diagnostics published")
	return r.published[len(r.published)-1]
}

func open(t *testing.T, handler *lsp.Handler, ctx *glsp.Context, uri, text string) {
	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "bril", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenValidDocument(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}

	open(t, handler, rec.context(), "file:///tmp/ok.bril", countdown)

	published := rec.last(t)
	assert.Equal(t, "file:///tmp/ok.bril", published.URI)
	assert.Empty(t, published.Diagnostics)

	program, ok := handler.Program("file:///tmp/ok.bril")
	require.True(t, ok)
	require.Len(t, program.Functions, 1)
	assert.Len(t, program.Functions[0].Blocks, 3)
}

func TestDidOpenSyntaxError(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}

	open(t, handler, rec.context(), "file:///tmp/bad.bril", "@main {\n  one: int = const 1\n}\n")

	diagnostics := rec.last(t).Diagnostics
	require.Len(t, diagnostics, 1)
	assert.Equal(t, uint32(2), diagnostics[0].Range.Start.Line)
	assert.Equal(t, "mycfg-parser", *diagnostics[0].Source)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)

	_, ok := handler.Program("file:///tmp/bad.bril")
	assert.False(t, ok)
}

func TestDidOpenDecodeError(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}

	open(t, handler, rec.context(), "file:///tmp/op.bril", "@main {\n  nop;\n  x: int = frob;\n}\n")

	diagnostics := rec.last(t).Diagnostics
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "mycfg-decoder", *diagnostics[0].Source)
	assert.Equal(t, "E0100", diagnostics[0].Code.Value)
	assert.Contains(t, diagnostics[0].Message, "functions[0].instrs[1].op")
	assert.Equal(t, uint32(2), diagnostics[0].Range.Start.Line)
	assert.Equal(t, uint32(11), diagnostics[0].Range.Start.Character)
}

func TestDidChangeWholeDocument(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}
	ctx := rec.context()
	uri := "file:///tmp/change.bril"

	open(t, handler, ctx, uri, "@main {")
	require.Len(t, rec.last(t).Diagnostics, 1)

	err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: countdown}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)

	_, ok := handler.Program(uri)
	assert.True(t, ok)
}

func TestDidChangeReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.bril")
	require.NoError(t, os.WriteFile(path, []byte(countdown), 0o644))
	uri := "file://" + filepath.ToSlash(path)

	handler := lsp.NewHandler()
	rec := &recorder{}

	err := handler.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestDidCloseClearsState(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}
	ctx := rec.context()
	uri := "file:///tmp/close.bril"

	open(t, handler, ctx, uri, countdown)
	err := handler.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	assert.Empty(t, rec.last(t).Diagnostics)
	_, ok := handler.Program(uri)
	assert.False(t, ok)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewHandler()
	rec := &recorder{}
	ctx := rec.context()
	uri := "file:///tmp/tokens.bril"

	open(t, handler, ctx, uri, countdown)

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 20)

	assertToken(t, &decoded[0], 1, 2, 4, "function", []string{"declaration"})
	assertToken(t, &decoded[1], 1, 7, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 10, 3, "type", nil)
	assertToken(t, &decoded[3], 2, 3, 3, "variable", []string{"declaration"})
	assertToken(t, &decoded[4], 2, 8, 3, "type", nil)
	assertToken(t, &decoded[5], 2, 14, 5, "keyword", nil)
	assertToken(t, &decoded[6], 2, 20, 1, "number", nil)
	assertToken(t, &decoded[7], 3, 2, 4, "namespace", []string{"declaration"})
	assertToken(t, &decoded[8], 4, 3, 1, "variable", []string{"declaration"})
	assertToken(t, &decoded[9], 4, 6, 3, "type", nil)
	assertToken(t, &decoded[10], 4, 12, 3, "keyword", nil)
	assertToken(t, &decoded[11], 4, 16, 1, "variable", nil)
	assertToken(t, &decoded[12], 4, 18, 3, "variable", nil)
	assertToken(t, &decoded[13], 5, 3, 2, "keyword", nil)
	assertToken(t, &decoded[14], 5, 6, 1, "variable", nil)
	assertToken(t, &decoded[15], 5, 9, 4, "namespace", nil)
	assertToken(t, &decoded[16], 5, 15, 4, "namespace", nil)
	assertToken(t, &decoded[17], 6, 2, 4, "namespace", []string{"declaration"})
	assertToken(t, &decoded[18], 7, 3, 5, "keyword", nil)
	assertToken(t, &decoded[19], 7, 9, 1, "variable", nil)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if raw[i+4]&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    raw[i+2],
			Type:      lsp.SemanticTokenTypes[raw[i+3]],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
