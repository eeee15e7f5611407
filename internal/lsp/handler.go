package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mycfg/grammar"
	"mycfg/internal/ir"
	"mycfg/internal/parser"
)

var log = commonlog.GetLogger("mycfg.lsp")

// SemanticTokenTypes is the token type legend advertised to clients
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"keyword",
	"number",
}

// SemanticTokenModifiers is the token modifier legend advertised to clients
var SemanticTokenModifiers = []string{
	"declaration",
}

// document is the last known state of an open text-form file
type document struct {
	content string
	syntax  *grammar.Program
	program ir.Program
	err     error
}

// Handler implements the LSP server handlers for text-form IR files
type Handler struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentUri]*document
}

// NewHandler creates and returns a new Handler instance
func NewHandler() *Handler {
	return &Handler{
		documents: make(map[protocol.DocumentUri]*document),
	}
}

// Initialize responds to the client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// SetTrace updates the trace level requested by the client
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// Only full document sync is advertised; when no whole-document change is
// present the file is re-read from disk.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	content, ok := wholeContent(params.ContentChanges)
	if !ok {
		path, err := uriToPath(params.TextDocument.URI)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		content = string(source)
	}

	h.update(ctx, params.TextDocument.URI, content)
	return nil
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	delete(h.documents, params.TextDocument.URI)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI

	h.mu.RLock()
	doc, ok := h.documents[uri]
	h.mu.RUnlock()

	if !ok {
		path, err := uriToPath(uri)
		if err != nil {
			return nil, err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		doc = h.update(ctx, uri, string(source))
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(doc.syntax)),
	}, nil
}

// Program returns the decoded program of an open document, or false when
// the document is unknown or failed to decode.
func (h *Handler) Program(uri protocol.DocumentUri) (ir.Program, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	doc, ok := h.documents[uri]
	if !ok || doc.err != nil {
		return ir.Program{}, false
	}
	return doc.program, true
}

func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, content string) *document {
	doc := analyze(uri, content)

	h.mu.Lock()
	h.documents[uri] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, ConvertError(doc.err, doc.syntax))
	return doc
}

func analyze(uri protocol.DocumentUri, content string) *document {
	doc := &document{content: content}

	syntax, err := grammar.ParseSource(uri, content)
	if err != nil {
		doc.err = err
		return doc
	}
	doc.syntax = syntax

	tree, err := syntax.Tree()
	if err != nil {
		doc.err = err
		return doc
	}

	doc.program, doc.err = parser.Decode(tree)
	return doc
}

func wholeContent(changes []any) (string, bool) {
	content, ok := "", false
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content, ok = c.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			content, ok = c.Text, true
		}
	}
	return content, ok
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
