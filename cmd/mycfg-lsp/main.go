// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"mycfg/internal/lsp"
)

const lsName = "mycfg"

var (
	version = "0.0.1"
	handler protocol.Handler
)

func main() {
	// 1 = debug level, nil = default backend output
	commonlog.Configure(1, nil)
	log := commonlog.GetLogger("mycfg.lsp")

	irHandler := lsp.NewHandler()

	handler = protocol.Handler{
		Initialize:                     irHandler.Initialize,
		Initialized:                    irHandler.Initialized,
		Shutdown:                       irHandler.Shutdown,
		SetTrace:                       irHandler.SetTrace,
		TextDocumentDidOpen:            irHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           irHandler.TextDocumentDidClose,
		TextDocumentDidChange:          irHandler.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: irHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s language server %s", lsName, version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}
