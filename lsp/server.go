// Package lsp implements a Language Server Protocol server for Java
// annotation parameter info.
package lsp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint"
	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
	"github.com/rlch/annohint/paraminfo"
)

// Server implements the LSP Server interface for annohint.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// level is adjusted to the configured log level when set.
	level *zap.AtomicLevel

	// Document state. Tree-sitter node lookups write to the tree's node
	// cache, so every access to a parse tree holds mu exclusively.
	mu        sync.Mutex
	documents map[protocol.DocumentURI]*Document

	// Workspace declarations, shared by the analyzer and the provider.
	index *analysis.Index

	// Analyzer for diagnostics.
	analyzer *analysis.Analyzer

	// Parameter info for annotation argument lists.
	provider *paraminfo.Provider

	// FileLoader reindexes files changed on disk.
	fileLoader *FileLoader

	config *annohint.Config

	// Background workspace indexing.
	indexOnce   sync.Once
	indexed     chan struct{}
	cancelIndex context.CancelFunc

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Analysis *analysis.AnalyzedFile

	// Session is the open parameter info popup, if any.
	Session *paraminfo.Session
}

// Option configures a Server.
type Option func(*Server)

// WithLevel lets the server apply the configured log_level to level.
func WithLevel(level zap.AtomicLevel) Option {
	return func(s *Server) {
		s.level = &level
	}
}

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger, opts ...Option) *Server {
	index := analysis.NewIndex(logger)

	s := &Server{
		client:      client,
		logger:      logger,
		documents:   make(map[protocol.DocumentURI]*Document),
		index:       index,
		analyzer:    analysis.NewAnalyzer(index),
		provider:    paraminfo.NewProvider(index),
		fileLoader:  NewFileLoader(logger, index),
		indexed:     make(chan struct{}),
		cancelIndex: func() {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Index returns the workspace index.
func (s *Server) Index() *analysis.Index {
	return s.index
}

// Indexed is closed once the initial workspace indexing has finished.
func (s *Server) Indexed() <-chan struct{} {
	return s.indexed
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootURI", string(params.RootURI)))

	// Extract workspace root from params
	switch {
	case params.RootURI != "":
		s.workspaceRoot = URIToPath(params.RootURI)
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = URIToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}

	s.config = s.loadConfig()
	s.fileLoader.SetMaxFileSize(s.config.MaxFileSize)

	if s.level != nil {
		err := s.level.UnmarshalText([]byte(s.config.LogLevel))
		if err != nil {
			s.logger.Warn("Invalid log_level in config", zap.String("level", s.config.LogLevel), zap.Error(err))
		}
	}

	s.indexOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelIndex = cancel

		go s.indexWorkspace(ctx, s.config)
	})

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			// Element documentation
			HoverProvider: true,
			// Annotation type and element declarations
			DefinitionProvider: true,
			// Element names inside argument lists
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"(", ","},
				ResolveProvider:   false,
			},
			// Outline of declared annotation types
			DocumentSymbolProvider: true,
			// Usages of the same annotation type or element
			DocumentHighlightProvider: true,
			// Add missing elements
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.QuickFix,
				},
			},
			// Workspace symbol search
			WorkspaceSymbolProvider: true,
			// Parameter info for annotation argument lists
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters:   []string{"("},
				RetriggerCharacters: strings.Split(s.provider.CloseChars(), ""),
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "annohint-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// loadConfig finds the config for the workspace root, falling back to the
// defaults when there is none.
func (s *Server) loadConfig() *annohint.Config {
	if s.workspaceRoot == "" {
		return annohint.DefaultConfig("")
	}

	cfg, err := annohint.LoadConfig(s.workspaceRoot)
	if err != nil {
		if !errors.Is(err, annohint.ErrConfigNotFound) {
			s.logger.Warn("Failed to load config, using defaults", zap.Error(err))
		}

		return annohint.DefaultConfig(s.workspaceRoot)
	}

	s.logger.Info("Loaded config", zap.String("dir", cfg.Dir()), zap.Strings("source_roots", cfg.SourceRoots))

	return cfg
}

// indexWorkspace indexes the configured source roots. Requests are served
// while it runs; open documents win over their on-disk versions.
func (s *Server) indexWorkspace(ctx context.Context, cfg *annohint.Config) {
	defer close(s.indexed)

	start := time.Now()

	var (
		files int
		err   error
	)

	switch {
	case s.workspaceRoot != "":
		files, err = s.index.IndexWorkspace(ctx, cfg)
	case cfg.BuiltinsEnabled():
		parser := javasrc.NewParser()
		err = s.index.LoadBuiltins(ctx, parser)
		parser.Close()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Failed to index workspace", zap.Error(err))
	}

	s.mu.Lock()
	for _, doc := range s.documents {
		if doc.Analysis != nil && doc.Analysis.Decls != nil {
			s.index.Update(doc.Analysis.Decls)
		}
	}
	s.mu.Unlock()

	s.logger.Info("Indexed workspace",
		zap.Int("files", files),
		zap.Int("types", s.index.Len()),
		zap.Duration("elapsed", time.Since(start)))
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	if s.cancelIndex != nil {
		s.cancelIndex()
	}

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	s.analyze(ctx, doc)
	s.documents[params.TextDocument.URI] = doc

	// Publish diagnostics
	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version

		s.analyze(ctx, doc)

		// Publish diagnostics
		s.publishDiagnostics(ctx, doc)
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.documents[params.TextDocument.URI]; ok {
		if doc.Analysis != nil {
			doc.Analysis.Close()
		}

		delete(s.documents, params.TextDocument.URI)
	}

	// The editor buffer no longer overrides the file on disk.
	err := s.fileLoader.Reindex(ctx, URIToPath(params.TextDocument.URI))
	if err != nil {
		s.logger.Debug("Failed to reindex closed document", zap.Error(err))
	}

	// Clear diagnostics for closed document
	err = s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))
	// The open buffer is already indexed.
	return nil
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles. Files open in
// the editor are skipped.
func (s *Server) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, change := range params.Changes {
		if _, open := s.documents[change.URI]; open {
			continue
		}

		path := URIToPath(change.URI)
		if !IsJavaFile(path) {
			continue
		}

		s.logger.Debug("Watched file changed",
			zap.String("path", path),
			zap.Int("type", int(change.Type)))

		if change.Type == protocol.FileChangeTypeDeleted {
			s.fileLoader.Remove(path)

			continue
		}

		err := s.fileLoader.Reindex(ctx, path)
		if err != nil {
			s.logger.Debug("Failed to reindex watched file", zap.String("path", path), zap.Error(err))
		}
	}

	return nil
}

// analyze re-analyzes doc and records its declarations in the index.
// Callers hold s.mu.
func (s *Server) analyze(ctx context.Context, doc *Document) {
	previous := doc.Analysis

	path := URIToPath(doc.URI)
	doc.Analysis = s.analyzer.Analyze(ctx, path, []byte(doc.Content))

	if doc.Analysis.Decls != nil {
		s.index.Update(doc.Analysis.Decls)
	}

	if previous != nil {
		previous.Close()
	}
}

// parsedDocument returns the open document and its parse tree.
// Callers hold s.mu.
func (s *Server) parsedDocument(uri protocol.DocumentURI) (*Document, *javasrc.File, bool) {
	doc, ok := s.documents[uri]
	if !ok || doc.Analysis == nil || doc.Analysis.File == nil {
		return nil, nil, false
	}

	return doc, doc.Analysis.File, true
}
