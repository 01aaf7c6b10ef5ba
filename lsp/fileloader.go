package lsp

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint"
	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// FileLoader keeps the index in sync with Java files on disk that are not
// open in the editor.
type FileLoader struct {
	logger *zap.Logger
	index  *analysis.Index

	// mu guards parser and maxFileSize.
	mu          sync.Mutex
	parser      *javasrc.Parser
	maxFileSize int64
}

// NewFileLoader creates a loader that writes into index.
func NewFileLoader(logger *zap.Logger, index *analysis.Index) *FileLoader {
	return &FileLoader{
		logger:      logger,
		index:       index,
		parser:      javasrc.NewParser(),
		maxFileSize: annohint.DefaultMaxFileSize,
	}
}

// SetMaxFileSize updates the size above which files are not indexed.
func (l *FileLoader) SetMaxFileSize(n int64) {
	l.mu.Lock()
	l.maxFileSize = n
	l.mu.Unlock()
}

// Load reads a file from disk, refusing files above the size limit.
func (l *FileLoader) Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	limit := l.maxFileSize
	l.mu.Unlock()

	if info.Size() > limit {
		return nil, &javasrc.FileReadError{Path: path, Err: errFileTooLarge}
	}

	return os.ReadFile(path)
}

var errFileTooLarge = errors.New("file exceeds max_file_size")

// Reindex replaces the declarations of path with its content on disk. A file
// that no longer exists is removed from the index.
func (l *FileLoader) Reindex(ctx context.Context, path string) error {
	if !IsJavaFile(path) {
		return nil
	}

	content, err := l.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.index.RemoveFile(path)

			return nil
		}

		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.index.IndexSource(ctx, l.parser, path, content)
	if err != nil {
		return err
	}

	l.logger.Debug("Reindexed file", zap.String("path", path))

	return nil
}

// Remove drops the declarations of path from the index.
func (l *FileLoader) Remove(path string) {
	l.index.RemoveFile(path)
}

// Close releases the loader's parser.
func (l *FileLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.parser.Close()
}

// IsJavaFile reports whether path names a Java source file.
func IsJavaFile(path string) bool {
	return strings.HasSuffix(path, ".java")
}

// URIToPath converts a document URI to a file system path.
func URIToPath(uri protocol.DocumentURI) string {
	// Parse the URI
	u, err := url.Parse(string(uri))
	if err != nil {
		// Fallback: strip file:// prefix
		return strings.TrimPrefix(string(uri), "file://")
	}

	// For file:// URIs, return the path
	if u.Scheme == "file" {
		return filepath.FromSlash(u.Path)
	}

	return string(uri)
}

// PathToURI converts a file system path to a document URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI("file://" + filepath.ToSlash(path))
}
