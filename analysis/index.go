package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rlch/annohint"
	"github.com/rlch/annohint/javasrc"
)

// Index holds the type declarations of a workspace, keyed by qualified name.
// It is safe for concurrent use.
type Index struct {
	logger *zap.Logger

	mu sync.RWMutex

	// types maps qualified names to declarations.
	types map[string]*TypeDecl

	// files maps a file path to the qualified names it declares.
	files map[string][]string
}

// NewIndex creates an empty index.
func NewIndex(logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Index{
		logger: logger,
		types:  make(map[string]*TypeDecl),
		files:  make(map[string][]string),
	}
}

// Lookup returns the declaration with the given qualified name.
func (idx *Index) Lookup(qualifiedName string) *TypeDecl {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.types[qualifiedName]
}

// Types returns all indexed declarations sorted by qualified name.
func (idx *Index) Types() []*TypeDecl {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	types := make([]*TypeDecl, 0, len(idx.types))
	for _, t := range idx.types {
		types = append(types, t)
	}

	slices.SortFunc(types, func(a, b *TypeDecl) int {
		return strings.Compare(a.QualifiedName, b.QualifiedName)
	})

	return types
}

// Annotations returns the indexed annotation types sorted by qualified name.
func (idx *Index) Annotations() []*TypeDecl {
	var annotations []*TypeDecl

	for _, t := range idx.Types() {
		if t.IsAnnotation() {
			annotations = append(annotations, t)
		}
	}

	return annotations
}

// Len returns the number of indexed declarations.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.types)
}

// Update replaces the declarations of decls.Path with decls.
func (idx *Index) Update(decls *FileDecls) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(decls.Path)

	names := make([]string, 0, len(decls.Types))

	for _, t := range decls.Types {
		idx.types[t.QualifiedName] = t
		names = append(names, t.QualifiedName)
	}

	idx.files[decls.Path] = names
}

// RemoveFile drops the declarations of a file.
func (idx *Index) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(path)
}

func (idx *Index) removeLocked(path string) {
	for _, name := range idx.files[path] {
		// Another file may have redeclared the name since.
		if t, ok := idx.types[name]; ok && t.Path == path {
			delete(idx.types, name)
		}
	}

	delete(idx.files, path)
}

// IndexFile parses a file from disk and updates its declarations.
func (idx *Index) IndexFile(ctx context.Context, parser *javasrc.Parser, path string) error {
	f, err := parser.ParseFile(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx.Update(Extract(f))

	return nil
}

// IndexSource parses in-memory source for path and updates its declarations.
func (idx *Index) IndexSource(ctx context.Context, parser *javasrc.Parser, path string, source []byte) error {
	f, err := parser.Parse(ctx, source)
	if err != nil {
		return err
	}
	defer f.Close()

	f.Path = path
	idx.Update(Extract(f))

	return nil
}

// IndexWorkspace indexes every .java file under the configured source roots,
// plus the builtin declarations when enabled. Files that fail to parse are
// logged and skipped. Returns the number of files indexed.
func (idx *Index) IndexWorkspace(ctx context.Context, cfg *annohint.Config) (int, error) {
	parser := javasrc.NewParser()
	defer parser.Close()

	if cfg.BuiltinsEnabled() {
		err := idx.LoadBuiltins(ctx, parser)
		if err != nil {
			return 0, fmt.Errorf("loading builtins: %w", err)
		}
	}

	total := 0

	for _, root := range cfg.Roots() {
		n, err := idx.indexDir(ctx, parser, root, cfg)
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func (idx *Index) indexDir(ctx context.Context, parser *javasrc.Parser, root string, cfg *annohint.Config) (int, error) {
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				idx.logger.Warn("Source root does not exist", zap.String("root", root))

				return filepath.SkipDir
			}

			return nil // Skip unreadable entries
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && cfg.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !strings.HasSuffix(path, ".java") {
			return nil
		}

		if info, infoErr := d.Info(); infoErr == nil && info.Size() > cfg.MaxFileSize {
			idx.logger.Debug("Skipping large file", zap.String("path", path), zap.Int64("size", info.Size()))

			return nil
		}

		if indexErr := idx.IndexFile(ctx, parser, path); indexErr != nil {
			idx.logger.Debug("Failed to index file", zap.String("path", path), zap.Error(indexErr))

			return nil
		}

		count++

		return nil
	})

	return count, err
}

// Resolve implements Resolver. Simple names are looked up, in order, among
// the types of the same file, single-type imports, the file's package,
// on-demand imports and java.lang. Dotted names are tried as fully qualified
// first, then as a nested type of a resolvable outer type.
func (idx *Index) Resolve(scope *FileDecls, name string) *TypeDecl {
	name = compactName(name)
	if name == "" {
		return nil
	}

	head, rest, dotted := strings.Cut(name, ".")
	if dotted {
		if t := idx.Lookup(name); t != nil {
			return t
		}

		outer := idx.resolveSimple(scope, head)
		if outer == nil {
			return nil
		}

		nested := outer.QualifiedName + "." + rest
		if scope != nil {
			for _, t := range scope.Types {
				if t.QualifiedName == nested {
					return t
				}
			}
		}

		return idx.Lookup(nested)
	}

	return idx.resolveSimple(scope, name)
}

func (idx *Index) resolveSimple(scope *FileDecls, name string) *TypeDecl {
	if scope != nil {
		if t := scope.Local(name); t != nil {
			return t
		}

		for _, imp := range scope.Imports {
			if imp.OnDemand {
				continue
			}

			if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
				if t := idx.Lookup(imp.Name); t != nil {
					return t
				}
			}
		}

		if t := idx.Lookup(qualify(scope.Package, name)); t != nil {
			return t
		}

		for _, imp := range scope.Imports {
			if !imp.OnDemand {
				continue
			}

			if t := idx.Lookup(imp.Name + "." + name); t != nil {
				return t
			}
		}
	}

	if t := idx.Lookup("java.lang." + name); t != nil {
		return t
	}

	return idx.Lookup(name)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}

	return pkg + "." + name
}

// Ensure Index implements Resolver.
var _ Resolver = (*Index)(nil)
