package analysis

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/rlch/annohint/javasrc"
)

// builtinSources declares the JDK annotation types every Java file can use.
//
//go:embed builtin/*.java
var builtinSources embed.FS

// BuiltinPathPrefix prefixes the Path of builtin declarations.
const BuiltinPathPrefix = "builtin:"

// LoadBuiltins indexes the embedded java.lang and java.lang.annotation
// declarations.
func (idx *Index) LoadBuiltins(ctx context.Context, parser *javasrc.Parser) error {
	entries, err := fs.ReadDir(builtinSources, "builtin")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := path.Join("builtin", entry.Name())

		source, err := builtinSources.ReadFile(name)
		if err != nil {
			return err
		}

		f, err := parser.Parse(ctx, source)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}

		f.Path = BuiltinPathPrefix + entry.Name()
		decls := Extract(f)
		f.Close()

		for _, t := range decls.Types {
			t.Builtin = true
		}

		idx.Update(decls)
	}

	return nil
}
