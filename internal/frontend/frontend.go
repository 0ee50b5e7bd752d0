// Package frontend defines the consumed front-end interface (spec §6,
// "Consumed: Front-end") and a SCIP-backed implementation of it.
//
// The core never talks to a compiler directly; it calls a Source to
// turn one compilation-database entry into a corpus.ExtractResult,
// following the teacher's backend-package split (internal/backends/scip
// loads and normalizes a wire format, a separate adapter layer turns
// that normalized form into whatever the consumer needs).
package frontend

import (
	"context"

	"mrdocs/internal/corpus"
)

// Source is the consumed front-end interface: given a translation unit
// and a virtual file system to write retry shims into, it returns the
// symbols and raw doc comments extracted from that one TU (spec §6:
// "a function producing a stream of Symbol records, source locations,
// and raw doc comments for a translation unit, parameterized by a
// compilation-database entry").
type Source interface {
	Extract(ctx context.Context, entry corpus.CompilationDatabaseEntry, vfs corpus.VFS) corpus.ExtractResult
}

// AsExtractor adapts a Source to the corpus.Extractor function type the
// Builder consumes.
func AsExtractor(src Source) corpus.Extractor {
	return func(ctx context.Context, entry corpus.CompilationDatabaseEntry, vfs corpus.VFS) corpus.ExtractResult {
		return src.Extract(ctx, entry, vfs)
	}
}
