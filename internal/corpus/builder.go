package corpus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/paths"
	"mrdocs/internal/symbol"
)

// MaxShimRetries bounds the builder's missing-symbol retry loop (spec
// §4.1: "This retry loop is bounded (e.g., 1000 attempts)").
const MaxShimRetries = 1000

// CompilationDatabaseEntry parameterizes one translation-unit
// extraction call (spec §6, "Consumed: Front-end").
type CompilationDatabaseEntry struct {
	File string
	Args []string
}

// VFS is the virtual file system the core supplies per TU task, into
// which the builder writes synthetic shim headers when the
// front-end's missing-symbol sink is non-empty.
type VFS interface {
	// WriteShim injects source declaring the given missing names so a
	// re-run of the same TU can resolve them, and returns the include
	// path the front-end should prepend (the `-include` equivalent).
	WriteShim(names []string) (includePath string, err error)
}

// ExtractResult is what one call into the front-end produces for a
// single translation unit.
type ExtractResult struct {
	Symbols []*symbol.Symbol
	Missing []string // unresolved external-symbol names logged by the front-end
	Err     error     // non-nil only when the front-end could not run at all (ParseError-class)
}

// Extractor is the consumed front-end interface: given a compilation-
// database entry and a VFS, produce one ExtractResult. The builder may
// call it more than once for the same entry when shim retries are
// needed.
type Extractor func(ctx context.Context, entry CompilationDatabaseEntry, vfs VFS) ExtractResult

// BuilderConfig controls the worker pool and failure policy (spec §5,
// §6 "thread-count", "ignore-failures").
type BuilderConfig struct {
	ThreadCount    int
	IgnoreFailures bool

	// IncludeFiles/ExcludeFiles filter translation units by their
	// compilation-database path before extraction runs at all; an empty
	// IncludeFiles list means "no restriction" (spec §6, file globs).
	IncludeFiles []string
	ExcludeFiles []string

	// IncludeSymbols/ExcludeSymbols filter ingested symbols by raw name
	// after extraction (spec §6, symbol globs).
	IncludeSymbols []string
	ExcludeSymbols []string
}

// Builder drives per-TU extraction into a Store, following spec §4.1's
// algorithm and §5's concurrency model: a bounded worker pool runs one
// TU per task, each task owns its own VFS and missing-symbol sink, and
// only the Store's internal mutex is shared across tasks. This mirrors
// the teacher's jobs.Runner worker-pool shape (channel of tasks,
// WaitGroup, one goroutine per worker) without the database-backed job
// persistence the teacher's Runner layers on top, since corpus
// extraction is not a resumable background job.
type Builder struct {
	store     *Store
	extract   Extractor
	newVFS    func() VFS
	logger    *logging.Logger
	config    BuilderConfig

	mu      sync.Mutex
	diags   merrors.Diagnostics
	modeCounts map[symbol.ExtractionMode]int
}

// NewBuilder creates a Builder writing into store, using extract to
// run each TU and newVFS to allocate a fresh virtual file system per
// task.
func NewBuilder(store *Store, extract Extractor, newVFS func() VFS, logger *logging.Logger, config BuilderConfig) *Builder {
	if config.ThreadCount <= 0 {
		config.ThreadCount = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Builder{
		store:      store,
		extract:    extract,
		newVFS:     newVFS,
		logger:     logger,
		config:     config,
		modeCounts: make(map[symbol.ExtractionMode]int),
	}
}

// Build runs extraction over every entry using a bounded worker pool
// and returns the aggregated diagnostics (spec §7: "The driver
// aggregates errors into a single compound error"). A nil return means
// every TU succeeded (or, with IgnoreFailures, every failure was
// downgraded to a logged warning).
func (b *Builder) Build(ctx context.Context, entries []CompilationDatabaseEntry) error {
	filtered := make([]CompilationDatabaseEntry, 0, len(entries))
	for _, e := range entries {
		if b.fileExcluded(e.File) {
			continue
		}
		filtered = append(filtered, e)
	}

	tasks := make(chan CompilationDatabaseEntry, len(filtered))
	for _, e := range filtered {
		tasks <- e
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < b.config.ThreadCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range tasks {
				b.runTU(ctx, entry)
			}
		}()
	}
	wg.Wait()

	b.logSummary()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.diags.Compound()
}

// runTU executes one TU task's retry loop: extract, and if the
// missing-symbol sink is non-empty, synthesize a shim and re-run, up
// to MaxShimRetries times, terminating early once an attempt reports
// the same number of missing symbols as the attempt before it (spec
// §4.1).
func (b *Builder) runTU(ctx context.Context, entry CompilationDatabaseEntry) {
	taskID := uuid.NewString()
	vfs := b.newVFS()
	lastMissingCount := -1

	var result ExtractResult
	for attempt := 0; attempt < MaxShimRetries; attempt++ {
		result = b.extract(ctx, entry, vfs)
		if result.Err != nil {
			b.reportTUFailure(taskID, entry, result.Err)
			return
		}

		if len(result.Missing) == 0 || len(result.Missing) == lastMissingCount {
			break
		}
		lastMissingCount = len(result.Missing)

		if _, err := vfs.WriteShim(result.Missing); err != nil {
			// The retry itself failed to run at all; abort this TU
			// (spec §4.1: "Any retry that fails to run at all ...
			// aborts that TU").
			b.reportTUFailure(taskID, entry, err)
			return
		}
	}

	for _, sym := range result.Symbols {
		if b.symbolExcluded(sym.Name) {
			continue
		}
		b.store.Ingest(sym)
		b.mu.Lock()
		b.modeCounts[sym.ExtractionMode]++
		b.mu.Unlock()
	}
}

// fileExcluded reports whether file should be skipped per the
// include/exclude file glob lists: excluded if it matches any exclude
// pattern, or if an include list is set and it matches none of it.
func (b *Builder) fileExcluded(file string) bool {
	if paths.MatchesAny(b.config.ExcludeFiles, file) {
		return true
	}
	if len(b.config.IncludeFiles) > 0 && !paths.MatchesAny(b.config.IncludeFiles, file) {
		return true
	}
	return false
}

func (b *Builder) symbolExcluded(name string) bool {
	if paths.MatchesAny(b.config.ExcludeSymbols, name) {
		return true
	}
	if len(b.config.IncludeSymbols) > 0 && !paths.MatchesAny(b.config.IncludeSymbols, name) {
		return true
	}
	return false
}

func (b *Builder) reportTUFailure(taskID string, entry CompilationDatabaseEntry, cause error) {
	err := merrors.Wrap(merrors.ParseError, fmt.Sprintf("translation unit %q failed", entry.File), cause)
	if b.config.IgnoreFailures {
		b.logger.Warn("translation unit failed, continuing", map[string]interface{}{
			"task":  taskID,
			"file":  entry.File,
			"error": err.Error(),
		})
		return
	}
	b.mu.Lock()
	b.diags.Add(err)
	b.mu.Unlock()
}

// logSummary emits the extraction-mode summary line recovered from
// the original implementation (SPEC_FULL.md §C.1): one Info-level log
// line reporting how many symbols landed in each extraction mode,
// once every TU has merged.
func (b *Builder) logSummary() {
	b.mu.Lock()
	counts := make(map[symbol.ExtractionMode]int, len(b.modeCounts))
	for k, v := range b.modeCounts {
		counts[k] = v
	}
	b.mu.Unlock()

	b.logger.Info("extraction complete", map[string]interface{}{
		"regular":                 counts[symbol.Regular],
		"see-below":               counts[symbol.SeeBelow],
		"implementation-defined":  counts[symbol.ImplementationDefined],
		"dependency":              counts[symbol.Dependency],
	})
}
