package corpus

import (
	"context"
	"testing"

	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

type fakeVFS struct {
	shims [][]string
}

func (f *fakeVFS) WriteShim(names []string) (string, error) {
	f.shims = append(f.shims, names)
	return "shim.h", nil
}

func TestBuilderIngestsAllSymbols(t *testing.T) {
	store := NewStore()
	extract := func(ctx context.Context, entry CompilationDatabaseEntry, vfs VFS) ExtractResult {
		return ExtractResult{
			Symbols: []*symbol.Symbol{
				{ID: symbolid.FromUSR("c:@F@" + entry.File), Name: entry.File, Body: &symbol.Function{}},
			},
		}
	}
	b := NewBuilder(store, extract, func() VFS { return &fakeVFS{} }, nil, BuilderConfig{ThreadCount: 2})

	entries := []CompilationDatabaseEntry{{File: "a.cpp"}, {File: "b.cpp"}, {File: "c.cpp"}}
	if err := b.Build(context.Background(), entries); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("store.Len() = %d, want 3", store.Len())
	}
}

func TestBuilderRetriesOnMissingSink(t *testing.T) {
	store := NewStore()
	calls := 0
	extract := func(ctx context.Context, entry CompilationDatabaseEntry, vfs VFS) ExtractResult {
		calls++
		if calls == 1 {
			return ExtractResult{Missing: []string{"Unknown"}}
		}
		return ExtractResult{Symbols: []*symbol.Symbol{
			{ID: symbolid.FromUSR("c:@F@x"), Body: &symbol.Function{}},
		}}
	}
	vfs := &fakeVFS{}
	b := NewBuilder(store, extract, func() VFS { return vfs }, nil, BuilderConfig{ThreadCount: 1})

	if err := b.Build(context.Background(), []CompilationDatabaseEntry{{File: "x.cpp"}}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(vfs.shims) != 1 {
		t.Errorf("expected exactly one shim write, got %d", len(vfs.shims))
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestBuilderIgnoreFailuresContinues(t *testing.T) {
	store := NewStore()
	extract := func(ctx context.Context, entry CompilationDatabaseEntry, vfs VFS) ExtractResult {
		if entry.File == "bad.cpp" {
			return ExtractResult{Err: errFakeParse{}}
		}
		return ExtractResult{Symbols: []*symbol.Symbol{
			{ID: symbolid.FromUSR("c:@F@" + entry.File), Body: &symbol.Function{}},
		}}
	}
	b := NewBuilder(store, extract, func() VFS { return &fakeVFS{} }, nil, BuilderConfig{ThreadCount: 1, IgnoreFailures: true})

	err := b.Build(context.Background(), []CompilationDatabaseEntry{{File: "bad.cpp"}, {File: "good.cpp"}})
	if err != nil {
		t.Fatalf("IgnoreFailures should downgrade the failed TU to a warning, got error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1 (good.cpp should still be ingested)", store.Len())
	}
}

type errFakeParse struct{}

func (errFakeParse) Error() string { return "fake parse error" }

func TestBuilderAppliesFileAndSymbolGlobs(t *testing.T) {
	store := NewStore()
	extract := func(ctx context.Context, entry CompilationDatabaseEntry, vfs VFS) ExtractResult {
		return ExtractResult{Symbols: []*symbol.Symbol{
			{ID: symbolid.FromUSR("c:@F@" + entry.File + "@Keep"), Name: "Keep", Body: &symbol.Function{}},
			{ID: symbolid.FromUSR("c:@F@" + entry.File + "@Detail"), Name: "Detail_impl", Body: &symbol.Function{}},
		}}
	}
	b := NewBuilder(store, extract, func() VFS { return &fakeVFS{} }, nil, BuilderConfig{
		ThreadCount:    1,
		ExcludeFiles:   []string{"src/test/**"},
		ExcludeSymbols: []string{"*_impl"},
	})

	entries := []CompilationDatabaseEntry{{File: "src/a.cpp"}, {File: "src/test/b.cpp"}}
	if err := b.Build(context.Background(), entries); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store.Len() = %d, want 1 (test file excluded, Detail_impl excluded)", store.Len())
	}
	for _, sym := range store.Iterate() {
		if sym.Name != "Keep" {
			t.Errorf("unexpected surviving symbol %q", sym.Name)
		}
	}
}
