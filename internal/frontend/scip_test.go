package frontend

import (
	"context"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"mrdocs/internal/corpus"
	"mrdocs/internal/symbol"
)

func buildFixtureIndex() *scippb.Index {
	return &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "widget.cpp",
				Language:     "c++",
				Symbols: []*scippb.SymbolInformation{
					{
						Symbol:        "c++ . widget/Widget#",
						DisplayName:   "Widget",
						Kind:          scippb.SymbolInformation_Class,
						Documentation: []string{"A small widget."},
					},
					{
						Symbol:          "c++ . widget/Widget#resize().",
						DisplayName:     "resize",
						Kind:            scippb.SymbolInformation_Method,
						EnclosingSymbol: "c++ . widget/Widget#",
					},
				},
				Occurrences: []*scippb.Occurrence{
					{
						Symbol:      "c++ . widget/Widget#",
						SymbolRoles: int32(scippb.SymbolRole_Definition),
						Range:       []int32{3, 6, 12},
					},
					{
						Symbol:      "c++ . widget/Widget#resize().",
						SymbolRoles: int32(scippb.SymbolRole_Definition),
						Range:       []int32{5, 6, 12},
					},
					{
						Symbol: "c++ . std/vector#size().",
					},
				},
			},
		},
	}
}

func TestSCIPSourceExtractsSymbolsAndParent(t *testing.T) {
	src := NewSCIPSourceFromIndex(buildFixtureIndex())
	result := src.Extract(context.Background(), corpus.CompilationDatabaseEntry{File: "widget.cpp"}, nil)
	if result.Err != nil {
		t.Fatalf("Extract() error = %v", result.Err)
	}
	if len(result.Symbols) != 2 {
		t.Fatalf("len(Symbols) = %d, want 2", len(result.Symbols))
	}

	var widget, resize *symbol.Symbol
	for _, s := range result.Symbols {
		switch s.Name {
		case "Widget":
			widget = s
		case "resize":
			resize = s
		}
	}
	if widget == nil || resize == nil {
		t.Fatalf("expected both Widget and resize symbols, got %+v", result.Symbols)
	}
	if widget.Kind != symbol.KindRecord {
		t.Errorf("Widget.Kind = %q, want record", widget.Kind)
	}
	if widget.Doc == nil {
		t.Error("expected Widget to carry a doc comment from SCIP documentation lines")
	}
	if !resize.HasParent || resize.Parent != widget.ID {
		t.Errorf("resize should have Widget as its parent")
	}
	if resize.Kind != symbol.KindFunction {
		t.Errorf("resize.Kind = %q, want function", resize.Kind)
	}
}

func TestSCIPSourceReportsMissingFromOccurrences(t *testing.T) {
	src := NewSCIPSourceFromIndex(buildFixtureIndex())
	vfs := &FixtureVFS{}
	result := src.Extract(context.Background(), corpus.CompilationDatabaseEntry{File: "widget.cpp"}, vfs)
	if result.Err != nil {
		t.Fatalf("Extract() error = %v", result.Err)
	}
	if len(result.Missing) != 1 || result.Missing[0] != "c++ . std/vector#size()." {
		t.Errorf("Missing = %v, want the one external occurrence", result.Missing)
	}
	if len(vfs.Generations()) != 1 {
		t.Errorf("expected one shim generation, got %d", len(vfs.Generations()))
	}
}

func TestSCIPSourceUnknownFileIsAnError(t *testing.T) {
	src := NewSCIPSourceFromIndex(buildFixtureIndex())
	result := src.Extract(context.Background(), corpus.CompilationDatabaseEntry{File: "missing.cpp"}, nil)
	if result.Err == nil {
		t.Error("expected an error for a file absent from the index")
	}
}

func TestAsExtractorDelegatesToSource(t *testing.T) {
	src := NewSCIPSourceFromIndex(buildFixtureIndex())
	extract := AsExtractor(src)
	result := extract(context.Background(), corpus.CompilationDatabaseEntry{File: "widget.cpp"}, nil)
	if result.Err != nil || len(result.Symbols) != 2 {
		t.Fatalf("AsExtractor-wrapped call = %+v", result)
	}
}
