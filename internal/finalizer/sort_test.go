package finalizer

import (
	"testing"

	"mrdocs/internal/corpus"
	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// TestSortFinalizerOrdersByKindThenLocationThenName checks the three-
// level sort key: a record comes before a function regardless of
// declaration order, and two functions at the same kind priority sort
// by location then name.
func TestSortFinalizerOrdersByKindThenLocationThenName(t *testing.T) {
	store := corpus.NewStore()
	nsID := symbolid.FromUSR("c:@N@s")
	fnZID := symbolid.FromUSR("c:@N@s@F@z#")
	fnAID := symbolid.FromUSR("c:@N@s@F@a#")
	recID := symbolid.FromUSR("c:@N@s@S@R")

	store.Ingest(&symbol.Symbol{
		ID: nsID, Kind: symbol.KindNamespace,
		Body: &symbol.Namespace{Members: []symbolid.ID{fnZID, fnAID, recID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fnZID, Name: "z", Kind: symbol.KindFunction, HasParent: true, Parent: nsID,
		Definition: &symbol.Location{Path: "a.h", Line: 1}, Body: &symbol.Function{},
	})
	store.Ingest(&symbol.Symbol{
		ID: fnAID, Name: "a", Kind: symbol.KindFunction, HasParent: true, Parent: nsID,
		Definition: &symbol.Location{Path: "a.h", Line: 1}, Body: &symbol.Function{},
	})
	store.Ingest(&symbol.Symbol{
		ID: recID, Name: "R", Kind: symbol.KindRecord, HasParent: true, Parent: nsID,
		Definition: &symbol.Location{Path: "a.h", Line: 2}, Body: &symbol.Record{KeyKind: symbol.KeyStruct},
	})

	f := NewSortFinalizer(store, logging.Nop())
	f.Run(&merrors.Diagnostics{})

	ns := store.Find(nsID).Body.(*symbol.Namespace)
	if len(ns.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(ns.Members))
	}
	if ns.Members[0] != recID {
		t.Errorf("expected the record first (kind priority), got %v", store.Find(ns.Members[0]).Name)
	}
	if ns.Members[1] != fnAID || ns.Members[2] != fnZID {
		t.Errorf("expected functions sorted by name a before z at equal location, got order %v",
			[]string{store.Find(ns.Members[1]).Name, store.Find(ns.Members[2]).Name})
	}
}

// TestSortFinalizerPreservesEnumConstantOrder checks enum constants
// are never reordered by the sort finalizer.
func TestSortFinalizerPreservesEnumConstantOrder(t *testing.T) {
	store := corpus.NewStore()
	enumID := symbolid.FromUSR("c:@E@Color")
	zID := symbolid.FromUSR("c:@E@Color@Zero")
	oID := symbolid.FromUSR("c:@E@Color@One")

	store.Ingest(&symbol.Symbol{
		ID: enumID, Name: "Color", Kind: symbol.KindEnum,
		Body: &symbol.Enum{Constants: []symbolid.ID{zID, oID}},
	})
	store.Ingest(&symbol.Symbol{ID: zID, Name: "Zero", Kind: symbol.KindEnumConstant, HasParent: true, Parent: enumID, Body: &symbol.EnumConstant{Value: 0, HasValue: true}})
	store.Ingest(&symbol.Symbol{ID: oID, Name: "One", Kind: symbol.KindEnumConstant, HasParent: true, Parent: enumID, Body: &symbol.EnumConstant{Value: 1, HasValue: true}})

	f := NewSortFinalizer(store, logging.Nop())
	f.Run(&merrors.Diagnostics{})

	e := store.Find(enumID).Body.(*symbol.Enum)
	if e.Constants[0] != zID || e.Constants[1] != oID {
		t.Errorf("expected enum constant order preserved (Zero, One), got %v", e.Constants)
	}
}
