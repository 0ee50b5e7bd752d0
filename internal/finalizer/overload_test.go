package finalizer

import (
	"testing"

	"mrdocs/internal/corpus"
	"mrdocs/internal/logging"
	"mrdocs/internal/lookup"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// TestOverloadGrouperGroupsTwoFunctions exercises spec §8's overload
// scenario: two TUs each declare `namespace n { void f(int); }` and one
// declares `namespace n { void f(double); }`. After ingestion n holds
// two function members named f; pass C must group them under one
// Overloads symbol, and the lookup engine must still resolve `f` to
// one of the two (the first, since equally ranked candidates resolve
// to the first occurrence).
func TestOverloadGrouperGroupsTwoFunctions(t *testing.T) {
	store := corpus.NewStore()
	nsID := symbolid.FromUSR("c:@N@n")
	fIntID := symbolid.FromUSR("c:@N@n@F@f#I#")
	fDoubleID := symbolid.FromUSR("c:@N@n@F@f#d#")

	store.Ingest(&symbol.Symbol{
		ID: nsID, Kind: symbol.KindNamespace,
		Body: &symbol.Namespace{Members: []symbolid.ID{fIntID, fDoubleID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fIntID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: nsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x"}}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fDoubleID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: nsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x"}}},
	})

	g := NewOverloadGrouper(store, logging.Nop())
	diags := &merrors.Diagnostics{}
	g.Run(diags)
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	ns := store.Find(nsID).Body.(*symbol.Namespace)
	if len(ns.Members) != 1 {
		t.Fatalf("expected namespace to hold a single Overloads member, got %d", len(ns.Members))
	}

	ov := store.Find(ns.Members[0])
	if ov == nil || ov.Kind != symbol.KindOverloads {
		t.Fatalf("expected the single member to be an Overloads symbol, got %+v", ov)
	}
	if ov.Name != "f" {
		t.Errorf("Overloads.Name = %q, want f", ov.Name)
	}
	body := ov.Body.(*symbol.Overloads)
	if len(body.Members) != 2 {
		t.Fatalf("expected 2 grouped children, got %d", len(body.Members))
	}

	e := lookup.NewEngine(store)
	got, err := e.Resolve(nsID, "f")
	if err != nil {
		t.Fatalf("Resolve(n, f) error = %v", err)
	}
	if got != fIntID {
		t.Errorf("Resolve(n, f) = %v, want the first grouped overload %v", got, fIntID)
	}
}

// TestOverloadGrouperIdempotent runs pass C twice and checks the
// second run is a no-op (spec §8, "Overload grouper stability").
func TestOverloadGrouperIdempotent(t *testing.T) {
	store := corpus.NewStore()
	nsID := symbolid.FromUSR("c:@N@m")
	f1 := symbolid.FromUSR("c:@N@m@F@f#I#")
	f2 := symbolid.FromUSR("c:@N@m@F@f#d#")

	store.Ingest(&symbol.Symbol{ID: nsID, Kind: symbol.KindNamespace, Body: &symbol.Namespace{Members: []symbolid.ID{f1, f2}}})
	store.Ingest(&symbol.Symbol{ID: f1, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: nsID, Body: &symbol.Function{}})
	store.Ingest(&symbol.Symbol{ID: f2, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: nsID, Body: &symbol.Function{}})

	g := NewOverloadGrouper(store, logging.Nop())
	diags := &merrors.Diagnostics{}
	g.Run(diags)
	firstMembers := append([]symbolid.ID{}, store.Find(nsID).Body.(*symbol.Namespace).Members...)

	g.Run(diags)
	secondMembers := store.Find(nsID).Body.(*symbol.Namespace).Members

	if len(firstMembers) != len(secondMembers) || firstMembers[0] != secondMembers[0] {
		t.Errorf("second run changed member list: %v -> %v", firstMembers, secondMembers)
	}
}

// TestOverloadGrouperSingleFunctionUngrouped checks a lone function is
// left untouched (no Overloads synthesized for a group of size 1).
func TestOverloadGrouperSingleFunctionUngrouped(t *testing.T) {
	store := corpus.NewStore()
	nsID := symbolid.FromUSR("c:@N@p")
	fID := symbolid.FromUSR("c:@N@p@F@f#")

	store.Ingest(&symbol.Symbol{ID: nsID, Kind: symbol.KindNamespace, Body: &symbol.Namespace{Members: []symbolid.ID{fID}}})
	store.Ingest(&symbol.Symbol{ID: fID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: nsID, Body: &symbol.Function{}})

	g := NewOverloadGrouper(store, logging.Nop())
	diags := &merrors.Diagnostics{}
	g.Run(diags)

	ns := store.Find(nsID).Body.(*symbol.Namespace)
	if len(ns.Members) != 1 || ns.Members[0] != fID {
		t.Errorf("expected the lone function to remain ungrouped, got %v", ns.Members)
	}
}
