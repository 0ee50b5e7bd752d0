package lookup

import (
	"testing"

	"mrdocs/internal/corpus"
	"mrdocs/internal/cxxname"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

func namedType(identifier string) cxxtype.Type {
	return &cxxtype.Named{Name: &cxxname.Name{Identifier: identifier}}
}

func buildNamespaceWithOverloads(t *testing.T) (*corpus.Store, symbolid.ID, symbolid.ID, symbolid.ID) {
	t.Helper()
	store := corpus.NewStore()

	nsID := symbolid.FromUSR("c:@N@n")
	fIntID := symbolid.FromUSR("c:@N@n@F@f#I#")
	fDoubleID := symbolid.FromUSR("c:@N@n@F@f#d#")
	overloadsID := symbolid.FromUSR("c:@N@n@OV@f")

	store.Ingest(&symbol.Symbol{
		ID: nsID, Name: "n", Kind: symbol.KindNamespace,
		Body: &symbol.Namespace{Members: []symbolid.ID{overloadsID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: overloadsID, Name: "f", Kind: symbol.KindOverloads, HasParent: true, Parent: nsID,
		Body: &symbol.Overloads{Members: []symbolid.ID{fIntID, fDoubleID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fIntID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fDoubleID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{}},
	})
	return store, nsID, fIntID, fDoubleID
}

func TestResolveUnqualifiedName(t *testing.T) {
	store, nsID, fIntID, _ := buildNamespaceWithOverloads(t)
	e := NewEngine(store)

	got, err := e.Resolve(nsID, "f")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != fIntID {
		t.Errorf("Resolve(n, f) = %v, want the first overload %v", got, fIntID)
	}
}

func TestResolveNotFound(t *testing.T) {
	store, nsID, _, _ := buildNamespaceWithOverloads(t)
	e := NewEngine(store)

	if _, err := e.Resolve(nsID, "nonexistent"); err == nil {
		t.Error("expected LookupNotFound error")
	}
}

func TestResolveCacheConsistency(t *testing.T) {
	store, nsID, _, _ := buildNamespaceWithOverloads(t)
	e := NewEngine(store)

	a, errA := e.Resolve(nsID, "f")
	b, errB := e.Resolve(nsID, "f")
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Error("repeated lookups should return the same result (cache consistency)")
	}
}

// TestResolveParamDiscriminatedOverload covers spec §8 scenario 1: a
// query naming a parameter list picks the overload whose declared
// parameter types are decay-equal to it, not just the first overload
// by name.
func TestResolveParamDiscriminatedOverload(t *testing.T) {
	store := corpus.NewStore()

	nsID := symbolid.FromUSR("c:@N@n")
	fIntID := symbolid.FromUSR("c:@N@n@F@f#I#")
	fDoubleID := symbolid.FromUSR("c:@N@n@F@f#d#")
	overloadsID := symbolid.FromUSR("c:@N@n@OV@f")

	store.Ingest(&symbol.Symbol{
		ID: nsID, Name: "n", Kind: symbol.KindNamespace,
		Body: &symbol.Namespace{Members: []symbolid.ID{overloadsID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: overloadsID, Name: "f", Kind: symbol.KindOverloads, HasParent: true, Parent: nsID,
		Body: &symbol.Overloads{Members: []symbolid.ID{fIntID, fDoubleID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fIntID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x", Type: namedType("int")}}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fDoubleID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x", Type: namedType("double")}}},
	})

	e := NewEngine(store)
	got, err := e.Resolve(nsID, "f(double)")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != fDoubleID {
		t.Errorf("Resolve(n, f(double)) = %v, want the double overload %v", got, fDoubleID)
	}
}

// TestResolveSFINAECondition covers spec §8 scenario 6: a query naming
// the same `enable_if_t<C,T>` SFINAE condition as a candidate's
// declared parameter resolves to it, and a second candidate whose
// declared parameter unwraps to the same T but a different condition
// does not match.
func TestResolveSFINAECondition(t *testing.T) {
	store := corpus.NewStore()

	nsID := symbolid.FromUSR("c:@N@n")
	fIntegralID := symbolid.FromUSR("c:@N@n@F@f#$@N@std@TEnable_if_t>#I#")
	fFloatingID := symbolid.FromUSR("c:@N@n@F@f#$@N@std@TEnable_if_t>#d#")
	overloadsID := symbolid.FromUSR("c:@N@n@OV@f")

	enableIf := func(condition string) cxxtype.Type {
		return &cxxtype.Named{Name: &cxxname.Name{
			Identifier: "enable_if_t",
			Args: []cxxname.TemplateArg{
				{Written: condition},
				{Written: "T"},
			},
		}}
	}

	store.Ingest(&symbol.Symbol{
		ID: nsID, Name: "n", Kind: symbol.KindNamespace,
		Body: &symbol.Namespace{Members: []symbolid.ID{overloadsID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: overloadsID, Name: "f", Kind: symbol.KindOverloads, HasParent: true, Parent: nsID,
		Body: &symbol.Overloads{Members: []symbolid.ID{fIntegralID, fFloatingID}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fIntegralID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x", Type: enableIf("is_integral_v<T>")}}},
	})
	store.Ingest(&symbol.Symbol{
		ID: fFloatingID, Name: "f", Kind: symbol.KindFunction, HasParent: true, Parent: overloadsID,
		Body: &symbol.Function{Params: []symbol.Param{{Name: "x", Type: enableIf("is_floating_v<T>")}}},
	})

	e := NewEngine(store)
	got, err := e.Resolve(nsID, "f(enable_if_t<is_integral_v<T>, T>)")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != fIntegralID {
		t.Errorf("Resolve() = %v, want the is_integral_v overload %v", got, fIntegralID)
	}

	if !cxxtype.DecayEqual(enableIf("is_integral_v<T>"), enableIf("is_integral_v<T>")) {
		t.Error("same SFINAE condition should be decay-equal")
	}
	if cxxtype.DecayEqual(enableIf("is_integral_v<T>"), enableIf("is_floating_v<T>")) {
		t.Error("different SFINAE conditions should not be decay-equal even though both unwrap to T")
	}
}

func TestResolveGlobalQualifier(t *testing.T) {
	store := corpus.NewStore()
	fooID := symbolid.FromUSR("c:@F@foo#")
	store.Ingest(&symbol.Symbol{ID: symbolid.Global, Kind: symbol.KindNamespace, Body: &symbol.Namespace{Members: []symbolid.ID{fooID}}})
	store.Ingest(&symbol.Symbol{ID: fooID, Name: "foo", Kind: symbol.KindFunction, HasParent: true, Parent: symbolid.Global, Body: &symbol.Function{}})

	e := NewEngine(store)
	got, err := e.Resolve(fooID, "::foo")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != fooID {
		t.Errorf("Resolve(::foo) = %v, want %v", got, fooID)
	}
}
