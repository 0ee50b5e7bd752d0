package corpus

import (
	"testing"

	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

func TestIngestInsertsNewSymbol(t *testing.T) {
	s := NewStore()
	id := symbolid.FromUSR("c:@F@foo#")
	s.Ingest(&symbol.Symbol{ID: id, Name: "foo", Body: &symbol.Function{}})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := s.Find(id); got == nil || got.Name != "foo" {
		t.Errorf("Find(id) = %v", got)
	}
}

func TestIngestMergesExisting(t *testing.T) {
	s := NewStore()
	id := symbolid.FromUSR("c:@N@n#")
	m1 := symbolid.FromUSR("c:@N@n@F@f#")
	m2 := symbolid.FromUSR("c:@N@n@F@g#")

	s.Ingest(&symbol.Symbol{ID: id, Name: "n", Body: &symbol.Namespace{Members: []symbolid.ID{m1}}})
	s.Ingest(&symbol.Symbol{ID: id, Name: "n", Body: &symbol.Namespace{Members: []symbolid.ID{m2}}})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (same ID should collapse)", s.Len())
	}
	ns := s.Find(id).Body.(*symbol.Namespace)
	if len(ns.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(ns.Members))
	}
}

func TestIterateIsInsertionStable(t *testing.T) {
	s := NewStore()
	ids := []symbolid.ID{
		symbolid.FromUSR("c:@F@a#"),
		symbolid.FromUSR("c:@F@b#"),
		symbolid.FromUSR("c:@F@c#"),
	}
	for _, id := range ids {
		s.Ingest(&symbol.Symbol{ID: id, Body: &symbol.Function{}})
	}
	got := s.Iterate()
	for i, sym := range got {
		if sym.ID != ids[i] {
			t.Fatalf("Iterate()[%d] = %v, want %v", i, sym.ID, ids[i])
		}
	}
}
