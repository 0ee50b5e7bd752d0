package symbol

import (
	"testing"

	"mrdocs/internal/doccomment"
	"mrdocs/internal/symbolid"
)

func TestMergeStrictestExtractionMode(t *testing.T) {
	a := &Symbol{ExtractionMode: Dependency, Body: &Namespace{}}
	b := &Symbol{ExtractionMode: Regular, Body: &Namespace{}}
	Merge(a, b)
	if a.ExtractionMode != Regular {
		t.Errorf("ExtractionMode = %v, want Regular", a.ExtractionMode)
	}
}

func TestMergeUnionsNamespaceMembers(t *testing.T) {
	f1 := symbolid.FromUSR("c:@N@n@F@f#I#")
	f2 := symbolid.FromUSR("c:@N@n@F@f#d#")

	a := &Symbol{Body: &Namespace{Members: []symbolid.ID{f1}}}
	b := &Symbol{Body: &Namespace{Members: []symbolid.ID{f2}}}
	Merge(a, b)

	ns := a.Body.(*Namespace)
	if len(ns.Members) != 2 {
		t.Fatalf("len(Members) = %d, want 2", len(ns.Members))
	}
}

func TestMergeIdempotent(t *testing.T) {
	f1 := symbolid.FromUSR("c:@N@n@F@f#I#")
	mk := func() *Symbol { return &Symbol{Body: &Namespace{Members: []symbolid.ID{f1}}} }

	once := mk()
	Merge(once, mk())

	twice := mk()
	Merge(twice, mk())
	Merge(twice, mk())

	if len(once.Body.(*Namespace).Members) != len(twice.Body.(*Namespace).Members) {
		t.Error("merging the same declaration twice should match merging it once")
	}
}

func TestMergeKeepsFirstNonEmptyDoc(t *testing.T) {
	a := &Symbol{Body: &Namespace{}}
	b := &Symbol{Body: &Namespace{}, Doc: nil}
	Merge(a, b)
	if a.Doc != nil {
		t.Error("merging two symbols with no doc should leave Doc nil")
	}

	first := &doccomment.Javadoc{Blocks: []doccomment.Block{&doccomment.Brief{}}}
	second := &doccomment.Javadoc{Blocks: []doccomment.Block{&doccomment.Brief{}}}
	c := &Symbol{Body: &Namespace{}, Doc: first}
	Merge(c, &Symbol{Body: &Namespace{}, Doc: second})
	if c.Doc != first {
		t.Error("Merge should keep the first non-empty doc comment")
	}
}

func TestMergeLocationsDeduped(t *testing.T) {
	loc := Location{Path: "a.h", Line: 1, Column: 1}
	a := &Symbol{Declarations: []Location{loc}, Body: &Namespace{}}
	b := &Symbol{Declarations: []Location{loc}, Body: &Namespace{}}
	Merge(a, b)
	if len(a.Declarations) != 1 {
		t.Errorf("len(Declarations) = %d, want 1 (deduped)", len(a.Declarations))
	}
}
