package main

import (
	"testing"

	"mrdocs/internal/symbolid"
)

func TestSplitQuery(t *testing.T) {
	id, name, ok := splitQuery("global foo::bar")
	if !ok {
		t.Fatal("expected a valid split")
	}
	if id != symbolid.Global {
		t.Errorf("ctx = %v, want Global", id)
	}
	if name != "foo::bar" {
		t.Errorf("name = %q, want foo::bar", name)
	}
}

func TestSplitQueryRejectsMissingName(t *testing.T) {
	if _, _, ok := splitQuery("global"); ok {
		t.Error("expected a malformed query to be rejected")
	}
}
