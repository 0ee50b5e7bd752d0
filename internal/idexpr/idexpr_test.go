package idexpr

import "testing"

func TestParseSimpleQualified(t *testing.T) {
	e, err := Parse("A::B::C")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(e.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(e.Components))
	}
	if e.Components[2].Identifier != "C" {
		t.Errorf("leaf identifier = %q, want C", e.Components[2].Identifier)
	}
}

func TestParseLeadingGlobal(t *testing.T) {
	e, err := Parse("::foo")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !e.LeadingGlobal {
		t.Error("LeadingGlobal should be true for ::foo")
	}
	if e.Leaf().Identifier != "foo" {
		t.Errorf("leaf = %q, want foo", e.Leaf().Identifier)
	}
}

func TestParseTemplateArgs(t *testing.T) {
	e, err := Parse("std::vector<int>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	leaf := e.Leaf()
	if !leaf.HasTemplateArgs || len(leaf.TemplateArgs) != 1 || leaf.TemplateArgs[0] != "int" {
		t.Errorf("leaf = %+v", leaf)
	}
}

func TestParseNestedTemplateArgs(t *testing.T) {
	e, err := Parse("std::enable_if_t<std::is_integral_v<T>, T>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	leaf := e.Leaf()
	if !leaf.HasTemplateArgs || len(leaf.TemplateArgs) != 2 {
		t.Fatalf("leaf.TemplateArgs = %v, want 2 entries", leaf.TemplateArgs)
	}
	if leaf.TemplateArgs[1] != "T" {
		t.Errorf("second arg = %q, want T", leaf.TemplateArgs[1])
	}
}

func TestParseFunctionParams(t *testing.T) {
	e, err := Parse("f(int, double)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	leaf := e.Leaf()
	if !leaf.HasParams || len(leaf.Params) != 2 {
		t.Fatalf("leaf.Params = %v", leaf.Params)
	}
}

func TestParseOperatorEquality(t *testing.T) {
	e, err := Parse("operator==")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	leaf := e.Leaf()
	if !leaf.IsOperator || leaf.Identifier != "operator==" {
		t.Errorf("leaf = %+v", leaf)
	}
}

func TestParseOperatorNewArray(t *testing.T) {
	e, err := Parse("operator new[]")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if e.Leaf().Identifier != "operator new[]" {
		t.Errorf("leaf = %+v", e.Leaf())
	}
}

func TestParseDecltype(t *testing.T) {
	e, err := Parse("decltype(x + y)::type")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !e.Components[0].IsDecltype {
		t.Errorf("first component should be a decltype specifier: %+v", e.Components[0])
	}
}

func TestParseQualifiersAndNoexcept(t *testing.T) {
	e, err := Parse("f() const noexcept")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	leaf := e.Leaf()
	if len(leaf.Qualifiers) != 1 || leaf.Qualifiers[0] != "const" {
		t.Errorf("Qualifiers = %v", leaf.Qualifiers)
	}
	if !leaf.HasNoexcept {
		t.Error("HasNoexcept should be true")
	}
}

func TestParseEmptyIsError(t *testing.T) {
	if _, err := Parse("   "); err == nil {
		t.Error("expected an error for an empty expression")
	}
}
