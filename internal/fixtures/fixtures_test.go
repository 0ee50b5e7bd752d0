//go:build cgo

package fixtures

import (
	"testing"

	"mrdocs/internal/symbol"
)

const sampleSource = `
namespace widgets {

class Widget {
public:
    void resize(int w, int h);
};

enum class Color { Red, Green, Blue };

int area(int w, int h) {
    return w * h;
}

}
`

func TestFromSourceFindsTopLevelDeclarations(t *testing.T) {
	syms := FromSource("widget.cpp", []byte(sampleSource))

	kinds := make(map[string]symbol.Kind)
	for _, s := range syms {
		kinds[s.Name] = s.Kind
	}

	want := map[string]symbol.Kind{
		"widgets": symbol.KindNamespace,
		"Widget":  symbol.KindRecord,
		"Color":   symbol.KindEnum,
		"area":    symbol.KindFunction,
	}
	for name, kind := range want {
		got, ok := kinds[name]
		if !ok {
			t.Errorf("expected a symbol named %q, got %v", name, kinds)
			continue
		}
		if got != kind {
			t.Errorf("%s.Kind = %q, want %q", name, got, kind)
		}
	}
}

func TestFromSourceRecordsLocations(t *testing.T) {
	syms := FromSource("widget.cpp", []byte(sampleSource))
	for _, s := range syms {
		if s.Name != "area" {
			continue
		}
		if s.Definition == nil || s.Definition.Path != "widget.cpp" {
			t.Fatalf("area's Definition = %+v, want a widget.cpp location", s.Definition)
		}
		if s.Definition.Line < 1 {
			t.Errorf("area's Line = %d, want >= 1", s.Definition.Line)
		}
		return
	}
	t.Fatal("expected to find the area function")
}
