package paths

import "testing"

func TestMatchesGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*", "anything/at/all.cpp", true},
		{"internal/**/*.cpp", "internal/widget/shape.cpp", true},
		{"internal/**/*.cpp", "other/widget/shape.cpp", false},
		{"src/", "src/widget.cpp", true},
		{"src/", "other/widget.cpp", false},
		{"*.cpp", "widget.cpp", true},
		{"*.cpp", "dir/widget.cpp", true},
		{"widget.cpp", "widget.cpp", true},
		{"widget.cpp", "other.cpp", false},
	}
	for _, tt := range tests {
		if got := MatchesGlob(tt.pattern, tt.path); got != tt.want {
			t.Errorf("MatchesGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"internal/**/*.cpp", "*.h"}
	if !MatchesAny(patterns, "widget.h") {
		t.Error("expected widget.h to match *.h")
	}
	if MatchesAny(patterns, "widget.py") {
		t.Error("did not expect widget.py to match any pattern")
	}
	if MatchesAny(nil, "widget.cpp") {
		t.Error("an empty pattern list should never match")
	}
}
