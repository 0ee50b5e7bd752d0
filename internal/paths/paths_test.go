package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "mrdocs-paths-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	testFile := filepath.Join(tempDir, "subdir", "test.cpp")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("int main() {}"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	canonical, err := CanonicalizePath(testFile, tempDir)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}

	expected := "subdir/test.cpp"
	if canonical != expected {
		t.Errorf("Expected %s, got %s", expected, canonical)
	}
}

func TestIsWithinRepo(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "mrdocs-paths-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	inside := filepath.Join(tempDir, "widget.cpp")
	if err := os.WriteFile(inside, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !IsWithinRepo(inside, tempDir) {
		t.Error("expected a file under the repo root to report within")
	}
	if IsWithinRepo("/definitely/outside/path.cpp", tempDir) {
		t.Error("expected a path outside the repo root to report false")
	}
}

func TestNormalizePath(t *testing.T) {
	result := NormalizePath("path/to/file")
	expected := "path/to/file"
	if result != expected {
		t.Errorf("NormalizePath(path/to/file): expected %s, got %s", expected, result)
	}
}

func TestJoinRepoPath(t *testing.T) {
	got := JoinRepoPath("/repo", "src/widget.cpp")
	expected := filepath.Join("/repo", "src", "widget.cpp")
	if got != expected {
		t.Errorf("JoinRepoPath = %s, want %s", got, expected)
	}
}
