package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestScanDir_LexicalOrderAndRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zebra.md", "```sh\necho z\n```\n")
	writeFile(t, root, "alpha.md", "```sh\necho a\n```\n")
	writeFile(t, root, "guides/nested.md", "```sh\necho n\n```\n")
	writeFile(t, root, "notes.txt", "```sh\nnot scanned\n```\n")

	result, err := ScanDir(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := []string{"alpha.md", "guides/nested.md", "zebra.md"}
	if len(result.Documents) != len(want) {
		t.Fatalf("got %d documents, want %d", len(result.Documents), len(want))
	}
	for i, w := range want {
		if result.Documents[i].Path != w {
			t.Errorf("document[%d] = %q, want %q", i, result.Documents[i].Path, w)
		}
	}
}

func TestScanDir_MalformedCollectedNotFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.md", "```sh\necho hi\n```\n")
	writeFile(t, root, "broken.md", "```python\nprint(1)\n")

	result, err := ScanDir(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(result.Documents) != 1 || result.Documents[0].Path != "good.md" {
		t.Fatalf("documents = %+v, want only good.md", result.Documents)
	}
	if len(result.Malformed) != 1 {
		t.Fatalf("got %d malformed, want 1", len(result.Malformed))
	}
	if result.Malformed[0].Path != "broken.md" {
		t.Errorf("malformed path = %q, want %q", result.Malformed[0].Path, "broken.md")
	}
	if result.Malformed[0].Line != 1 {
		t.Errorf("malformed line = %d, want 1", result.Malformed[0].Line)
	}
}

func TestScanDir_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.md", "no blocks here\n")
	writeFile(t, root, ".git/hidden.md", "```sh\necho secret\n```\n")

	result, err := ScanDir(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(result.Documents) != 1 || result.Documents[0].Path != "visible.md" {
		t.Fatalf("documents = %+v, want only visible.md", result.Documents)
	}
}

func TestScanDir_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", "x\n")

	if _, err := ScanDir(filepath.Join(root, "file.md")); err == nil {
		t.Fatal("expected error for non-directory root")
	}
	if _, err := ScanDir(filepath.Join(root, "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
