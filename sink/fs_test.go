package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFSSink_WriteCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "nested", "out.json")
	s := NewFSSink(path)

	if err := s.Write(context.Background(), []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("content = %q", data)
	}
	if s.Destination() != path {
		t.Errorf("destination = %q, want %q", s.Destination(), path)
	}
}

func TestFSSink_StdoutDestination(t *testing.T) {
	s := NewFSSink(StdoutPath)
	if s.Destination() != "stdout" {
		t.Errorf("destination = %q, want stdout", s.Destination())
	}
}

func TestIsS3Path(t *testing.T) {
	if !IsS3Path("s3://bucket/key.json") {
		t.Error("s3:// path not detected")
	}
	if IsS3Path("/var/reports/out.json") || IsS3Path("-") {
		t.Error("local path misdetected as s3")
	}
}
