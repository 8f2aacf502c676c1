package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fenceline-io/fenceline/config"
)

func shToolchain() config.Toolchain {
	return config.Toolchain{Command: "sh", Ext: ".sh"}
}

func TestSnippetExecutor_Pass(t *testing.T) {
	exec := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   10 * time.Second,
	})

	result, err := exec.Run(context.Background(), "echo hello\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0 (stderr: %s)", result.ExitCode, result.Stderr)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("stdout = %q, want %q", result.Stdout, "hello")
	}
	if result.TimedOut {
		t.Error("timed out unexpectedly")
	}
}

func TestSnippetExecutor_NonZeroExit(t *testing.T) {
	exec := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   10 * time.Second,
	})

	result, err := exec.Run(context.Background(), "echo oops >&2\nexit 3\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Errorf("stderr = %q, want it to contain %q", result.Stderr, "oops")
	}
}

// scopedDirs lists the executor-owned scratch directories currently in
// the system temp dir.
func scopedDirs(t *testing.T) map[string]bool {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "fenceline-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	dirs := make(map[string]bool, len(matches))
	for _, m := range matches {
		dirs[m] = true
	}
	return dirs
}

func TestSnippetExecutor_Timeout(t *testing.T) {
	before := scopedDirs(t)

	exec := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   200 * time.Millisecond,
	})

	start := time.Now()
	result, err := exec.Run(context.Background(), "sleep 30\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.TimedOut {
		t.Fatal("expected TimedOut")
	}
	if result.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", result.ExitCode)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("timeout took %v, kill did not happen promptly", elapsed)
	}

	// The scoped working directory must be gone even though the
	// subprocess was killed mid-run.
	for dir := range scopedDirs(t) {
		if !before[dir] {
			t.Errorf("scoped dir leaked after timeout: %s", dir)
		}
	}
}

func TestSnippetExecutor_LaunchFailure(t *testing.T) {
	exec := NewSnippetExecutor(&ExecConfig{
		Toolchain: config.Toolchain{Command: "definitely-not-a-real-binary-3141", Ext: ".x"},
		Timeout:   time.Second,
	})

	if _, err := exec.Run(context.Background(), "whatever"); err == nil {
		t.Fatal("expected launch error")
	}
}

func TestSnippetExecutor_SharedWorkDirCarriesState(t *testing.T) {
	dir := t.TempDir()

	first := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   10 * time.Second,
		WorkDir:   dir,
	})
	if _, err := first.Run(context.Background(), "echo 42 > state.txt\n"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   10 * time.Second,
		WorkDir:   dir,
	})
	result, err := second.Run(context.Background(), "cat state.txt\n")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "42" {
		t.Errorf("stdout = %q, want %q", result.Stdout, "42")
	}
}

func TestSnippetExecutor_SharedWorkDirSurvives(t *testing.T) {
	// The executor must not remove a caller-owned working directory.
	dir := t.TempDir()

	exec := NewSnippetExecutor(&ExecConfig{
		Toolchain: shToolchain(),
		Timeout:   10 * time.Second,
		WorkDir:   dir,
	})
	if _, err := exec.Run(context.Background(), "true\n"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("work dir gone after run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "snippet.sh")); err != nil {
		t.Errorf("snippet file missing: %v", err)
	}
}
