package rcfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// requireCleanAncestors skips the test when a real config file exists
// in an ancestor of dir, which would shadow the case under test.
func requireCleanAncestors(t *testing.T, dir string) {
	t.Helper()
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, DefaultName)); err == nil {
			t.Skipf("%s present in ancestor %s", DefaultName, d)
		}
		if filepath.Dir(d) == d {
			return
		}
	}
}

func TestResolve_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrc")
	if err := os.WriteFile(path, []byte("konch.config({})\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != path {
		t.Errorf("Resolve() = %q, want %q", got, path)
	}
}

func TestResolve_ExplicitMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Resolve("notfound")
	if err == nil {
		t.Fatal("Resolve() expected error, got nil")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), `"notfound" not found`) {
		t.Errorf("error = %v, want substring %q", err, `"notfound" not found`)
	}
}

func TestResolve_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(want, []byte("konch.config({})\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Chdir(dir)

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !samePath(t, got, want) {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_AncestorWalk(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(want, []byte("konch.config({})\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(dir, "sub", "deeper")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	t.Chdir(nested)

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !samePath(t, got, want) {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_NothingFound(t *testing.T) {
	dir := t.TempDir()
	requireCleanAncestors(t, dir)
	t.Chdir(dir)

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "" {
		t.Errorf("Resolve() = %q, want empty path", got)
	}
}

// samePath compares paths with symlinks resolved, so temp directories
// that live behind a symlinked root still compare equal.
func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q) error = %v", a, err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q) error = %v", b, err)
	}
	return ra == rb
}
