package trust

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAllowWithoutKeyringIgnoresSidecar(t *testing.T) {
	store, dir := newTestStore(t)
	rc := filepath.Join(dir, ".konchrc")
	writeFile(t, rc, "contents")
	writeFile(t, rc+".asc", "not a real signature")

	if err := store.Allow(rc); err != nil {
		t.Fatalf("Allow() error = %v, want hash-only approval without a keyring", err)
	}
}

func TestAllowWithKeyringButNoSidecar(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "konch_auth"), filepath.Join(dir, "keyring.pgp"), nil)

	rc := filepath.Join(dir, ".konchrc")
	writeFile(t, rc, "contents")

	// No sidecar next to the file: nothing to verify, approval proceeds.
	if err := store.Allow(rc); err != nil {
		t.Fatalf("Allow() error = %v, want hash-only approval without a sidecar", err)
	}
}

func TestAllowFailsOnMissingKeyringFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "konch_auth"), filepath.Join(dir, "missing.pgp"), nil)

	rc := filepath.Join(dir, ".konchrc")
	writeFile(t, rc, "contents")
	writeFile(t, rc+".asc", "not a real signature")

	err := store.Allow(rc)
	if err == nil {
		t.Fatal("expected error when the keyring cannot be loaded")
	}
	var sigErr *SignatureError
	if !errors.As(err, &sigErr) {
		t.Fatalf("error type = %T, want *SignatureError", err)
	}

	// A failed verification must not record an approval.
	status, cerr := store.Check(rc)
	if cerr != nil {
		t.Fatalf("Check() error = %v", cerr)
	}
	if status != StatusBlocked {
		t.Errorf("status after failed allow = %v, want %v", status, StatusBlocked)
	}
}

func TestAllowFailsOnGarbageKeyring(t *testing.T) {
	dir := t.TempDir()
	keyring := filepath.Join(dir, "keyring.pgp")
	writeFile(t, keyring, "this is not a keyring")
	store := NewStore(filepath.Join(dir, "konch_auth"), keyring, nil)

	rc := filepath.Join(dir, ".konchrc")
	writeFile(t, rc, "contents")
	writeFile(t, rc+".sig", "not a real signature")

	err := store.Allow(rc)
	var sigErr *SignatureError
	if !errors.As(err, &sigErr) {
		t.Fatalf("error = %v (%T), want *SignatureError", err, err)
	}
}

func TestFindSidecar(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, ".konchrc")
	writeFile(t, rc, "contents")

	if got := findSidecar(rc); got != "" {
		t.Errorf("findSidecar() = %q with no sidecar, want empty", got)
	}

	writeFile(t, rc+".sig", "binary sig")
	if got := findSidecar(rc); got != rc+".sig" {
		t.Errorf("findSidecar() = %q, want %q", got, rc+".sig")
	}

	// Armored sidecars take precedence.
	writeFile(t, rc+".asc", "armored sig")
	if got := findSidecar(rc); got != rc+".asc" {
		t.Errorf("findSidecar() = %q, want %q", got, rc+".asc")
	}
}

func TestLoadKeyringErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadKeyring(filepath.Join(dir, "missing.pgp")); err == nil {
		t.Error("expected error for missing keyring")
	}

	garbage := filepath.Join(dir, "garbage.pgp")
	writeFile(t, garbage, "-----BEGIN NONSENSE-----")
	if _, err := loadKeyring(garbage); err == nil {
		t.Error("expected error for garbage keyring")
	}

	empty := filepath.Join(dir, "empty.pgp")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty keyring: %v", err)
	}
	if _, err := loadKeyring(empty); err == nil {
		t.Error("expected error for empty keyring")
	}
}
