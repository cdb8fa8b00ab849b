package trust

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// sidecarExtensions are the detached signature files looked for next to a
// startup file, in preference order.
var sidecarExtensions = []string{".asc", ".sig"}

// verifySidecar verifies a detached signature next to path when the store
// has a keyring configured. No keyring or no sidecar means nothing to
// verify and the approval proceeds on the content hash alone.
func (s *Store) verifySidecar(path string) error {
	if s.keyring == "" {
		return nil
	}
	sig := findSidecar(path)
	if sig == "" {
		return nil
	}

	keyring, err := loadKeyring(s.keyring)
	if err != nil {
		return &SignatureError{Path: path, Err: err}
	}
	if err := checkDetached(keyring, path, sig); err != nil {
		return &SignatureError{Path: path, Err: err}
	}

	s.logger.Debugw("signature verified", "path", path, "signature", sig)
	return nil
}

// findSidecar returns the first existing signature sidecar for path, or ""
// when none exists.
func findSidecar(path string) string {
	for _, ext := range sidecarExtensions {
		candidate := path + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// loadKeyring reads a keyring file, accepting both armored and binary
// formats.
func loadKeyring(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer f.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as a non-armored keyring
		f.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}
	return keyring, nil
}

// checkDetached verifies the detached signature at sigPath over the file at
// path, accepting armored and binary signatures.
func checkDetached(keyring openpgp.EntityList, path, sigPath string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sig.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, f, sig, nil)
	if err != nil {
		// Try a non-armored signature
		f.Seek(0, io.SeekStart)
		sig.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, f, sig, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}
