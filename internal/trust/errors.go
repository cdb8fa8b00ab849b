package trust

import "fmt"

// FileNotFoundError reports an allow or deny target that is missing on disk.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%q does not exist", e.Path)
}

// BlockedError reports a startup file with no approval record. Execution
// must not proceed.
type BlockedError struct {
	Path string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%q is blocked: verify its contents and run \"konch allow %s\" to approve it", e.Path, e.Path)
}

// ChangedError reports a startup file whose contents no longer match the
// approved hash. Execution must not proceed.
type ChangedError struct {
	Path string
}

func (e *ChangedError) Error() string {
	return fmt.Sprintf("%q has changed since it was approved: run \"konch allow %s\" to approve the new contents", e.Path, e.Path)
}

// SignatureError reports a detached signature that failed verification
// during approval.
type SignatureError struct {
	Path string
	Err  error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature verification failed for %q: %v", e.Path, e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
