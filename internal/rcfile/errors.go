package rcfile

import (
	"fmt"
	"strings"
)

// NotFoundError reports that an explicitly requested config file does
// not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found", e.Path)
}

// ExistsError reports an attempt to initialize a config file over one
// that is already present.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%q already exists", e.Path)
}

// ExecError represents a config file execution failure.
type ExecError struct {
	Path    string // File being executed, empty for in-memory sources
	Message string // User-friendly message
	Detail  string // Raw Lua error
}

// Error trims the Lua stack traceback from the detail; the full text
// stays available in Detail for debug logging.
func (e *ExecError) Error() string {
	detail := e.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", e.Message, detail)
}
