package rcfile

import (
	"bytes"
	"os"
	"path/filepath"
)

// Template returns the starter config written by Init. The file is
// runnable as-is: it declares an empty default profile and points out
// the recognized options.
func Template() string {
	var buf bytes.Buffer

	buf.WriteString("-- konch config file.\n")
	buf.WriteString("--\n")
	buf.WriteString("-- Recognized options: shell, banner, prompt, output, context,\n")
	buf.WriteString("-- context_format, setup, teardown, go_unrestricted.\n")
	buf.WriteString("-- The read-only platform table describes the host.\n\n")

	buf.WriteString("konch.config({\n")
	buf.WriteString("  context = {\n")
	buf.WriteString("  },\n")
	buf.WriteString("})\n\n")

	buf.WriteString("-- Uncomment to run code around the session:\n")
	buf.WriteString("-- function setup()\n")
	buf.WriteString("-- end\n")
	buf.WriteString("--\n")
	buf.WriteString("-- function teardown()\n")
	buf.WriteString("-- end\n")

	return buf.String()
}

// Init writes the starter config to path, refusing to overwrite an
// existing file. An empty path means DefaultName in the current
// directory. The returned path is absolute.
func Init(path string) (string, error) {
	if path == "" {
		path = DefaultName
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err == nil {
		return "", &ExistsError{Path: path}
	}
	if err := os.WriteFile(abs, []byte(Template()), 0o644); err != nil {
		return "", err
	}
	return abs, nil
}
