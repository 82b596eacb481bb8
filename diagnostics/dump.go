package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pevans/yoinker/passage"
	"github.com/ulikunitz/xz"
)

// Extension is appended to every dump file name.
const Extension = ".html.xz"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Dump writes xz-compressed markup for ref into dir and returns the path of
// the new file. The directory is created if needed.
func Dump(dir string, ref passage.Reference, markup string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dump directory: %w", err)
	}

	path := filepath.Join(dir, FileName(ref))

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := io.WriteString(w, markup); err != nil {
		return "", fmt.Errorf("failed to compress markup: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to compress markup: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write dump: %w", err)
	}

	return path, nil
}

// FileName names a dump for ref. Each call returns a distinct name.
func FileName(ref passage.Reference) string {
	parts := []string{
		sanitize(ref.Version),
		sanitize(ref.Book),
		sanitize(ref.Chapter),
		uuid.NewString(),
	}
	return strings.Join(parts, "_") + Extension
}

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), "-")
	if s == "" {
		return "unknown"
	}
	return s
}

// Load reads a dump back into markup.
func Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read xz stream: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decompress dump: %w", err)
	}

	return string(data), nil
}
