// Package auditlog appends newline-terminated lines to log files that are
// only ever grown, never rewritten.
package auditlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Writer appends to one file. Appends from one process are serialized;
// O_APPEND keeps each line whole across processes.
type Writer struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string { return w.path }

// Append writes each line followed by a newline in a single write.
func (w *Writer) Append(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.TrimRight(l, "\n"))
		b.WriteByte('\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", w.path, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", w.path, err)
	}
	return f.Close()
}
