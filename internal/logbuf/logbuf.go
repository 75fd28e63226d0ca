package logbuf

import (
	"io"
	"strings"
	"sync"
)

// Buffer keeps the most recent system-level log lines in memory so they
// can be served over the API. It implements io.Writer and is meant to sit
// in front of the real log sink via log.SetOutput.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	max   int
	next  io.Writer
}

func New(max int, next io.Writer) *Buffer {
	if max <= 0 {
		max = 500
	}
	return &Buffer{max: max, next: next}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append([]string(nil), b.lines[over:]...)
	}
	b.mu.Unlock()

	if b.next != nil {
		return b.next.Write(p)
	}
	return len(p), nil
}

// Lines returns a copy of the retained lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}
