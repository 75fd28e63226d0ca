package logbuf_test

import (
	"fmt"
	"log"
	"testing"

	"github.com/Sl0thC0der/yt-download-ng/internal/logbuf"
)

func TestRetainsMostRecentLines(t *testing.T) {
	b := logbuf.New(3, nil)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	lines := b.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "line 3" || lines[2] != "line 5" {
		t.Fatalf("wrong retention window: %v", lines)
	}
}

func TestWorksAsLoggerSink(t *testing.T) {
	b := logbuf.New(10, nil)
	lg := log.New(b, "", 0)
	lg.Printf("job_id=%s status=%s", "abc", "running")

	lines := b.Lines()
	if len(lines) != 1 || lines[0] != "job_id=abc status=running" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}
