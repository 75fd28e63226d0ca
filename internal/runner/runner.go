package runner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

type Status int

const (
	StatusCompleted Status = iota
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

const defaultGrace = 5 * time.Second

// Runner launches the external download tool for one job and streams its
// combined output line by line. It knows nothing about jobs or HTTP.
type Runner struct {
	// Command is the tool invocation prefix, e.g. ["python3", "ytdl.py"].
	// The runner appends: download <url> -p <profile>.
	Command []string
	// Dir is the working directory for the tool (downloads land relative
	// to it per the tool's own output-path scheme).
	Dir string
	// Grace is how long a cancelled process gets after SIGTERM before it
	// is force-killed.
	Grace time.Duration
}

func New(command []string, dir string) *Runner {
	return &Runner{Command: command, Dir: dir, Grace: defaultGrace}
}

// Run executes the tool and invokes onLine once per produced output line,
// in production order. Stdout and stderr share one pipe so interleaving is
// decided by the kernel, not by racing readers.
//
// Cancellation is cooperative: ctx cancel sends SIGTERM, and after Grace
// the process is killed. Run does not return until the process has
// actually terminated.
func (r *Runner) Run(ctx context.Context, url, profile string, onLine func(string)) (Status, error) {
	if len(r.Command) == 0 {
		return StatusFailed, fmt.Errorf("runner: empty command")
	}

	args := append(append([]string(nil), r.Command[1:]...), "download", url, "-p", profile)
	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Dir = r.Dir
	// own process group, so cancellation reaches the tool's children too
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = r.Grace
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = defaultGrace
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return StatusFailed, fmt.Errorf("runner: pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		if ctx.Err() != nil {
			return StatusCancelled, ctx.Err()
		}
		return StatusFailed, fmt.Errorf("runner: start %s: %w", r.Command[0], err)
	}
	// the child holds its own copy of the write end
	pw.Close()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	pr.Close()

	werr := cmd.Wait()
	if ctx.Err() != nil {
		return StatusCancelled, nil
	}
	if werr != nil {
		return StatusFailed, fmt.Errorf("runner: tool exited: %w", werr)
	}
	return StatusCompleted, nil
}
