package potoken

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sync/singleflight"
)

// DefaultProbeURL is the token server's health endpoint.
const DefaultProbeURL = "http://127.0.0.1:4416/ping"

var ErrNotResponding = errors.New("token server started but not responding")

type ServerStatus struct {
	Running bool `json:"running"`
	PID     int  `json:"pid,omitempty"`
}

// Supervisor manages the singleton PO token server as a background
// process: a health probe, and an idempotent start with a single in-flight
// attempt shared by concurrent callers. A crashed server shows up as
// Running=false; the supervisor never restarts it on its own.
type Supervisor struct {
	probeURL string
	client   *http.Client
	spawn    func() (int, error)
	group    singleflight.Group

	mu  sync.Mutex
	pid int
}

// New builds a supervisor spawning cmd (argv) in dir, detached into its
// own process group with output discarded, the way the original tooling
// launches `node main.js`.
func New(probeURL string, cmd []string, dir string) *Supervisor {
	s := &Supervisor{
		probeURL: probeURL,
		client:   &http.Client{Timeout: time.Second},
	}
	s.spawn = func() (int, error) {
		if len(cmd) == 0 {
			return 0, errors.New("potoken: no spawn command configured")
		}
		c := exec.Command(cmd[0], cmd[1:]...)
		c.Dir = dir
		c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		if err := c.Start(); err != nil {
			return 0, err
		}
		pid := c.Process.Pid
		// reap the child when it eventually exits
		go func() { _ = c.Wait() }()
		return pid, nil
	}
	return s
}

// NewWithSpawner is used by tests to count and control spawn attempts.
func NewWithSpawner(probeURL string, spawn func() (int, error)) *Supervisor {
	return &Supervisor{
		probeURL: probeURL,
		client:   &http.Client{Timeout: time.Second},
		spawn:    spawn,
	}
}

func (s *Supervisor) healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Status probes the health endpoint. The PID is best-effort: the one we
// spawned, or a node process found running the token server build.
func (s *Supervisor) Status(ctx context.Context) ServerStatus {
	st := ServerStatus{Running: s.healthy(ctx)}
	if !st.Running {
		return st
	}
	s.mu.Lock()
	st.PID = s.pid
	s.mu.Unlock()
	if st.PID == 0 {
		st.PID = findServerPID()
	}
	return st
}

// EnsureStarted spawns the token server if it is not already responding.
// Concurrent callers share one attempt and its outcome.
func (s *Supervisor) EnsureStarted(ctx context.Context) error {
	_, err, _ := s.group.Do("start", func() (any, error) {
		if s.healthy(ctx) {
			return nil, nil
		}

		pid, err := s.spawn()
		if err != nil {
			return nil, fmt.Errorf("potoken: spawn: %w", err)
		}
		s.mu.Lock()
		s.pid = pid
		s.mu.Unlock()
		log.Printf("[potoken] spawned token server pid=%d", pid)

		// give it a moment to come up
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if s.healthy(ctx) {
				return nil, nil
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(250 * time.Millisecond):
			}
		}
		return nil, ErrNotResponding
	})
	return err
}

// findServerPID scans for a node process running the token server, the
// same heuristic the original CLI used via psutil.
func findServerPID() int {
	procs, err := process.Processes()
	if err != nil {
		return 0
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || (name != "node" && name != "node.exe") {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			continue
		}
		if strings.Contains(cmdline, "main.js") {
			return int(p.Pid)
		}
	}
	return 0
}
