// Package engine spawns judged processes under the isolation helper and
// enforces the external wall-clock limit.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"sync/atomic"
	"time"

	"gauntlet/internal/judge/workspace"
	pkgerrors "gauntlet/pkg/errors"
)

const defaultStdoutStderrMaxBytes int64 = 64 * 1024

// RunSpec describes one process execution.
type RunSpec struct {
	WorkDir  string
	Argv     []string
	Env      []string
	Stdin    []byte
	WallTime time.Duration
	Limits   ResourceLimit

	// OnSpawn is invoked with the child's pid right after a successful
	// start, before any wait. Used to register the child with its
	// workspace so cancellation paths can kill it.
	OnSpawn func(pid int)
	// OnReap is invoked once the child has been reaped.
	OnReap func(pid int)
}

// RunResult captures one process execution.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	TimedOut bool
}

// Engine runs programs under the configured isolation level.
type Engine struct {
	cfg Config
}

// New creates an engine and installs the process-group killer used by
// workspace cleanup.
func New(cfg Config) *Engine {
	if cfg.StdoutStderrMaxBytes <= 0 {
		cfg.StdoutStderrMaxBytes = defaultStdoutStderrMaxBytes
	}
	workspace.SetKiller(KillProcessGroup)
	return &Engine{cfg: cfg}
}

// Run spawns the program described by spec, writes spec.Stdin in full,
// closes the pipe, and waits for exit or for the wall deadline. The wall
// deadline is enforced here regardless of any limit applied inside the
// sandbox. The returned duration is measured from immediately before spawn
// until the child is reaped or killed.
func (e *Engine) Run(ctx context.Context, spec RunSpec) (RunResult, error) {
	if err := validateSpec(spec); err != nil {
		return RunResult{}, err
	}

	argv := spec.Argv
	if e.cfg.HelperPath != "" {
		req := initRequest{
			WorkDir:        spec.WorkDir,
			Argv:           spec.Argv,
			Env:            spec.Env,
			Limits:         mergeLimits(spec.Limits),
			UID:            e.cfg.SandboxUID,
			GID:            e.cfg.SandboxGID,
			Chroot:         e.cfg.EnableChroot,
			SeccompProfile: seccompProfile(e.cfg),
		}
		encoded, err := json.Marshal(req)
		if err != nil {
			return RunResult{}, pkgerrors.Wrapf(err, pkgerrors.SandboxSpawnFailed, "encode init request failed")
		}
		argv = []string{e.cfg.HelperPath, string(encoded)}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = spec.WorkDir
	cmd.Env = buildEnv(spec.Env)
	cmd.SysProcAttr = sysProcAttr(e.cfg)
	cmd.Stdin = bytes.NewReader(spec.Stdin)

	stdout := newCappedBuffer(e.cfg.StdoutStderrMaxBytes)
	stderr := newCappedBuffer(e.cfg.StdoutStderrMaxBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, pkgerrors.Wrapf(err, pkgerrors.SandboxSpawnFailed, "spawn failed")
	}
	pid := cmd.Process.Pid
	if spec.OnSpawn != nil {
		spec.OnSpawn(pid)
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		var wallTimer <-chan time.Time
		if spec.WallTime > 0 {
			wallTimer = time.After(spec.WallTime)
		}
		select {
		case <-ctx.Done():
			KillProcessGroup(pid)
		case <-wallTimer:
			timedOut.Store(true)
			KillProcessGroup(pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	duration := time.Since(start)
	if spec.OnReap != nil {
		spec.OnReap(pid)
	}

	if ctx.Err() != nil {
		return RunResult{}, pkgerrors.Wrap(ctx.Err(), pkgerrors.SandboxSpawnFailed)
	}

	res := RunResult{
		ExitCode: exitCode(waitErr, cmd),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: duration,
		TimedOut: timedOut.Load(),
	}
	return res, nil
}

func validateSpec(spec RunSpec) error {
	if spec.WorkDir == "" {
		return pkgerrors.ValidationError("work_dir", "required")
	}
	if len(spec.Argv) == 0 {
		return pkgerrors.ValidationError("argv", "required")
	}
	return nil
}

func mergeLimits(override ResourceLimit) ResourceLimit {
	limits := DefaultLimits()
	if override.CPUTimeMs > 0 {
		limits.CPUTimeMs = override.CPUTimeMs
	}
	if override.AddressSpaceMB > 0 {
		limits.AddressSpaceMB = override.AddressSpaceMB
	}
	if override.OutputMB > 0 {
		limits.OutputMB = override.OutputMB
	}
	if override.PIDs > 0 {
		limits.PIDs = override.PIDs
	}
	return limits
}

func seccompProfile(cfg Config) string {
	if !cfg.EnableSeccomp {
		return ""
	}
	return cfg.SeccompProfile
}

func buildEnv(env []string) []string {
	if len(env) > 0 {
		return env
	}
	return []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}
}

func exitCode(err error, cmd *exec.Cmd) int {
	if state := cmd.ProcessState; state != nil {
		return state.ExitCode()
	}
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// cappedBuffer keeps at most max bytes and silently drops the rest, so a
// child flooding stdout cannot balloon server memory.
type cappedBuffer struct {
	buf bytes.Buffer
	max int64
}

func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.max - int64(b.buf.Len())
	if remaining > 0 {
		if int64(len(p)) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }
