// Package compiler stages submitted source into a workspace and drives the
// language's compile step.
package compiler

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/workspace"
	pkgerrors "gauntlet/pkg/errors"
	"gauntlet/pkg/utils/ansi"
	"gauntlet/pkg/utils/logger"

	"go.uber.org/zap"
)

const defaultCompileTimeout = 30 * time.Second

// Result is the outcome of Prepare. Exactly one of the fields beyond
// Workspace is meaningful: compile diagnostics on failure, or nothing.
type Result struct {
	// Workspace holds the staged (and, for compiled languages, built)
	// program. Nil when compilation failed; the caller owns Close.
	Workspace *workspace.Workspace
	// Diagnostics carries ANSI-stripped compiler stderr when the compile
	// step exited non-zero, or "compile timeout" when it hit the ceiling.
	Diagnostics string
}

// Driver writes sources and invokes compilers inside fresh workspaces.
type Driver struct {
	timeout time.Duration
}

// New creates a Driver. A non-positive timeout selects the default compile
// ceiling.
func New(timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = defaultCompileTimeout
	}
	return &Driver{timeout: timeout}
}

// Prepare acquires a workspace, writes code to the language's source file,
// and runs the compile command when the language needs one. The compile step
// gets no stdin and a minimal environment. A non-zero compiler exit returns
// diagnostics; infrastructure failures return an error and no workspace.
func (d *Driver) Prepare(ctx context.Context, code string, lang profile.Language) (Result, error) {
	spec, ok := profile.Get(lang)
	if !ok {
		return Result{}, pkgerrors.Newf(pkgerrors.LanguageNotSupported, "unsupported language: %s", lang)
	}

	ws, err := workspace.Acquire()
	if err != nil {
		return Result{}, err
	}
	keep := false
	defer func() {
		if !keep {
			_ = ws.Close()
		}
	}()

	if err := ws.WriteFile(spec.SourceFile, []byte(code)); err != nil {
		return Result{}, err
	}
	if spec.IsInterpreted() {
		keep = true
		return Result{Workspace: ws}, nil
	}

	argv, err := spec.CompileArgv()
	if err != nil {
		return Result{}, err
	}

	compileCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(compileCtx, argv[0], argv[1:]...)
	cmd.Dir = ws.Path()
	cmd.Env = []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}

	stderr, runErr := runCompile(cmd)
	if errors.Is(compileCtx.Err(), context.DeadlineExceeded) {
		logger.Warn(ctx, "compile timed out",
			zap.String("language", string(lang)),
			zap.Duration("timeout", d.timeout))
		return Result{Diagnostics: "compile timeout"}, nil
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Result{Diagnostics: ansi.StripBytes(stderr)}, nil
		}
		return Result{}, pkgerrors.Wrapf(runErr, pkgerrors.CompileFailed, "spawn compiler failed")
	}

	keep = true
	return Result{Workspace: ws}, nil
}

func runCompile(cmd *exec.Cmd) ([]byte, error) {
	var stderr capture
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.data, err
}

type capture struct {
	data []byte
}

func (c *capture) Write(p []byte) (int, error) {
	c.data = append(c.data, p...)
	return len(p), nil
}
