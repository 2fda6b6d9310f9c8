// Package runner executes a staged program against individual test cases
// under the sandbox engine and maps raw process outcomes to verdicts.
package runner

import (
	"context"
	"strings"
	"time"

	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/sandbox/engine"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/judge/workspace"
	"gauntlet/internal/problemset"
	"gauntlet/pkg/utils/ansi"
	"gauntlet/pkg/utils/logger"

	"go.uber.org/zap"
)

// WallLimit is the hard per-test wall-clock cap, enforced by the runner
// regardless of any limit inside the sandbox.
const WallLimit = 5 * time.Second

// Runner drives one test execution at a time.
type Runner struct {
	eng    *engine.Engine
	limits engine.ResourceLimit
}

// New creates a runner on top of the sandbox engine.
func New(eng *engine.Engine, limits engine.ResourceLimit) *Runner {
	return &Runner{eng: eng, limits: limits}
}

// RunOne executes the program staged in ws against one test case. It returns
// the measured wall-clock duration when the run passes; otherwise the verdict
// that ends the submission. The child is registered with the workspace for
// the duration of the run so cancellation paths can kill it.
func (r *Runner) RunOne(ctx context.Context, lang profile.Language, test problemset.TestCase, ws *workspace.Workspace) (time.Duration, *verdict.Verdict) {
	spec, ok := profile.Get(lang)
	if !ok {
		return 0, verdictPtr(verdict.ServerError())
	}
	argv, err := spec.RunArgv()
	if err != nil {
		logger.Error(ctx, "run argv build failed", zap.String("language", string(lang)), zap.Error(err))
		return 0, verdictPtr(verdict.ServerError())
	}

	res, err := r.eng.Run(ctx, engine.RunSpec{
		WorkDir:  ws.Path(),
		Argv:     argv,
		Stdin:    []byte(test.Input),
		WallTime: WallLimit,
		Limits:   r.limits,
		OnSpawn:  ws.Register,
		OnReap:   ws.Unregister,
	})
	if err != nil {
		logger.Error(ctx, "sandbox run failed", zap.String("language", string(lang)), zap.Error(err))
		return 0, verdictPtr(verdict.ServerError())
	}
	if res.TimedOut {
		return 0, verdictPtr(verdict.Timeout(test))
	}

	stdout := ansi.StripBytes(res.Stdout)
	stderr := ansi.StripBytes(res.Stderr)
	if res.ExitCode != 0 {
		return 0, verdictPtr(verdict.RuntimeError(stdout, stderr))
	}
	if NormalizeLines(stdout) != NormalizeLines(test.Output) {
		return 0, verdictPtr(verdict.WrongAnswer(test, stdout, stderr))
	}
	return res.Duration, nil
}

// NormalizeLines splits by \n, trims trailing whitespace of each line, and
// rejoins with \n. Leading whitespace and blank lines are preserved.
func NormalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r\v\f")
	}
	return strings.Join(lines, "\n")
}

func verdictPtr(v verdict.Verdict) *verdict.Verdict { return &v }
