// Package service implements the judging pipeline: compile, run every test
// in order, assemble the verdict, and advance player progress on acceptance.
package service

import (
	"context"
	"time"

	"gauntlet/internal/judge/compiler"
	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/judge/workspace"
	"gauntlet/internal/problemset"
	"gauntlet/pkg/utils/logger"

	"go.uber.org/zap"
)

// CompilerDriver stages and compiles a submission.
type CompilerDriver interface {
	Prepare(ctx context.Context, code string, lang profile.Language) (compiler.Result, error)
}

// TestRunner runs one staged test case.
type TestRunner interface {
	RunOne(ctx context.Context, lang profile.Language, test problemset.TestCase, ws *workspace.Workspace) (time.Duration, *verdict.Verdict)
}

// JudgeService evaluates a submission against one problem's tests.
type JudgeService struct {
	compiler CompilerDriver
	runner   TestRunner
	problems *problemset.Set
}

// NewJudgeService wires the compile and run stages over the problem set.
func NewJudgeService(c CompilerDriver, r TestRunner, problems *problemset.Set) *JudgeService {
	return &JudgeService{compiler: c, runner: r, problems: problems}
}

// Judge compiles code and runs it against the problem's public tests in
// declared order, then the hidden test. The first failing public test ends
// the submission; a wrong answer on the hidden test is masked. When every
// test passes it reports the mean duration and the maximum absolute
// deviation from that mean.
func (s *JudgeService) Judge(ctx context.Context, problemIndex int, code string, lang profile.Language) verdict.Verdict {
	tests, ok := s.problems.Get(problemIndex)
	if !ok {
		return verdict.InvalidProblem(problemIndex)
	}

	prep, err := s.compiler.Prepare(ctx, code, lang)
	if err != nil {
		logger.Error(ctx, "compile stage failed", zap.String("language", string(lang)), zap.Error(err))
		return verdict.ServerError()
	}
	if prep.Workspace == nil {
		return verdict.CannotCompile(prep.Diagnostics)
	}
	ws := prep.Workspace
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn(ctx, "workspace cleanup failed", zap.Error(err))
		}
	}()

	durations := make([]time.Duration, 0, len(tests.Public)+1)
	for _, test := range tests.Public {
		d, v := s.runner.RunOne(ctx, lang, test, ws)
		if v != nil {
			return *v
		}
		durations = append(durations, d)
	}

	d, v := s.runner.RunOne(ctx, lang, tests.Hidden, ws)
	if v != nil {
		if v.Status == verdict.StatusWrongAnswer {
			return verdict.Hidden()
		}
		return *v
	}
	durations = append(durations, d)

	if len(durations) == 0 {
		logger.Error(ctx, "no durations recorded for accepted submission", zap.Int("problem", problemIndex))
		return verdict.ServerError()
	}
	mean, jitter := timingStats(durations)
	return verdict.Accepted(mean, jitter)
}

// timingStats returns the mean duration and the maximum absolute deviation
// from it.
func timingStats(durations []time.Duration) (time.Duration, time.Duration) {
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	mean := sum / time.Duration(len(durations))

	var jitter time.Duration
	for _, d := range durations {
		dev := d - mean
		if dev < 0 {
			dev = -dev
		}
		if dev > jitter {
			jitter = dev
		}
	}
	return mean, jitter
}
