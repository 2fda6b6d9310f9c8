package service

import (
	"context"
	"testing"
	"time"

	"gauntlet/internal/judge/compiler"
	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/judge/workspace"
	"gauntlet/internal/problemset"
	pkgerrors "gauntlet/pkg/errors"
)

type fakeCompiler struct {
	diagnostics string
	err         error
	calls       int
}

func (f *fakeCompiler) Prepare(ctx context.Context, code string, lang profile.Language) (compiler.Result, error) {
	f.calls++
	if f.err != nil {
		return compiler.Result{}, f.err
	}
	if f.diagnostics != "" {
		return compiler.Result{Diagnostics: f.diagnostics}, nil
	}
	ws, err := workspace.Acquire()
	if err != nil {
		return compiler.Result{}, err
	}
	return compiler.Result{Workspace: ws}, nil
}

type runOutcome struct {
	duration time.Duration
	verdict  *verdict.Verdict
}

type fakeRunner struct {
	outcomes []runOutcome
	tests    []problemset.TestCase
}

func (f *fakeRunner) RunOne(ctx context.Context, lang profile.Language, test problemset.TestCase, ws *workspace.Workspace) (time.Duration, *verdict.Verdict) {
	idx := len(f.tests)
	f.tests = append(f.tests, test)
	if idx < len(f.outcomes) {
		return f.outcomes[idx].duration, f.outcomes[idx].verdict
	}
	return time.Millisecond, nil
}

func vp(v verdict.Verdict) *verdict.Verdict { return &v }

func newSet(t *testing.T) *problemset.Set {
	t.Helper()
	set, err := problemset.New([]problemset.TestCases{{
		Public: []problemset.TestCase{
			{Input: "5\n", Output: "15\n"},
			{Input: "10\n", Output: "55\n"},
			{Input: "6\n", Output: "21\n"},
		},
		Hidden: problemset.TestCase{Input: "71\n", Output: "2556\n"},
	}})
	if err != nil {
		t.Fatalf("problem set: %v", err)
	}
	return set
}

func TestJudgeInvalidProblem(t *testing.T) {
	comp := &fakeCompiler{}
	svc := NewJudgeService(comp, &fakeRunner{}, newSet(t))

	v := svc.Judge(context.Background(), 5, "code", profile.Python)
	if v.Status != verdict.StatusInvalidProblem || v.Problem != 5 {
		t.Fatalf("verdict = %+v", v)
	}
	if comp.calls != 0 {
		t.Fatalf("compiler invoked for invalid problem")
	}
}

func TestJudgeCannotCompile(t *testing.T) {
	run := &fakeRunner{}
	svc := NewJudgeService(&fakeCompiler{diagnostics: "expected `;`"}, run, newSet(t))

	v := svc.Judge(context.Background(), 0, "code", profile.Rust)
	if v.Status != verdict.StatusCannotCompile {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Diagnostics != "expected `;`" {
		t.Fatalf("diagnostics = %q", v.Diagnostics)
	}
	if len(run.tests) != 0 {
		t.Fatalf("tests ran after compile failure")
	}
}

func TestJudgeCompileInfraFailure(t *testing.T) {
	svc := NewJudgeService(&fakeCompiler{err: pkgerrors.New(pkgerrors.InternalServerError)}, &fakeRunner{}, newSet(t))
	v := svc.Judge(context.Background(), 0, "code", profile.Rust)
	if v.Status != verdict.StatusServerError {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestJudgeShortCircuitsOnPublicFailure(t *testing.T) {
	set := newSet(t)
	tests, _ := set.Get(0)
	wrong := vp(verdict.WrongAnswer(tests.Public[1], "0\n", ""))
	run := &fakeRunner{outcomes: []runOutcome{
		{duration: time.Millisecond},
		{verdict: wrong},
	}}
	svc := NewJudgeService(&fakeCompiler{}, run, set)

	v := svc.Judge(context.Background(), 0, "code", profile.Python)
	if v.Status != verdict.StatusWrongAnswer {
		t.Fatalf("verdict = %+v", v)
	}
	if len(run.tests) != 2 {
		t.Fatalf("ran %d tests after failure on second, want 2", len(run.tests))
	}
}

func TestJudgeRunsTestsInDeclaredOrder(t *testing.T) {
	set := newSet(t)
	run := &fakeRunner{}
	svc := NewJudgeService(&fakeCompiler{}, run, set)

	v := svc.Judge(context.Background(), 0, "code", profile.Python)
	if v.Status != verdict.StatusAccepted {
		t.Fatalf("verdict = %+v", v)
	}
	tests, _ := set.Get(0)
	want := append(append([]problemset.TestCase{}, tests.Public...), tests.Hidden)
	if len(run.tests) != len(want) {
		t.Fatalf("ran %d tests, want %d", len(run.tests), len(want))
	}
	for i := range want {
		if run.tests[i] != want[i] {
			t.Fatalf("test %d = %+v, want %+v", i, run.tests[i], want[i])
		}
	}
}

func TestJudgeMasksHiddenWrongAnswer(t *testing.T) {
	set := newSet(t)
	tests, _ := set.Get(0)
	run := &fakeRunner{outcomes: []runOutcome{
		{duration: time.Millisecond},
		{duration: time.Millisecond},
		{duration: time.Millisecond},
		{verdict: vp(verdict.WrongAnswer(tests.Hidden, "leak\n", "leak\n"))},
	}}
	svc := NewJudgeService(&fakeCompiler{}, run, set)

	v := svc.Judge(context.Background(), 0, "code", profile.Cpp)
	if v.Status != verdict.StatusHidden {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Failed.Stdout != "" || v.Failed.Stderr != "" || v.Failed.Test != (problemset.TestCase{}) {
		t.Fatalf("hidden verdict leaked payload: %+v", v.Failed)
	}
}

func TestJudgeDoesNotMaskHiddenTimeout(t *testing.T) {
	set := newSet(t)
	tests, _ := set.Get(0)
	run := &fakeRunner{outcomes: []runOutcome{
		{duration: time.Millisecond},
		{duration: time.Millisecond},
		{duration: time.Millisecond},
		{verdict: vp(verdict.Timeout(tests.Hidden))},
	}}
	svc := NewJudgeService(&fakeCompiler{}, run, set)

	v := svc.Judge(context.Background(), 0, "code", profile.Python)
	if v.Status != verdict.StatusTimeout {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Test != tests.Hidden {
		t.Fatalf("timeout test = %+v", v.Test)
	}
}

func TestJudgeAcceptedTimingStats(t *testing.T) {
	run := &fakeRunner{outcomes: []runOutcome{
		{duration: 10 * time.Millisecond},
		{duration: 20 * time.Millisecond},
		{duration: 30 * time.Millisecond},
		{duration: 20 * time.Millisecond},
	}}
	svc := NewJudgeService(&fakeCompiler{}, run, newSet(t))

	v := svc.Judge(context.Background(), 0, "code", profile.Python)
	if v.Status != verdict.StatusAccepted {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Timing.MeanMs != 20 {
		t.Fatalf("mean_ms = %v, want 20", v.Timing.MeanMs)
	}
	if v.Timing.JitterMs != 10 {
		t.Fatalf("jitter_ms = %v, want 10", v.Timing.JitterMs)
	}
}

func TestTimingStatsBounds(t *testing.T) {
	cases := [][]time.Duration{
		{time.Millisecond},
		{time.Millisecond, time.Millisecond},
		{5 * time.Millisecond, 9 * time.Millisecond, 2 * time.Millisecond},
		{time.Second, time.Millisecond, 400 * time.Millisecond, 20 * time.Millisecond},
	}
	for _, durations := range cases {
		mean, jitter := timingStats(durations)
		min, max := durations[0], durations[0]
		for _, d := range durations {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
		if jitter < 0 {
			t.Fatalf("jitter %v < 0", jitter)
		}
		if jitter > max-min {
			t.Fatalf("jitter %v > spread %v", jitter, max-min)
		}
		if mean < min || mean > max {
			t.Fatalf("mean %v outside [%v, %v]", mean, min, max)
		}
	}
}
