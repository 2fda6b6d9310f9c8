package runner

import (
	"context"
	"os/exec"
	"testing"

	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/sandbox/engine"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/judge/workspace"
	"gauntlet/internal/problemset"
)

func TestNormalizeLines(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "15\n", "15\n"},
		{"trailing spaces", "15   \n", "15\n"},
		{"trailing tabs", "a\tb\t\t\n", "a\tb\n"},
		{"carriage returns", "15\r\n", "15\n"},
		{"leading spaces kept", "  15\n", "  15\n"},
		{"blank lines kept", "a\n\nb\n", "a\n\nb\n"},
		{"multi line", "1 \n2\t\n3\n", "1\n2\n3\n"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLines(tc.in); got != tc.want {
				t.Fatalf("NormalizeLines(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizedComparison(t *testing.T) {
	if NormalizeLines("15  \n") != NormalizeLines("15\n") {
		t.Fatalf("trailing whitespace should not matter")
	}
	if NormalizeLines(" 15\n") == NormalizeLines("15\n") {
		t.Fatalf("leading whitespace must matter")
	}
	if NormalizeLines("15\n\n") == NormalizeLines("15\n") {
		t.Fatalf("blank lines must matter")
	}
}

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
}

func stage(t *testing.T, code string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	if err := ws.WriteFile("main.py", []byte(code)); err != nil {
		t.Fatalf("stage source: %v", err)
	}
	return ws
}

func newTestRunner() *Runner {
	return New(engine.New(engine.Config{}), engine.ResourceLimit{})
}

func TestRunOnePass(t *testing.T) {
	requirePython(t)
	ws := stage(t, "n=int(input()); print(n*(n+1)//2)\n")
	r := newTestRunner()

	d, v := r.RunOne(context.Background(), profile.Python,
		problemset.TestCase{Input: "5\n", Output: "15\n"}, ws)
	if v != nil {
		t.Fatalf("verdict = %+v, want pass", v)
	}
	if d <= 0 {
		t.Fatalf("duration = %v", d)
	}
}

func TestRunOneWrongAnswer(t *testing.T) {
	requirePython(t)
	ws := stage(t, "input(); print(0)\n")
	r := newTestRunner()

	test := problemset.TestCase{Input: "5\n", Output: "15\n"}
	_, v := r.RunOne(context.Background(), profile.Python, test, ws)
	if v == nil || v.Status != verdict.StatusWrongAnswer {
		t.Fatalf("verdict = %+v, want WrongAnswer", v)
	}
	if v.Failed.Test != test {
		t.Fatalf("failed test = %+v", v.Failed.Test)
	}
	if NormalizeLines(v.Failed.Stdout) != "0\n" {
		t.Fatalf("stdout = %q", v.Failed.Stdout)
	}
}

func TestRunOneRuntimeError(t *testing.T) {
	requirePython(t)
	ws := stage(t, "raise SystemExit(1)\n")
	r := newTestRunner()

	_, v := r.RunOne(context.Background(), profile.Python,
		problemset.TestCase{Input: "", Output: ""}, ws)
	if v == nil || v.Status != verdict.StatusRuntimeError {
		t.Fatalf("verdict = %+v, want RuntimeError", v)
	}
	if v.Streams.Stdout != "" {
		t.Fatalf("stdout = %q, want empty", v.Streams.Stdout)
	}
}

func TestRunOneEmptyInput(t *testing.T) {
	requirePython(t)
	ws := stage(t, "print(42)\n")
	r := newTestRunner()

	_, v := r.RunOne(context.Background(), profile.Python,
		problemset.TestCase{Input: "", Output: "42\n"}, ws)
	if v != nil {
		t.Fatalf("verdict = %+v, want pass", v)
	}
}
