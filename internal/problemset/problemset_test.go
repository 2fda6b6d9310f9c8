package problemset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRejectsEmptySet(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty set")
	}
}

func TestNewRejectsTestlessProblem(t *testing.T) {
	_, err := New([]TestCases{{}})
	if err == nil {
		t.Fatalf("expected error for problem without tests")
	}
}

func TestGetAndCompleted(t *testing.T) {
	set, err := New([]TestCases{
		{Hidden: TestCase{Input: "1\n", Output: "1\n"}},
		{Public: []TestCase{{Input: "2\n", Output: "4\n"}}, Hidden: TestCase{Input: "3\n", Output: "9\n"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d", set.Len())
	}

	if _, ok := set.Get(-1); ok {
		t.Fatalf("Get(-1) should fail")
	}
	if _, ok := set.Get(2); ok {
		t.Fatalf("Get(2) should fail")
	}
	tests, ok := set.Get(1)
	if !ok {
		t.Fatalf("Get(1) failed")
	}
	if len(tests.Public) != 1 || tests.Hidden.Input != "3\n" {
		t.Fatalf("Get(1) = %+v", tests)
	}

	if set.Completed(1) {
		t.Fatalf("Completed(1) should be false")
	}
	if !set.Completed(2) {
		t.Fatalf("Completed(2) should be true")
	}
	if !set.Completed(5) {
		t.Fatalf("Completed(5) should be true")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problems.yaml")
	content := `
- public:
    - input: "5\n"
      output: "15\n"
  hidden:
    input: "71\n"
    output: "2556\n"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write problems file: %v", err)
	}
	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	tests, ok := set.Get(0)
	if !ok {
		t.Fatalf("Get(0) failed")
	}
	if tests.Public[0].Input != "5\n" || tests.Hidden.Output != "2556\n" {
		t.Fatalf("loaded problem = %+v", tests)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultLadder(t *testing.T) {
	set := Default()
	if set.Len() == 0 {
		t.Fatalf("default set is empty")
	}
	first, ok := set.Get(0)
	if !ok {
		t.Fatalf("default set has no problem 0")
	}
	if len(first.Public) != 3 || first.Hidden.Input != "71\n" {
		t.Fatalf("problem 0 = %+v", first)
	}
}
