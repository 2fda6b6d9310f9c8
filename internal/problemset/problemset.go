// Package problemset holds the process-wide immutable registry of test-case
// bundles, indexed by problem number.
package problemset

import (
	"os"

	pkgerrors "gauntlet/pkg/errors"

	"gopkg.in/yaml.v3"
)

// TestCase pairs a program input with its expected output.
type TestCase struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// TestCases bundles the public tests of one problem with its single hidden
// test.
type TestCases struct {
	Public []TestCase `yaml:"public"`
	Hidden TestCase   `yaml:"hidden"`
}

// Set is an ordered, index-addressable collection of problems. It is
// initialized at startup and read-only afterwards.
type Set struct {
	problems []TestCases
}

// New builds a Set from the given problems in declared order.
func New(problems []TestCases) (*Set, error) {
	if len(problems) == 0 {
		return nil, pkgerrors.New(pkgerrors.ProblemSetEmpty)
	}
	for i, p := range problems {
		if len(p.Public) == 0 && p.Hidden == (TestCase{}) {
			return nil, pkgerrors.Newf(pkgerrors.TestCaseInvalid, "problem %d has no tests", i)
		}
	}
	owned := make([]TestCases, len(problems))
	copy(owned, problems)
	return &Set{problems: owned}, nil
}

// LoadFile reads a YAML problem list from path.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "read problem file failed")
	}
	var problems []TestCases
	if err := yaml.Unmarshal(data, &problems); err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "parse problem file failed")
	}
	return New(problems)
}

// Get returns the test bundle for the given problem index.
func (s *Set) Get(index int) (TestCases, bool) {
	if index < 0 || index >= len(s.problems) {
		return TestCases{}, false
	}
	return s.problems[index], true
}

// Len returns the number of problems.
func (s *Set) Len() int { return len(s.problems) }

// Completed reports whether a player whose solved counter is index has
// finished the whole set.
func (s *Set) Completed(index int) bool { return index >= len(s.problems) }

// Default returns the built-in problem ladder used when no problem file is
// configured.
func Default() *Set {
	set, err := New([]TestCases{
		{
			// sum of 1..n
			Public: []TestCase{
				{Input: "5\n", Output: "15\n"},
				{Input: "10\n", Output: "55\n"},
				{Input: "6\n", Output: "21\n"},
			},
			Hidden: TestCase{Input: "71\n", Output: "2556\n"},
		},
		{
			// reverse a line
			Public: []TestCase{
				{Input: "abc\n", Output: "cba\n"},
				{Input: "racecar\n", Output: "racecar\n"},
			},
			Hidden: TestCase{Input: "gauntlet\n", Output: "teltnuag\n"},
		},
		{
			// n-th fibonacci, 1-indexed
			Public: []TestCase{
				{Input: "1\n", Output: "1\n"},
				{Input: "7\n", Output: "13\n"},
				{Input: "10\n", Output: "55\n"},
			},
			Hidden: TestCase{Input: "40\n", Output: "102334155\n"},
		},
	})
	if err != nil {
		panic(err)
	}
	return set
}
