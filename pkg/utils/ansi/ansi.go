// Package ansi strips terminal escape sequences from captured tool output.
package ansi

import "regexp"

// Compilers are invoked with color diagnostics enabled; their stderr carries
// CSI and OSC sequences that must not reach API clients.
var escapePattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)|\x1b[@-_]`)

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return escapePattern.ReplaceAllString(s, "")
}

// StripBytes removes ANSI escape sequences and decodes as UTF-8 text.
func StripBytes(b []byte) string {
	return Strip(string(b))
}
