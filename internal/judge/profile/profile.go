// Package profile maps a submission language to its source filename and the
// commands that compile and run it.
package profile

import (
	"strings"

	pkgerrors "gauntlet/pkg/errors"

	"github.com/google/shlex"
)

// Language is the closed set of supported submission languages.
type Language string

const (
	Rust       Language = "rust"
	Cpp        Language = "cpp"
	JavaScript Language = "javascript"
	Python     Language = "python"
	Java       Language = "java"
)

// Spec defines how one language is staged, compiled, and run. Command
// templates use {src} for the source filename; interpreted languages leave
// CompileCmdTpl empty.
type Spec struct {
	Language      Language
	SourceFile    string
	BinaryFile    string
	CompileCmdTpl string
	RunCmdTpl     string
}

// Compiled languages carry their color-diagnostics flags; the compiler
// driver strips the escapes from captured stderr.
var specs = map[Language]Spec{
	Rust: {
		Language:      Rust,
		SourceFile:    "main.rs",
		BinaryFile:    "main",
		CompileCmdTpl: "rustc {src} --color=always",
		RunCmdTpl:     "./main",
	},
	Cpp: {
		Language:      Cpp,
		SourceFile:    "main.cpp",
		BinaryFile:    "main",
		CompileCmdTpl: "clang++ {src} -o main -fcolor-diagnostics",
		RunCmdTpl:     "./main",
	},
	JavaScript: {
		Language:   JavaScript,
		SourceFile: "main.js",
		RunCmdTpl:  "deno run main.js",
	},
	Python: {
		Language:   Python,
		SourceFile: "main.py",
		RunCmdTpl:  "python3 main.py",
	},
	Java: {
		Language:      Java,
		SourceFile:    "Main.java",
		BinaryFile:    "Main.class",
		CompileCmdTpl: "javac {src}",
		RunCmdTpl:     "java Main",
	},
}

// Parse maps a wire tag to a Language.
func Parse(tag string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := specs[lang]; !ok {
		return "", pkgerrors.Newf(pkgerrors.LanguageNotSupported, "unsupported language: %s", tag)
	}
	return lang, nil
}

// Get returns the spec for a language.
func Get(lang Language) (Spec, bool) {
	spec, ok := specs[lang]
	return spec, ok
}

// All returns every supported language tag.
func All() []Language {
	return []Language{Rust, Cpp, JavaScript, Python, Java}
}

// IsInterpreted reports whether the language runs straight from source.
func (s Spec) IsInterpreted() bool { return s.CompileCmdTpl == "" }

// CompileArgv expands the compile command into an argument vector.
// Interpreted languages return nil.
func (s Spec) CompileArgv() ([]string, error) {
	if s.IsInterpreted() {
		return nil, nil
	}
	return s.expand(s.CompileCmdTpl)
}

// RunArgv expands the run command into an argument vector.
func (s Spec) RunArgv() ([]string, error) {
	return s.expand(s.RunCmdTpl)
}

func (s Spec) expand(tpl string) ([]string, error) {
	expanded := strings.ReplaceAll(tpl, "{src}", s.SourceFile)
	fields, err := shlex.Split(expanded)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.InvalidParams, "parse command template failed")
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.InvalidParams).WithMessage("command is empty after expansion")
	}
	return fields, nil
}
