package profile

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		tag  string
		want Language
		ok   bool
	}{
		{"rust", Rust, true},
		{"cpp", Cpp, true},
		{"javascript", JavaScript, true},
		{"python", Python, true},
		{"java", Java, true},
		{"Python", Python, true},
		{" java ", Java, true},
		{"go", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.tag)
		if tc.ok && err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.tag, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("Parse(%q) expected error", tc.tag)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestSourceFiles(t *testing.T) {
	want := map[Language]string{
		Rust:       "main.rs",
		Cpp:        "main.cpp",
		JavaScript: "main.js",
		Python:     "main.py",
		Java:       "Main.java",
	}
	for lang, file := range want {
		spec, ok := Get(lang)
		if !ok {
			t.Fatalf("Get(%q) missing", lang)
		}
		if spec.SourceFile != file {
			t.Fatalf("%s source file = %q, want %q", lang, spec.SourceFile, file)
		}
	}
}

func TestInterpretedLanguages(t *testing.T) {
	for _, lang := range All() {
		spec, _ := Get(lang)
		interpreted := lang == Python || lang == JavaScript
		if spec.IsInterpreted() != interpreted {
			t.Fatalf("%s interpreted = %v, want %v", lang, spec.IsInterpreted(), interpreted)
		}
		if interpreted && spec.BinaryFile != "" {
			t.Fatalf("%s is interpreted but declares binary %q", lang, spec.BinaryFile)
		}
		if !interpreted && spec.BinaryFile == "" {
			t.Fatalf("%s is compiled but declares no binary", lang)
		}
	}
}

func TestCompileArgv(t *testing.T) {
	cases := []struct {
		lang Language
		want []string
	}{
		{Rust, []string{"rustc", "main.rs", "--color=always"}},
		{Cpp, []string{"clang++", "main.cpp", "-o", "main", "-fcolor-diagnostics"}},
		{Java, []string{"javac", "Main.java"}},
	}
	for _, tc := range cases {
		spec, _ := Get(tc.lang)
		argv, err := spec.CompileArgv()
		if err != nil {
			t.Fatalf("%s CompileArgv: %v", tc.lang, err)
		}
		if !reflect.DeepEqual(argv, tc.want) {
			t.Fatalf("%s CompileArgv = %v, want %v", tc.lang, argv, tc.want)
		}
	}

	for _, lang := range []Language{Python, JavaScript} {
		spec, _ := Get(lang)
		argv, err := spec.CompileArgv()
		if err != nil {
			t.Fatalf("%s CompileArgv: %v", lang, err)
		}
		if argv != nil {
			t.Fatalf("%s CompileArgv = %v, want nil", lang, argv)
		}
	}
}

func TestRunArgv(t *testing.T) {
	cases := []struct {
		lang Language
		want []string
	}{
		{Rust, []string{"./main"}},
		{Cpp, []string{"./main"}},
		{Java, []string{"java", "Main"}},
		{JavaScript, []string{"deno", "run", "main.js"}},
		{Python, []string{"python3", "main.py"}},
	}
	for _, tc := range cases {
		spec, _ := Get(tc.lang)
		argv, err := spec.RunArgv()
		if err != nil {
			t.Fatalf("%s RunArgv: %v", tc.lang, err)
		}
		if !reflect.DeepEqual(argv, tc.want) {
			t.Fatalf("%s RunArgv = %v, want %v", tc.lang, argv, tc.want)
		}
	}
}
