package directive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	// Disable go.work so temp directories work as standalone modules
	t.Setenv("GOWORK", "off")
	tests := []struct {
		name      string
		files     map[string]string
		wantSkips []Directive // only Kind, Reason and Callable are compared
		wantErr   string      // expected error substring, empty if none
	}{
		{
			name: "no directives",
			files: map[string]string{
				"lib.go": `package lib

// Add adds.
func Add(a, b int) int { return a + b }
`,
			},
		},
		{
			name: "skip function",
			files: map[string]string{
				"lib.go": `package lib

//sigprop:skip
func Sleep(n int) {}
`,
			},
			wantSkips: []Directive{{Kind: KindSkip, Callable: "Sleep"}},
		},
		{
			name: "skip with reason after doc text",
			files: map[string]string{
				"lib.go": `package lib

// Fetch calls the network.
//
//sigprop:skip talks to a remote server
func Fetch(url string) string { return url }
`,
			},
			wantSkips: []Directive{{Kind: KindSkip, Reason: "talks to a remote server", Callable: "Fetch"}},
		},
		{
			name: "skip methods",
			files: map[string]string{
				"lib.go": `package lib

type Conn struct{}

//sigprop:skip
func (c *Conn) Close() error { return nil }

type Box[T any] struct{ v T }

//sigprop:skip generic
func (b Box[T]) Get() T { return b.v }
`,
			},
			wantSkips: []Directive{
				{Kind: KindSkip, Callable: "Conn.Close"},
				{Kind: KindSkip, Reason: "generic", Callable: "Box.Get"},
			},
		},
		{
			name: "skips across files",
			files: map[string]string{
				"a.go": `package lib

//sigprop:skip
func A() {}
`,
				"b.go": `package lib

//sigprop:skip
func B() {}
`,
			},
			wantSkips: []Directive{
				{Kind: KindSkip, Callable: "A"},
				{Kind: KindSkip, Callable: "B"},
			},
		},
		{
			name: "unknown directive",
			files: map[string]string{
				"lib.go": `package lib

//sigprop:only
func A() {}
`,
			},
			wantErr: "unknown directive //sigprop:only",
		},
		{
			name: "directive not on a function",
			files: map[string]string{
				"lib.go": `package lib

//sigprop:skip
var X = 1
`,
			},
			wantErr: "must be followed by a function declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			goMod := "module example.com/lib\n\ngo 1.21\n"
			if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0644); err != nil {
				t.Fatal(err)
			}
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			result, err := ParseDir(".", dir)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(result.Skips) != len(tt.wantSkips) {
				t.Fatalf("got %d skips %v, want %d", len(result.Skips), result.Skips, len(tt.wantSkips))
			}
			for i, want := range tt.wantSkips {
				got := result.Skips[i]
				if got.Kind != want.Kind || got.Reason != want.Reason || got.Callable != want.Callable {
					t.Errorf("skip %d: got %+v, want %+v", i, got, want)
				}
				if got.Pos.Line == 0 {
					t.Errorf("skip %d: missing position", i)
				}
			}
			if result.PackagePath != "example.com/lib" {
				t.Errorf("package path: got %q", result.PackagePath)
			}
		})
	}
}

func TestResult_Skipped(t *testing.T) {
	r := &Result{Skips: []Directive{{Kind: KindSkip, Callable: "Conn.Close", Reason: "io"}}}
	if d, ok := r.Skipped("Conn.Close"); !ok || d.Reason != "io" {
		t.Errorf("Skipped(Conn.Close) = %+v, %v", d, ok)
	}
	if _, ok := r.Skipped("Close"); ok {
		t.Error("Skipped(Close) matched a method")
	}
}

func TestScan_IgnoresPlainComments(t *testing.T) {
	src := `package lib

// sigprop:skip is not a directive with the space.
func A() {}

//go:noinline
func B() {}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "lib.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := Scan(fset, nil)
	if err != nil || len(ds) != 0 {
		t.Fatalf("empty scan: %v %v", ds, err)
	}
	ds, err = Scan(fset, []*ast.File{f})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 0 {
		t.Errorf("got %v, want no directives", ds)
	}
}
