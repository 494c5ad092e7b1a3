// Package harness checks a Go package's callables by building and running a
// property test inside the package.
//
// It uses Go's -overlay flag to add a generated _test.go file to the user's
// package. The file binds every discovered callable by name and hands the
// bindings to sigprop, so unexported types and package main work unchanged.
package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/broady/sigprop/internal/discover"
)

// FileName is the name of the generated test file inside the package.
const FileName = "sigprop_harness_test.go"

// TestName is the generated test function.
const TestName = "TestSigpropHarness"

// Options configures the harness.
type Options struct {
	// Package is the discovered target package.
	Package *discover.Result

	// Callables are the callables to bind. Others compile but are skipped.
	Callables []discover.Callable

	// Examples is the number of examples rapid draws per callable.
	Examples int

	// Seed fixes rapid's seed. Zero lets rapid pick one.
	Seed uint64

	// MaxLen caps generated container sizes. Zero keeps the default.
	MaxLen int

	// RepeatIsCycle treats repeated declared types as cycles.
	RepeatIsCycle bool

	// DeepProducts and DeepDomains select deep oracle validation.
	DeepProducts bool
	DeepDomains  bool

	// Verbose passes -v to go test.
	Verbose bool
}

// Exec builds and runs the harness test, returning the combined go test
// output. A failing property makes err non-nil.
func Exec(ctx context.Context, opts Options) (output []byte, err error) {
	if opts.Package == nil || opts.Package.Dir == "" {
		return nil, fmt.Errorf("no package directory")
	}

	tmpDir, err := os.MkdirTemp("", "sigprop-harness-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	src, err := Generate(opts)
	if err != nil {
		return nil, fmt.Errorf("generate harness: %w", err)
	}

	harnessFile := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(harnessFile, src, 0644); err != nil {
		return nil, fmt.Errorf("write harness: %w", err)
	}

	// The harness maps to a "new" file in the package.
	overlayData := struct {
		Replace map[string]string `json:"Replace"`
	}{Replace: map[string]string{
		filepath.Join(opts.Package.Dir, FileName): harnessFile,
	}}

	overlayJSON, err := json.Marshal(overlayData)
	if err != nil {
		return nil, fmt.Errorf("marshal overlay: %w", err)
	}

	overlayFile := filepath.Join(tmpDir, "overlay.json")
	if err := os.WriteFile(overlayFile, overlayJSON, 0644); err != nil {
		return nil, fmt.Errorf("write overlay: %w", err)
	}

	// Use -mod=mod so go.mod can pick up the sigprop requirement.
	testCmd := exec.CommandContext(ctx, "go", testArgs(opts, overlayFile)...)
	testCmd.Dir = opts.Package.Dir
	testCmd.Env = append(os.Environ(), "GOWORK=off")
	output, err = testCmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("go test: %w", err)
	}
	return output, nil
}

func testArgs(opts Options, overlayFile string) []string {
	args := []string{"test", "-mod=mod", "-overlay", overlayFile, "-count=1", "-run", "^" + TestName + "$"}
	if opts.Verbose {
		args = append(args, "-v")
	}
	args = append(args, ".", "-args")
	if opts.Examples > 0 {
		args = append(args, fmt.Sprintf("-rapid.checks=%d", opts.Examples))
	}
	if opts.Seed != 0 {
		args = append(args, fmt.Sprintf("-rapid.seed=%d", opts.Seed))
	}
	return args
}

// Generate renders the harness test source.
func Generate(opts Options) ([]byte, error) {
	if opts.Package == nil {
		return nil, fmt.Errorf("no package")
	}
	tmpl, err := template.New("harness").Parse(harnessTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package       string
		TestName      string
		Callables     []discover.Callable
		MaxLen        int
		RepeatIsCycle bool
		DeepProducts  bool
		DeepDomains   bool
	}{
		Package:       opts.Package.PackageName,
		TestName:      TestName,
		Callables:     opts.Callables,
		MaxLen:        opts.MaxLen,
		RepeatIsCycle: opts.RepeatIsCycle,
		DeepProducts:  opts.DeepProducts,
		DeepDomains:   opts.DeepDomains,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

// Imports are aliased so they cannot collide with package-level names.
const harnessTemplate = `package {{.Package}}

import (
	"testing"

	sigpropharness "github.com/broady/sigprop"
	sigpropbind "github.com/broady/sigprop/bind"
	sigproprunner "github.com/broady/sigprop/runner"
)

func {{.TestName}}(t *testing.T) {
	sigpropharness.FromPackages(".").
{{- if .MaxLen}}
		MaxLen({{.MaxLen}}).
{{- end}}
{{- if .RepeatIsCycle}}
		RepeatIsCycle().
{{- end}}
{{- if .DeepProducts}}
		DeepProducts().
{{- end}}
{{- if .DeepDomains}}
		DeepDomains().
{{- end}}
		Test(t, sigproprunner.Bindings{
{{- range .Callables}}
			{{printf "%q" .Name}}: sigpropbind.Func({{.Expr}}),
{{- end}}
		})
}
`
