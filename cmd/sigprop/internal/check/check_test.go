package check

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, args ...string) *Cmd {
	t.Helper()
	cmd := &Cmd{}
	parser, err := kong.New(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestCheck(t *testing.T) {
	cmd := parse(t, "-m", "../../testdata/sigs.yaml")
	var stdout, stderr bytes.Buffer
	if err := cmd.run(context.Background(), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"✓ add (function) -> int\n",
		"✓ Counter.next (nullary) -> int\n",
		"✓ norm (function) -> float\n",
		"✓ greet (function) -> Optional[string]\n",
		"✗ walk: cyclic: ",
		"4 compiled, 1 skipped\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheck_Strict(t *testing.T) {
	cmd := parse(t, "-m", "../../testdata/sigs.yaml", "--strict")
	var stdout, stderr bytes.Buffer
	err := cmd.run(context.Background(), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "1 callables could not be compiled") {
		t.Fatalf("got %v, want strict failure", err)
	}
}

func TestCheck_Defaults(t *testing.T) {
	cmd := parse(t)
	if cmd.MaxLen != 16 || cmd.MaxDepth != 64 {
		t.Errorf("defaults: max-len %d, max-depth %d", cmd.MaxLen, cmd.MaxDepth)
	}
	if cmd.Manifest != "" || len(cmd.Packages) != 0 {
		t.Errorf("unexpected source: %q %v", cmd.Manifest, cmd.Packages)
	}
}

func TestCheck_MissingManifest(t *testing.T) {
	cmd := &Cmd{}
	parser, err := kong.New(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"-m", "no-such-file.yaml"}); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestCheck_SourceFlagsExclusive(t *testing.T) {
	cmd := &Cmd{}
	parser, err := kong.New(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"-m", "../../testdata/sigs.yaml", "-p", "."}); err == nil {
		t.Fatal("expected error for --manifest with --packages")
	}
}
