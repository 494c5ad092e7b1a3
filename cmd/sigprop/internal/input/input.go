// Package input holds the flags shared by commands that compile signatures.
package input

import (
	"io"
	"log/slog"
	"os"

	"github.com/broady/sigprop"
	"github.com/broady/sigprop/compile"
)

// Flags select where signatures come from and how they compile. Embed them
// in a kong command with `embed:""`.
type Flags struct {
	Manifest string   `help:"YAML manifest of declarations and signatures." short:"m" xor:"source" type:"existingfile"`
	Packages []string `help:"Go packages to extract signatures from (default: current directory)." short:"p" xor:"source"`

	MaxLen        int  `help:"Largest generated container." default:"16" name:"max-len"`
	MaxDepth      int  `help:"Deepest annotation nesting; 0 for no limit." default:"64" name:"max-depth"`
	RepeatIsCycle bool `help:"Report declared types repeated within one annotation or across parameters as cycles." name:"repeat-is-cycle"`
	Deep          bool `help:"Validate product fields and domain elements in oracles."`
	Verbose       bool `help:"Log compiler diagnostics." short:"v"`
}

// Suite builds a sigprop.Suite from the flags. Diagnostics go to w.
func (f *Flags) Suite(w io.Writer) *sigprop.Suite {
	var s *sigprop.Suite
	switch {
	case f.Manifest != "":
		s = sigprop.FromManifest(f.Manifest)
	case len(f.Packages) > 0:
		s = sigprop.FromPackages(f.Packages...)
	default:
		s = sigprop.FromPackages(".")
	}
	s = s.MaxLen(f.MaxLen).MaxDepth(f.MaxDepth).Logger(f.Logger(w))
	if f.RepeatIsCycle {
		s = s.RepeatIsCycle()
	}
	if f.Deep {
		s = s.DeepProducts().DeepDomains()
	}
	return s
}

// Logger returns a text logger writing to w at debug level when verbose and
// warning level otherwise.
func (f *Flags) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if f.Verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Find returns the record with the qualified name, or false.
func Find(batch compile.Batch, name string) (compile.TestRecord, bool) {
	for _, rec := range batch.Records {
		if rec.QualifiedName() == name {
			return rec, true
		}
	}
	return compile.TestRecord{}, false
}
