// Package directive parses sigprop directives from Go source files.
//
// Directives are line comments in the form:
//
//	//sigprop:skip [reason]
//
// The skip directive keeps a function or method out of generated harnesses.
// It must sit in the doc comment directly above the declaration.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

const prefix = "//sigprop:"

// Directive represents a parsed sigprop directive.
type Directive struct {
	Kind     Kind
	Reason   string         // free text after the directive, may be empty
	Callable string         // qualified name: "Func" or "Type.Method"
	Pos      token.Position // source location
}

// Kind represents the type of directive.
type Kind string

const (
	KindSkip Kind = "skip"
)

// Result contains all directives found in a package.
type Result struct {
	// Skips contains all //sigprop:skip directives found.
	Skips []Directive

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Skipped returns the skip directive for a qualified callable name.
func (r *Result) Skipped(callable string) (Directive, bool) {
	for _, d := range r.Skips {
		if d.Callable == callable {
			return d, true
		}
	}
	return Directive{}, false
}

// Parse scans a Go package for sigprop directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Returns an error if:
//   - The package cannot be loaded
//   - A directive is unknown
//   - A directive is not immediately followed by a function declaration
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		PackagePath: pkg.PkgPath,
	}

	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(pkg.GoFiles))
	for _, filename := range pkg.GoFiles {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		files = append(files, f)
	}

	result.Skips, err = Scan(fset, files)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Scan extracts directives from parsed files. The files must have been
// parsed with comments.
func Scan(fset *token.FileSet, files []*ast.File) ([]Directive, error) {
	var directives []Directive
	for _, f := range files {
		ds, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}
		directives = append(directives, ds...)
	}
	return directives, nil
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive

	// Build a map of comment end positions to directives
	// so we can match them to the following function declarations.
	type pending struct {
		kind   Kind
		reason string
		pos    token.Position
	}
	commentToDirective := make(map[token.Pos]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, prefix) {
				continue
			}

			text := strings.TrimPrefix(c.Text, prefix)
			parts := strings.Fields(text)
			if len(parts) == 0 {
				continue
			}

			pos := fset.Position(c.Pos())
			switch Kind(parts[0]) {
			case KindSkip:
				commentToDirective[cg.End()] = pending{
					kind:   KindSkip,
					reason: strings.Join(parts[1:], " "),
					pos:    pos,
				}
			default:
				return nil, fmt.Errorf("%s: unknown directive %s%s", pos, prefix, parts[0])
			}
		}
	}

	// Match directives to function declarations
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}

		if p, ok := commentToDirective[fn.Doc.End()]; ok {
			directives = append(directives, Directive{
				Kind:     p.kind,
				Reason:   p.reason,
				Callable: qualifiedName(fn),
				Pos:      p.pos,
			})
			delete(commentToDirective, fn.Doc.End())
		}
	}

	// Check for unmatched directives
	for _, p := range commentToDirective {
		return nil, fmt.Errorf("%s: %s%s directive must be followed by a function declaration", p.pos, prefix, p.kind)
	}

	return directives, nil
}

// qualifiedName returns "Func" for functions and "Type.Method" for methods.
func qualifiedName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	return receiverName(fn.Recv.List[0].Type) + "." + fn.Name.Name
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.ParenExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	default:
		return ""
	}
}
