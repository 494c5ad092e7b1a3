// Package discover finds the callables of a Go package that a generated
// harness can bind by name.
//
// Bindable callables are exported package-level functions and the exported
// methods of exported named types. Generic functions and methods of generic
// types are left out: they cannot be referenced without instantiation, as
// are callables marked with a //sigprop:skip directive.
package discover

import (
	"fmt"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/sigprop/internal/directive"
)

// Callable is a discovered bindable callable.
type Callable struct {
	// Name is the qualified name compiled records use: "Func" or "Type.Method".
	Name string

	// Expr is the Go expression naming the callable inside its package:
	// a function name or a method expression such as (*T).M.
	Expr string

	Pos token.Position
}

// Result contains discovered callables and package info.
type Result struct {
	Callables   []Callable
	Skipped     []directive.Directive // callables left out by //sigprop:skip
	PackageName string
	PackagePath string
	ModulePath  string
	ModuleDir   string // directory containing go.mod
	Dir         string // directory containing the package
}

// Find scans a Go package for bindable callables.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
func Find(pattern string) (*Result, error) {
	return FindDir(pattern, "")
}

// FindDir is like Find but allows specifying a working directory.
func FindDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedModule,
		Dir: dir,
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
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
	}

	if pkg.Module != nil {
		result.ModulePath = pkg.Module.Path
		result.ModuleDir = pkg.Module.Dir
	}

	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	skips, err := directive.Scan(pkg.Fset, pkg.Syntax)
	if err != nil {
		return nil, err
	}
	skipped := make(map[string]bool, len(skips))
	for _, d := range skips {
		skipped[d.Callable] = true
	}
	result.Skipped = skips

	var found []Callable
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		switch obj := obj.(type) {
		case *types.Func:
			sig := obj.Type().(*types.Signature)
			if sig.TypeParams().Len() > 0 {
				continue
			}
			found = append(found, Callable{
				Name: obj.Name(),
				Expr: obj.Name(),
				Pos:  pkg.Fset.Position(obj.Pos()),
			})
		case *types.TypeName:
			if obj.IsAlias() {
				continue
			}
			named, ok := obj.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			found = append(found, methods(pkg.Fset, named)...)
		}
	}

	for _, c := range found {
		if !skipped[c.Name] {
			result.Callables = append(result.Callables, c)
		}
	}
	return result, nil
}

// methods returns the exported methods declared on named, in declaration
// order.
func methods(fset *token.FileSet, named *types.Named) []Callable {
	var out []Callable
	typeName := named.Obj().Name()
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}
		expr := typeName + "." + m.Name()
		if _, ptr := m.Type().(*types.Signature).Recv().Type().(*types.Pointer); ptr {
			expr = "(*" + typeName + ")." + m.Name()
		}
		out = append(out, Callable{
			Name: typeName + "." + m.Name(),
			Expr: expr,
			Pos:  fset.Position(m.Pos()),
		})
	}
	return out
}

// Select picks callables by qualified name.
//
// If names is empty, every callable is returned. Otherwise each name must
// match a discovered callable.
func Select(callables []Callable, names []string) ([]Callable, error) {
	if len(names) == 0 {
		if len(callables) == 0 {
			return nil, fmt.Errorf("no bindable callables found\n\nExport a non-generic function or method, for example:\n\n    func Add(a, b int) int {\n        return a + b\n    }")
		}
		return callables, nil
	}

	byName := make(map[string]Callable, len(callables))
	for _, c := range callables {
		byName[c.Name] = c
	}
	var out []Callable
	var missing []string
	for _, n := range names {
		c, ok := byName[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		out = append(out, c)
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("callables not found: %s\n\navailable:\n", strings.Join(missing, ", "))
		for _, c := range callables {
			msg += fmt.Sprintf("  - %s\n", c.Name)
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return out, nil
}
