package annotation

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Parse parses an annotation written in type-hint syntax, e.g.
// "dict[str, list[int]]", "Optional[Person]", "int | None" or
// "Literal['a', 'b', 3]".
//
// Subscripted typing syntax is a subset of Go index expressions, so the source
// is handed to go/parser after single-quoted strings are rewritten to Go
// string literals.
func Parse(src string) (Annotation, error) {
	normalized, err := normalizeQuotes(src)
	if err != nil {
		return nil, fmt.Errorf("parse annotation %q: %w", src, err)
	}
	expr, err := parser.ParseExpr(normalized)
	if err != nil {
		return nil, fmt.Errorf("parse annotation %q: %w", src, err)
	}
	a, err := convert(expr)
	if err != nil {
		return nil, fmt.Errorf("parse annotation %q: %w", src, err)
	}
	return a, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(src string) Annotation {
	a, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return a
}

func convert(expr ast.Expr) (Annotation, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return convert(e.X)

	case *ast.Ident, *ast.SelectorExpr:
		name, err := dottedName(e)
		if err != nil {
			return nil, err
		}
		return Name{Ident: name}, nil

	case *ast.IndexExpr:
		return subscript(e.X, []ast.Expr{e.Index})

	case *ast.IndexListExpr:
		return subscript(e.X, e.Indices)

	case *ast.BinaryExpr:
		if e.Op != token.OR {
			return nil, fmt.Errorf("unsupported operator %s", e.Op)
		}
		var args []Annotation
		for _, term := range unionTerms(e) {
			a, err := convert(term)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return Subscript{Origin: OriginUnion, Args: args}, nil

	default:
		return nil, fmt.Errorf("unsupported annotation syntax %T", expr)
	}
}

// unionTerms flattens "a | b | c" into its terms.
func unionTerms(expr ast.Expr) []ast.Expr {
	b, ok := unparen(expr).(*ast.BinaryExpr)
	if !ok || b.Op != token.OR {
		return []ast.Expr{expr}
	}
	return append(unionTerms(b.X), unionTerms(b.Y)...)
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func subscript(originExpr ast.Expr, indices []ast.Expr) (Annotation, error) {
	origin, err := dottedName(originExpr)
	if err != nil {
		return nil, err
	}
	args := make([]Annotation, 0, len(indices))
	if canon, ok := CanonicalOrigin(origin); ok && canon == OriginLiteral {
		for _, idx := range indices {
			c, err := constant(idx)
			if err != nil {
				return nil, err
			}
			args = append(args, c)
		}
		return Subscript{Origin: origin, Args: args}, nil
	}
	for _, idx := range indices {
		a, err := convert(idx)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return Subscript{Origin: origin, Args: args}, nil
}

func dottedName(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, nil
	case *ast.SelectorExpr:
		x, err := dottedName(e.X)
		if err != nil {
			return "", err
		}
		return x + "." + e.Sel.Name, nil
	default:
		return "", fmt.Errorf("expected a type name, got %T", expr)
	}
}

func constant(expr ast.Expr) (Const, error) {
	switch e := unparen(expr).(type) {
	case *ast.Ident:
		switch e.Name {
		case "True":
			return Const{Value: true}, nil
		case "False":
			return Const{Value: false}, nil
		case "None":
			return Const{Value: nil}, nil
		}
		return Const{}, fmt.Errorf("literal member %s is not a constant", e.Name)

	case *ast.UnaryExpr:
		if e.Op != token.SUB {
			return Const{}, fmt.Errorf("unsupported literal operator %s", e.Op)
		}
		c, err := constant(e.X)
		if err != nil {
			return Const{}, err
		}
		switch v := c.Value.(type) {
		case int:
			return Const{Value: -v}, nil
		case float64:
			return Const{Value: -v}, nil
		}
		return Const{}, fmt.Errorf("cannot negate literal %v", c.Value)

	case *ast.BasicLit:
		switch e.Kind {
		case token.INT:
			n, err := strconv.ParseInt(e.Value, 0, 64)
			if err != nil {
				return Const{}, err
			}
			return Const{Value: int(n)}, nil
		case token.FLOAT:
			f, err := strconv.ParseFloat(e.Value, 64)
			if err != nil {
				return Const{}, err
			}
			return Const{Value: f}, nil
		case token.STRING:
			s, err := strconv.Unquote(e.Value)
			if err != nil {
				return Const{}, err
			}
			return Const{Value: s}, nil
		}
		return Const{}, fmt.Errorf("unsupported literal %s", e.Value)

	default:
		return Const{}, fmt.Errorf("unsupported literal member %T", expr)
	}
}

// normalizeQuotes rewrites single-quoted strings as Go string literals.
func normalizeQuotes(src string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '"' {
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				return "", fmt.Errorf("unterminated string at offset %d", i)
			}
			b.WriteString(src[i : i+end+2])
			i += end + 1
			continue
		}
		if c != '\'' {
			b.WriteByte(c)
			continue
		}
		end := strings.IndexByte(src[i+1:], '\'')
		if end < 0 {
			return "", fmt.Errorf("unterminated string at offset %d", i)
		}
		b.WriteString(strconv.Quote(src[i+1 : i+1+end]))
		i += end + 1
	}
	return b.String(), nil
}
