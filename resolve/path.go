package resolve

import "github.com/broady/sigprop/ir"

// RepeatPolicy decides whether a declared type that occurs twice in one
// Scope, without one occurrence enclosing the other, counts as a cycle.
type RepeatPolicy int

const (
	// RepeatAllowed flags only true cycles: an identity re-entered while an
	// enclosing occurrence of it is still being resolved. Siblings such as
	// tuple[Person, Person] resolve normally.
	RepeatAllowed RepeatPolicy = iota

	// RepeatIsCycle additionally flags any second occurrence of the same
	// declared class or alias within one Scope, even as a sibling or in
	// another annotation of the scope. Builtins never trigger it.
	RepeatIsCycle
)

func (p RepeatPolicy) String() string {
	switch p {
	case RepeatAllowed:
		return "allowed"
	case RepeatIsCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// path is the cycle guard: the identities currently being resolved on the
// active call chain. It lives for one Scope.
type path struct {
	policy   RepeatPolicy
	maxDepth int
	stack    []string
	active   map[string]bool
	declared map[string]bool // declared names seen so far, for RepeatIsCycle
}

func newPath(policy RepeatPolicy, maxDepth int) *path {
	return &path{
		policy:   policy,
		maxDepth: maxDepth,
		active:   make(map[string]bool),
		declared: make(map[string]bool),
	}
}

// enter pushes id onto the path. The returned release pops it and must be
// called on every exit from the branch, which callers do with defer.
// isDeclared marks ids that name a declared class or alias.
func (p *path) enter(id string, isDeclared bool) (release func(), err error) {
	if p.active[id] {
		return nil, p.cycle(id)
	}
	if isDeclared && p.policy == RepeatIsCycle && p.declared[id] {
		return nil, p.cycle(id)
	}
	if p.maxDepth > 0 && len(p.stack) >= p.maxDepth {
		return nil, &ir.UnsupportedTypeError{Annotation: id, Reason: "nesting exceeds the maximum resolution depth"}
	}

	p.stack = append(p.stack, id)
	p.active[id] = true
	if isDeclared {
		p.declared[id] = true
	}
	return func() {
		p.stack = p.stack[:len(p.stack)-1]
		delete(p.active, id)
	}, nil
}

func (p *path) cycle(id string) *ir.CyclicTypeError {
	trail := make([]string, 0, len(p.stack)+1)
	trail = append(trail, p.stack...)
	trail = append(trail, id)
	return &ir.CyclicTypeError{Annotation: id, Path: trail}
}
