package ir

import "strings"

// UnsupportedTypeError reports an annotation no resolution rule matches.
type UnsupportedTypeError struct {
	// Annotation is the canonical rendering of the offending annotation.
	Annotation string

	// Reason is a short explanation, e.g. "unknown name".
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason == "" {
		return "unsupported type: " + e.Annotation
	}
	return "unsupported type: " + e.Annotation + ": " + e.Reason
}

// CyclicTypeError reports an annotation re-encountered while it was still being
// resolved on the active path.
type CyclicTypeError struct {
	// Annotation is the identity that closed the cycle.
	Annotation string

	// Path is the resolution path from the root to the repeated identity, inclusive.
	Path []string
}

func (e *CyclicTypeError) Error() string {
	return "cyclic type " + e.Annotation + ": " + strings.Join(e.Path, " -> ")
}
