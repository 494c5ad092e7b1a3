// Package provider implements signature extractors: sources of callable
// signatures and the declarations their annotations reference.
package provider

import (
	"context"

	"github.com/broady/sigprop/annotation"
)

// Extractor supplies signatures in a stable order together with the universe
// of declarations they reference.
type Extractor interface {
	Extract(ctx context.Context) (*annotation.Universe, []annotation.Signature, error)
}

// Static is an Extractor over signatures already in hand.
type Static struct {
	Universe   *annotation.Universe
	Signatures []annotation.Signature
}

// Extract returns the static universe and signatures.
func (s Static) Extract(ctx context.Context) (*annotation.Universe, []annotation.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.Universe, s.Signatures, nil
}
