// Package cxxname models the recursive Name structure from spec §3
// ("Names"): `A::B<T>::C` style qualified-name references embedded
// inside Types, Symbol headers, and doc-comment Reference nodes.
package cxxname

import (
	"strings"

	"mrdocs/internal/symbolid"
)

// TemplateArg is a single entry of a Name's optional template-argument
// list. It intentionally stays opaque here (a written form plus an
// optional resolved type) to avoid an import cycle with cxxtype/
// cxxtemplate; the finalizer passes attach richer structure as needed.
type TemplateArg struct {
	Written string
	Type    interface{} // a cxxtype.Type value when resolved; nil for non-type/template args
}

// Name is a recursive qualified-name node: an identifier, an optional
// resolved symbol ID, an optional template-argument list, and an
// optional prefix (the enclosing qualification, itself a Name).
type Name struct {
	Identifier string
	SymbolID   symbolid.ID // symbolid.Invalid until resolved by pass A
	HasID      bool
	Args       []TemplateArg
	Prefix     *Name
}

// IsQualified reports whether this Name has an enclosing prefix, i.e.
// represents something written with a `::`.
func (n *Name) IsQualified() bool {
	return n != nil && n.Prefix != nil
}

// String renders the Name in `Prefix::Identifier<Args>` form, matching
// the written id-expression syntax the resolver and lookup engine
// parse back.
func (n *Name) String() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	if n.Prefix != nil {
		b.WriteString(n.Prefix.String())
		b.WriteString("::")
	}
	b.WriteString(n.Identifier)
	if len(n.Args) > 0 {
		b.WriteString("<")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Written)
		}
		b.WriteString(">")
	}
	return b.String()
}

// Equal reports structural equality between two Names: same
// identifier, same template-argument written forms in order, and
// equal prefixes (or both absent). Resolved SymbolID is intentionally
// excluded — two Names can be structurally equal before pass A has
// run, which is what the overload grouper and sort finalizer need.
func Equal(a, b *Name) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Identifier != b.Identifier || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i].Written != b.Args[i].Written {
			return false
		}
	}
	return Equal(a.Prefix, b.Prefix)
}

// Leaf returns the innermost (rightmost) unqualified component, e.g.
// "C" for "A::B<T>::C". This is the raw short name compared against
// the final component of a lookup query (spec §8 "Lookup soundness").
func Leaf(n *Name) string {
	if n == nil {
		return ""
	}
	return n.Identifier
}

// Root returns the outermost (leftmost) component, or n itself if n is
// unqualified. Used to detect a leading `::` root (spec §4.2 — "If the
// name starts with ::, redirect to lookup in global").
func Root(n *Name) *Name {
	for n != nil && n.Prefix != nil {
		n = n.Prefix
	}
	return n
}
