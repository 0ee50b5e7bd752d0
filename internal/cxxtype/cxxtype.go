// Package cxxtype models the recursive Type sum type from spec §3
// ("Types"). The C++ source represents this with a polymorphic-value
// container; per the DESIGN NOTES guidance ("Polymorphic-value
// containers for Type/Name/DocBlock ... model as tagged variants (sum
// types) stored by value") this package uses a sealed interface with
// one concrete struct per variant, each embedding Common for the
// shared cv/pack/constraint fields. Consumers match on the variant
// with a type switch rather than double-dispatch visitors, mirroring
// the teacher's preference for plain struct + string-tag modeling
// (internal/identity.SymbolFingerprint, internal/docs.DocType) over an
// interface-heavy visitor hierarchy.
package cxxtype

import "mrdocs/internal/cxxname"

// Type is any one of the type-system variants below. It is sealed: only
// types in this package implement it.
type Type interface {
	typeTag()
	// Common returns the shared cv/pack/constraint fields every variant
	// carries.
	Common() *Common
}

// Common holds the fields every Type variant carries regardless of kind.
type Common struct {
	IsConst         bool
	IsVolatile      bool
	IsPackExpansion bool
	Constraints     []string // recorded SFINAE / concept constraints, see Unwrap
}

// Named is a reference to a declared type by qualified name, optionally
// tagged as one of the built-in fundamental types (`int`, `bool`, ...).
type Named struct {
	Common
	Name          *cxxname.Name
	FundamentalTag string // empty unless this names a fundamental type
}

func (*Named) typeTag()           {}
func (t *Named) Common() *Common  { return &t.Common }

// Decltype is `decltype(expr)`; the core does not evaluate the
// expression, it only carries its written form.
type Decltype struct {
	Common
	Expression string
}

func (*Decltype) typeTag()          {}
func (t *Decltype) Common() *Common { return &t.Common }

// Auto is `auto` or `decltype(auto)`, optionally constrained by a
// concept (`C auto`).
type Auto struct {
	Common
	Keyword    string // "auto" | "decltype(auto)"
	Constraint *cxxname.Name
}

func (*Auto) typeTag()          {}
func (t *Auto) Common() *Common { return &t.Common }

// LValueReference is `T&`.
type LValueReference struct {
	Common
	Pointee Type
}

func (*LValueReference) typeTag()          {}
func (t *LValueReference) Common() *Common { return &t.Common }

// RValueReference is `T&&`.
type RValueReference struct {
	Common
	Pointee Type
}

func (*RValueReference) typeTag()          {}
func (t *RValueReference) Common() *Common { return &t.Common }

// Pointer is `T*`.
type Pointer struct {
	Common
	Pointee Type
}

func (*Pointer) typeTag()          {}
func (t *Pointer) Common() *Common { return &t.Common }

// MemberPointer is `Parent::*T`.
type MemberPointer struct {
	Common
	Parent  Type
	Pointee Type
}

func (*MemberPointer) typeTag()          {}
func (t *MemberPointer) Common() *Common { return &t.Common }

// Array is `T[N]` or `T[expr]`.
type Array struct {
	Common
	Element        Type
	BoundsExpr     string // written form, e.g. "N" or "" for unbounded
	BoundsValue    int64
	HasBoundsValue bool
}

func (*Array) typeTag()          {}
func (t *Array) Common() *Common { return &t.Common }

// Function is a function type, used for function pointers/references
// and as the callable shape embedded in symbol.Function bodies.
type Function struct {
	Common
	Return        Type
	Params        []Type
	RefQualifier  string // "", "&", "&&"
	IsNoexcept    bool
	NoexceptExpr  string
	IsVariadic    bool
}

func (*Function) typeTag()          {}
func (t *Function) Common() *Common { return &t.Common }

// Pack is a parameter pack pattern, `T...`.
type Pack struct {
	Common
	Pattern Type
}

func (*Pack) typeTag()          {}
func (t *Pack) Common() *Common { return &t.Common }

// Inner returns the type one layer down for types that wrap another
// type (references, pointers, arrays, packs), and nil for leaf types
// (Named, Decltype, Auto) or for MemberPointer/Function, which wrap
// more than one inner type and are handled specially by callers.
func Inner(t Type) Type {
	switch v := t.(type) {
	case *LValueReference:
		return v.Pointee
	case *RValueReference:
		return v.Pointee
	case *Pointer:
		return v.Pointee
	case *Array:
		return v.Element
	case *Pack:
		return v.Pattern
	default:
		return nil
	}
}

// Innermost descends through every wrapping layer (references,
// pointers, arrays, packs) and returns the first leaf type reached.
// Used by the lookup engine's decay-equal comparison.
func Innermost(t Type) Type {
	for {
		in := Inner(t)
		if in == nil {
			return t
		}
		t = in
	}
}

// SFINAEAlias describes one curated standard-library alias template
// recognized by Unwrap: which of its template arguments holds the
// SFINAE condition, and which holds the resulting type. ResultArg may
// be out of range (e.g. the single-argument `enable_if_t<C>` form),
// meaning the result defaults to `void`.
type SFINAEAlias struct {
	ConditionArg int
	ResultArg    int
}

// DefaultSFINAEAliases is the curated, user-extensible list of
// <type_traits> alias templates Unwrap recognizes (spec §4.7 "SFINAE
// awareness"; DESIGN NOTES: "recognize a curated list of standard-
// library templates whose member type represents the conditional
// result; parameterize by a configuration list rather than hard-
// coding"). Both the `_t` alias-template form (`enable_if_t<C,T>`) and
// the trait-class `::type` member-access form (`enable_if<C,T>::type`)
// resolve through the same entry, since Unwrap strips a trailing
// `::type` before consulting this map.
var DefaultSFINAEAliases = map[string]SFINAEAlias{
	"enable_if_t": {ConditionArg: 0, ResultArg: 1},
	"enable_if":   {ConditionArg: 0, ResultArg: 1},
}

// Unwrap applies DefaultSFINAEAliases; see UnwrapWith.
func Unwrap(t Type) Type {
	return UnwrapWith(t, DefaultSFINAEAliases)
}

// UnwrapWith implements spec §4.7's SFINAE-unwrap heuristic: when t is a
// Named reference to one of aliases' curated templates, it returns the
// operand type the alias resolves to with the condition appended to the
// result's Constraints, so that two otherwise decay-equal candidates
// whose SFINAE condition differs remain distinguishable. Types that
// don't match any curated alias are returned unchanged.
func UnwrapWith(t Type, aliases map[string]SFINAEAlias) Type {
	named, ok := t.(*Named)
	if !ok || named.Name == nil || len(aliases) == 0 {
		return t
	}

	target := named.Name
	shape, known := aliases[target.Identifier]
	if !known && target.Identifier == "type" && target.Prefix != nil {
		shape, known = aliases[target.Prefix.Identifier]
		target = target.Prefix
	}
	if !known || shape.ConditionArg < 0 || shape.ConditionArg >= len(target.Args) {
		return t
	}

	condition := target.Args[shape.ConditionArg].Written

	var result Type = &Named{Name: &cxxname.Name{Identifier: "void"}, FundamentalTag: "void"}
	if shape.ResultArg >= 0 && shape.ResultArg < len(target.Args) {
		arg := target.Args[shape.ResultArg]
		if rt, ok := arg.Type.(Type); ok && rt != nil {
			result = rt
		} else {
			result = &Named{Name: &cxxname.Name{Identifier: arg.Written}}
		}
	}

	unwrapped := shallowCopy(result)
	c := unwrapped.Common()
	c.Constraints = append(append([]string{}, c.Constraints...), condition)
	return unwrapped
}

// Decay applies the C++ function-parameter decay rules used by spec
// §4.7's ranking step: a recognized SFINAE alias is unwrapped first
// (recording its condition as a constraint), arrays decay to pointers,
// top-level cv is dropped, but reference-ness is preserved structurally
// (references are compared as references, not decayed away).
func Decay(t Type) Type {
	if t == nil {
		return nil
	}
	t = Unwrap(t)
	if arr, ok := t.(*Array); ok {
		return &Pointer{Pointee: arr.Element}
	}
	stripped := shallowCopy(t)
	c := stripped.Common()
	c.IsConst = false
	c.IsVolatile = false
	return stripped
}

// constraintsEqual compares the recorded SFINAE/concept constraints
// (see Unwrap) attached directly to a and b — not recursively, callers
// compare nested layers themselves as they descend.
func constraintsEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ac, bc := a.Common().Constraints, b.Common().Constraints
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

// DecayEqual reports whether two types are equal after Decay is
// applied to both, descending structurally through reference/pointer/
// array/function layers. This implements spec §4.7's "parameter types
// decay-equal" and "template arguments decay-equal" comparisons, and is
// SFINAE-aware: Decay unwraps curated aliases like `enable_if_t<C,T>`
// to T while recording C, and two types are only decay-equal when their
// recorded constraints also agree, so `enable_if_t<is_integral_v<T>,T>`
// and `enable_if_t<is_floating_v<T>,T>` are never decay-equal even
// though both unwrap to the same T.
func DecayEqual(a, b Type) bool {
	a = Decay(a)
	b = Decay(b)
	if !constraintsEqual(a, b) {
		return false
	}
	switch av := a.(type) {
	case *Named:
		bv, ok := b.(*Named)
		return ok && cxxname.Equal(av.Name, bv.Name)
	case *Decltype:
		bv, ok := b.(*Decltype)
		return ok && av.Expression == bv.Expression
	case *Auto:
		bv, ok := b.(*Auto)
		return ok && av.Keyword == bv.Keyword
	case *LValueReference:
		bv, ok := b.(*LValueReference)
		return ok && DecayEqual(av.Pointee, bv.Pointee)
	case *RValueReference:
		bv, ok := b.(*RValueReference)
		return ok && DecayEqual(av.Pointee, bv.Pointee)
	case *Pointer:
		bv, ok := b.(*Pointer)
		return ok && DecayEqual(av.Pointee, bv.Pointee)
	case *MemberPointer:
		bv, ok := b.(*MemberPointer)
		return ok && DecayEqual(av.Parent, bv.Parent) && DecayEqual(av.Pointee, bv.Pointee)
	case *Function:
		bv, ok := b.(*Function)
		if !ok || len(av.Params) != len(bv.Params) || av.RefQualifier != bv.RefQualifier {
			return false
		}
		if !DecayEqual(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !DecayEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *Pack:
		bv, ok := b.(*Pack)
		return ok && DecayEqual(av.Pattern, bv.Pattern)
	default:
		return false
	}
}

// String renders t in a form suitable for decay-insensitive textual
// comparison (spec §4.7's fallback when a lookup query supplies raw
// parameter text rather than a resolved Type on both sides). It is not
// meant to reproduce exact C++ declaration syntax.
func String(t Type) string {
	if t == nil {
		return ""
	}
	var prefix string
	c := t.Common()
	if c.IsConst {
		prefix += "const "
	}
	if c.IsVolatile {
		prefix += "volatile "
	}
	switch v := t.(type) {
	case *Named:
		return prefix + v.Name.String()
	case *Decltype:
		return prefix + "decltype(" + v.Expression + ")"
	case *Auto:
		return prefix + v.Keyword
	case *LValueReference:
		return String(v.Pointee) + "&"
	case *RValueReference:
		return String(v.Pointee) + "&&"
	case *Pointer:
		return String(v.Pointee) + "*"
	case *MemberPointer:
		return String(v.Parent) + "::*" + String(v.Pointee)
	case *Array:
		return String(v.Element) + "[" + v.BoundsExpr + "]"
	case *Function:
		return String(v.Return) + "(...)"
	case *Pack:
		return String(v.Pattern) + "..."
	default:
		return ""
	}
}

func shallowCopy(t Type) Type {
	switch v := t.(type) {
	case *Named:
		cp := *v
		return &cp
	case *Decltype:
		cp := *v
		return &cp
	case *Auto:
		cp := *v
		return &cp
	case *LValueReference:
		cp := *v
		return &cp
	case *RValueReference:
		cp := *v
		return &cp
	case *Pointer:
		cp := *v
		return &cp
	case *MemberPointer:
		cp := *v
		return &cp
	case *Array:
		cp := *v
		return &cp
	case *Function:
		cp := *v
		return &cp
	case *Pack:
		cp := *v
		return &cp
	default:
		return t
	}
}
