// Package symbol defines the Symbol tagged record from spec §3: a
// common header plus one of fifteen kind-specific bodies, following
// the same sealed-interface-per-variant modeling as cxxtype and
// doccomment. A Symbol's Body is nil until extraction populates it,
// and becomes immutable once all five finalizer passes have run
// (spec §3, "Lifecycle and ownership").
package symbol

import (
	"mrdocs/internal/cxxname"
	"mrdocs/internal/cxxtemplate"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/doccomment"
	"mrdocs/internal/symbolid"
)

// Access is the access specifier carried in every Symbol header.
type Access string

const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
	AccessNone      Access = "none"
)

// ExtractionMode tags how much of a symbol is retained and how it is
// rendered. Values are ordered from strictest to loosest for the
// builder's merge rule (spec §4.1, "take the strictest extraction
// mode").
type ExtractionMode int

const (
	Regular ExtractionMode = iota
	SeeBelow
	ImplementationDefined
	Dependency
)

// Strictest returns whichever of a, b is the stricter (lower-valued)
// extraction mode.
func Strictest(a, b ExtractionMode) ExtractionMode {
	if a < b {
		return a
	}
	return b
}

func (m ExtractionMode) String() string {
	switch m {
	case Regular:
		return "regular"
	case SeeBelow:
		return "see-below"
	case ImplementationDefined:
		return "implementation-defined"
	case Dependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Location is a source position, optionally a range.
type Location struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Kind discriminates the fifteen symbol bodies from spec §3.
type Kind string

const (
	KindNamespace      Kind = "namespace"
	KindRecord         Kind = "record"
	KindSpecialization Kind = "specialization"
	KindFunction       Kind = "function"
	KindOverloads      Kind = "overloads"
	KindEnum           Kind = "enum"
	KindEnumConstant   Kind = "enum-constant"
	KindTypedef        Kind = "typedef"
	KindVariable       Kind = "variable"
	KindField          Kind = "field"
	KindFriend         Kind = "friend"
	KindNamespaceAlias Kind = "namespace-alias"
	KindUsing          Kind = "using"
	KindConcept        Kind = "concept"
	KindGuide          Kind = "guide"
)

// Symbol is the common header plus a kind-specific Body. Cross-symbol
// references anywhere in Body are always by symbolid.ID, never by
// pointer (spec §3, "Lifecycle and ownership").
type Symbol struct {
	ID             symbolid.ID
	Name           string // raw unqualified short name
	Parent         symbolid.ID
	HasParent      bool
	Access         Access
	ExtractionMode ExtractionMode
	Definition     *Location
	Declarations   []Location
	Doc            *doccomment.Javadoc

	Kind Kind
	Body Body
}

// Body is any one of the fifteen kind-specific bodies.
type Body interface {
	bodyTag()
}

// Namespace is KindNamespace's body.
type Namespace struct {
	Members         []symbolid.ID
	UsingDirectives []symbolid.ID
	IsInline        bool
	IsAnonymous     bool
}

// RecordKeyKind distinguishes class/struct/union.
type RecordKeyKind string

const (
	KeyClass  RecordKeyKind = "class"
	KeyStruct RecordKeyKind = "struct"
	KeyUnion  RecordKeyKind = "union"
)

// Base is one base-class entry of a Record.
type Base struct {
	Type       cxxtype.Type
	Access     Access
	IsVirtual  bool
}

// Record is KindRecord's body.
type Record struct {
	KeyKind  RecordKeyKind
	IsTypeDef bool
	Bases    []Base
	Friends  []symbolid.ID
	// Members partitioned by the access under which they appear; a
	// member's own Access field also carries this, this partition is
	// the ordered per-access member list the legible-name allocator
	// and sort finalizer operate on (spec §3, "member IDs partitioned
	// by access").
	PublicMembers    []symbolid.ID
	ProtectedMembers []symbolid.ID
	PrivateMembers   []symbolid.ID
	Specializations  []symbolid.ID
	Template         *cxxtemplate.Info
}

// AllMembers returns the Record's members in public, protected,
// private order — the canonical order most renderers and the legible
// allocator iterate in.
func (r *Record) AllMembers() []symbolid.ID {
	out := make([]symbolid.ID, 0, len(r.PublicMembers)+len(r.ProtectedMembers)+len(r.PrivateMembers))
	out = append(out, r.PublicMembers...)
	out = append(out, r.ProtectedMembers...)
	out = append(out, r.PrivateMembers...)
	return out
}

// MembersByAccess returns the member slice for the given access. Only
// public/protected/private partitions exist on a Record, so any other
// access (AccessNone included) gets the private slice.
func (r *Record) MembersByAccess(a Access) *[]symbolid.ID {
	switch a {
	case AccessPublic:
		return &r.PublicMembers
	case AccessProtected:
		return &r.ProtectedMembers
	default:
		return &r.PrivateMembers
	}
}

// Specialization is KindSpecialization's body.
type Specialization struct {
	PrimaryID symbolid.ID
	Args      []cxxtemplate.Arg
}

// FunctionClass distinguishes ordinary functions from the special
// member functions autosynthesis cares about.
type FunctionClass string

const (
	FuncNormal      FunctionClass = "normal"
	FuncConstructor FunctionClass = "constructor"
	FuncConversion  FunctionClass = "conversion"
	FuncDestructor  FunctionClass = "destructor"
)

// ConstexprKind distinguishes constexpr/consteval/ordinary.
type ConstexprKind string

const (
	ConstexprNone      ConstexprKind = "none"
	ConstexprConstexpr ConstexprKind = "constexpr"
	ConstexprConsteval ConstexprKind = "consteval"
)

// StorageClass is the function/variable storage-class specifier.
type StorageClass string

const (
	StorageNone     StorageClass = "none"
	StorageStatic   StorageClass = "static"
	StorageExtern   StorageClass = "extern"
	StorageThread   StorageClass = "thread-local"
)

// Function is KindFunction's body.
type Function struct {
	Return   cxxtype.Type
	Params   []Param
	Template *cxxtemplate.Info

	Class            FunctionClass
	OperatorTag      string // empty unless this is an overloaded operator
	IsConst          bool
	IsVolatile       bool
	RefQualifier     string // "", "&", "&&"
	IsNoexcept       bool
	NoexceptExpr     string
	IsExplicit       bool
	ExplicitExpr     string
	Storage          StorageClass
	Constexpr        ConstexprKind
	IsRecordMethod   bool
	IsVariadic       bool
	IsExplicitObjectMemberFunction bool
	IsDefaulted      bool
	IsDeleted        bool
	IsVirtual        bool
	IsOverride       bool
	IsFinal          bool
	IsPure           bool
}

// Param is one function parameter.
type Param struct {
	Name            string
	Type            cxxtype.Type
	DefaultWritten  string
	HasDefault      bool
}

// Overloads is KindOverloads' body; it is synthesized exclusively by
// the overload grouper (finalizer pass C — invariant I5).
type Overloads struct {
	Members     []symbolid.ID
	OperatorTag string
	Class       FunctionClass
}

// Enum is KindEnum's body.
type Enum struct {
	UnderlyingType cxxtype.Type
	HasUnderlying  bool
	Scoped         bool
	Constants      []symbolid.ID
}

// EnumConstant is KindEnumConstant's body.
type EnumConstant struct {
	InitializerWritten string
	HasValue           bool
	Value              int64
}

// Typedef is KindTypedef's body.
type Typedef struct {
	Aliased  cxxtype.Type
	IsUsing  bool
	Template *cxxtemplate.Info
}

// Variable is KindVariable's body.
type Variable struct {
	Type     cxxtype.Type
	Template *cxxtemplate.Info
	Storage  StorageClass
}

// Field is KindField's body.
type Field struct {
	Type               cxxtype.Type
	DefaultInitializer string
	HasDefault         bool
	IsBitfield         bool
	BitfieldWidth      string
	IsMutable          bool
	IsNoUniqueAddress  bool
}

// FriendKind distinguishes a friend declaration naming a type from one
// naming an already-extracted symbol (SPEC_FULL.md §C.4).
type FriendKind string

const (
	FriendType   FriendKind = "type"
	FriendSymbol FriendKind = "symbol"
)

// Friend is KindFriend's body.
type Friend struct {
	Which      FriendKind
	FriendType cxxtype.Type  // set when Which == FriendType
	SymbolID   symbolid.ID   // set when Which == FriendSymbol
}

// NamespaceAlias is KindNamespaceAlias's body.
type NamespaceAlias struct {
	Aliased symbolid.ID
}

// Using is KindUsing's body.
type Using struct {
	Qualifier *cxxname.Name
	Symbols   []symbolid.ID
}

// Concept is KindConcept's body.
type Concept struct {
	Params     []cxxtemplate.Param
	Constraint string
}

// Guide is KindGuide's body (a deduction guide).
type Guide struct {
	Deduced  cxxtype.Type
	Params   []Param
	Template *cxxtemplate.Info
}

func (*Namespace) bodyTag()      {}
func (*Record) bodyTag()         {}
func (*Specialization) bodyTag() {}
func (*Function) bodyTag()       {}
func (*Overloads) bodyTag()      {}
func (*Enum) bodyTag()           {}
func (*EnumConstant) bodyTag()   {}
func (*Typedef) bodyTag()        {}
func (*Variable) bodyTag()       {}
func (*Field) bodyTag()          {}
func (*Friend) bodyTag()         {}
func (*NamespaceAlias) bodyTag() {}
func (*Using) bodyTag()          {}
func (*Concept) bodyTag()        {}
func (*Guide) bodyTag()          {}
