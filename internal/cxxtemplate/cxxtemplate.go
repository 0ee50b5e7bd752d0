// Package cxxtemplate models spec §3's "Template info": the kind,
// parameter list, and argument list attached to Record/Function/
// Typedef/Variable/Concept/Guide symbols that are templates or
// template specializations.
package cxxtemplate

import (
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/symbolid"
)

// Kind distinguishes a template declaration from its specializations.
type Kind string

const (
	Primary         Kind = "primary"
	ExplicitSpec    Kind = "explicit-specialization"
	PartialSpec     Kind = "partial-specialization"
	ImplicitSpec    Kind = "implicit-specialization"
)

// Info is the template metadata attached to a symbol.
type Info struct {
	Kind      Kind
	PrimaryID symbolid.ID
	HasPrimary bool
	Params    []Param
	Args      []Arg
}

// ParamKind distinguishes the three sum-type variants of a template
// parameter.
type ParamKind string

const (
	ParamType     ParamKind = "type"
	ParamNonType  ParamKind = "non-type"
	ParamTemplate ParamKind = "template"
)

// Param is a single template parameter, a sum of Type/NonType/Template
// variants discriminated by Kind, each carrying an optional default
// and a pack flag.
type Param struct {
	Kind ParamKind
	Name string

	// NonType-only.
	NonTypeType cxxtype.Type

	// Template-only: nested parameter list of the template-template
	// parameter, e.g. `template <template <class> class T>`.
	TemplateParams []Param

	DefaultWritten string
	HasDefault     bool
	IsPack         bool
}

// Arg is a single template argument supplied at a specialization or
// instantiation site.
type Arg struct {
	Written string
	Type    cxxtype.Type // nil for non-type/template arguments
}
