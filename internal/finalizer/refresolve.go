// Package finalizer implements the five post-extraction passes from
// spec §4.2-§4.6, run in fixed order A→B→C→D→E by Orchestrator.Run.
// Each pass is grounded on the teacher's internal/graph and
// internal/query packages for traversal style, adapted to operate
// over an in-memory corpus.Store instead of a SQL-backed repository.
package finalizer

import (
	"mrdocs/internal/corpus"
	"mrdocs/internal/doccomment"
	"mrdocs/internal/logging"
	"mrdocs/internal/lookup"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// ReferenceResolver is finalizer pass A (spec §4.2): it rewrites every
// textual or ID reference inside a symbol into a verified symbol ID,
// or clears/resets it.
type ReferenceResolver struct {
	store  *corpus.Store
	lookup *lookup.Engine
	logger *logging.Logger
}

// NewReferenceResolver builds pass A over store, using lk to resolve
// textual references via unqualified-then-qualified lookup.
func NewReferenceResolver(store *corpus.Store, lk *lookup.Engine, logger *logging.Logger) *ReferenceResolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ReferenceResolver{store: store, lookup: lk, logger: logger}
}

// Run walks every stored Symbol, validating ID references and
// resolving textual references, per spec §4.2.
func (r *ReferenceResolver) Run(diags *merrors.Diagnostics) {
	for _, sym := range r.store.Iterate() {
		r.resolveSymbol(sym, diags)
	}
}

func (r *ReferenceResolver) validateID(id symbolid.ID) symbolid.ID {
	if id.IsGlobal() || id.IsInvalid() {
		return id
	}
	if r.store.Find(id) == nil {
		return symbolid.Invalid
	}
	return id
}

func (r *ReferenceResolver) resolveSymbol(sym *symbol.Symbol, diags *merrors.Diagnostics) {
	if sym.HasParent {
		sym.Parent = r.validateID(sym.Parent)
	}
	if sym.Doc != nil {
		r.resolveJavadoc(sym, sym.Doc, diags)
	}
	r.resolveBody(sym, diags)
}

func (r *ReferenceResolver) resolveBody(sym *symbol.Symbol, diags *merrors.Diagnostics) {
	switch b := sym.Body.(type) {
	case *symbol.Namespace:
		b.Members = r.validateIDs(b.Members)
		b.UsingDirectives = r.validateIDs(b.UsingDirectives)
	case *symbol.Record:
		b.PublicMembers = r.validateIDs(b.PublicMembers)
		b.ProtectedMembers = r.validateIDs(b.ProtectedMembers)
		b.PrivateMembers = r.validateIDs(b.PrivateMembers)
		b.Friends = r.validateIDs(b.Friends)
		b.Specializations = r.validateIDs(b.Specializations)
	case *symbol.Specialization:
		b.PrimaryID = r.validateID(b.PrimaryID)
	case *symbol.Overloads:
		b.Members = r.validateIDs(b.Members)
	case *symbol.Enum:
		b.Constants = r.validateIDs(b.Constants)
	case *symbol.Friend:
		if b.Which == symbol.FriendSymbol {
			b.SymbolID = r.validateID(b.SymbolID)
		}
	case *symbol.NamespaceAlias:
		b.Aliased = r.validateID(b.Aliased)
	case *symbol.Using:
		b.Symbols = r.validateIDs(b.Symbols)
	}
}

func (r *ReferenceResolver) validateIDs(ids []symbolid.ID) []symbolid.ID {
	out := make([]symbolid.ID, len(ids))
	for i, id := range ids {
		out[i] = r.validateID(id)
	}
	return out
}

// resolveJavadoc recursively walks blocks/inlines resolving Reference
// and CopyDetails leaves. A `@copydoc`-style Reference resolving back
// to the symbol currently being processed is rejected (left
// unresolved, HasID stays false) to prevent pass D recursion (spec
// §4.2 edge case).
func (r *ReferenceResolver) resolveJavadoc(owner *symbol.Symbol, j *doccomment.Javadoc, diags *merrors.Diagnostics) {
	for _, block := range j.Blocks {
		r.resolveBlock(owner, block, diags)
	}
}

func (r *ReferenceResolver) resolveBlock(owner *symbol.Symbol, b doccomment.Block, diags *merrors.Diagnostics) {
	switch v := b.(type) {
	case *doccomment.Brief:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Paragraph:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Returns:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Param:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.TParam:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Throws:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Precondition:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Postcondition:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Admonition:
		r.resolveContainer(owner, &v.Paragraph.Inlines, diags)
	case *doccomment.Heading:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.List:
		for i := range v.Items {
			r.resolveContainer(owner, &v.Items[i].Inlines, diags)
		}
	case *doccomment.See:
		r.resolveContainer(owner, &v.Inlines, diags)
	case *doccomment.Details:
		r.resolveContainer(owner, &v.Inlines, diags)
	}
}

func (r *ReferenceResolver) resolveContainer(owner *symbol.Symbol, c *doccomment.Container, diags *merrors.Diagnostics) {
	for i, n := range c.Inlines {
		switch v := n.(type) {
		case *doccomment.Reference:
			r.resolveTextualReference(owner, v, diags)
		case *doccomment.CopyDetails:
			r.resolveCopyDetailsTarget(owner, v, diags)
		case *doccomment.Styled:
			r.resolveContainer(owner, &v.Content, diags)
		}
		c.Inlines[i] = n
	}
}

func (r *ReferenceResolver) resolveTextualReference(owner *symbol.Symbol, ref *doccomment.Reference, diags *merrors.Diagnostics) {
	if ref.HasID {
		ref.SymbolID = r.validateID(ref.SymbolID)
		ref.HasID = !ref.SymbolID.IsInvalid()
		return
	}
	if r.lookup == nil {
		return
	}
	found, err := r.lookup.Resolve(owner.ID, ref.Text)
	if err != nil {
		diags.Add(merrors.New(merrors.ReferenceUnresolved, "could not resolve `"+ref.Text+"`"))
		return
	}
	if found == owner.ID {
		// self-copy/self-reference: rejected to prevent pass-D recursion.
		return
	}
	ref.SymbolID = found
	ref.HasID = true
}

func (r *ReferenceResolver) resolveCopyDetailsTarget(owner *symbol.Symbol, cd *doccomment.CopyDetails, diags *merrors.Diagnostics) {
	if cd.HasID {
		cd.Target = r.validateID(cd.Target)
		cd.HasID = !cd.Target.IsInvalid()
		return
	}
	if r.lookup == nil {
		return
	}
	found, err := r.lookup.Resolve(owner.ID, cd.Text)
	if err != nil || found == owner.ID {
		if err != nil {
			diags.Add(merrors.New(merrors.ReferenceUnresolved, "could not resolve `"+cd.Text+"`"))
		}
		return
	}
	cd.Target = found
	cd.HasID = true
}
