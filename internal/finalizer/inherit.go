package finalizer

import (
	"mrdocs/internal/corpus"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// InheritancePolicy controls when pass B runs (spec §4.3).
type InheritancePolicy string

const (
	InheritNever    InheritancePolicy = "never"
	InheritNonEmpty InheritancePolicy = "non-empty"
	InheritAlways   InheritancePolicy = "always"
)

// InheritanceFinalizer is finalizer pass B: it injects inherited
// members from each Record's base classes into that Record's member
// list, grounded on the teacher's internal/graph topological-
// traversal style (builder.go's DAG walk) but built around
// symbol.Record's base list instead of a generic dependency graph,
// and with no PageRank-style centrality scoring — that is a ranking
// concern the teacher's internal/graph.ppr.go solves for a different
// product and has no analogue here.
type InheritanceFinalizer struct {
	store  *corpus.Store
	policy InheritancePolicy
	logger *logging.Logger
}

// NewInheritanceFinalizer builds pass B over store with the given
// policy.
func NewInheritanceFinalizer(store *corpus.Store, policy InheritancePolicy, logger *logging.Logger) *InheritanceFinalizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &InheritanceFinalizer{store: store, policy: policy, logger: logger}
}

// Run performs a topological traversal of the base-class DAG with
// cycle detection (spec §4.3: "cycles are reported, not silently
// tolerated"), injecting inherited members per record.
func (f *InheritanceFinalizer) Run(diags *merrors.Diagnostics) {
	if f.policy == InheritNever {
		return
	}

	visiting := make(map[symbolid.ID]bool)
	done := make(map[symbolid.ID]bool)

	var visit func(id symbolid.ID) *symbol.Record
	visit = func(id symbolid.ID) *symbol.Record {
		sym := f.store.Find(id)
		if sym == nil {
			return nil
		}
		rec, ok := sym.Body.(*symbol.Record)
		if !ok {
			return nil
		}
		if done[id] {
			return rec
		}
		if visiting[id] {
			diags.Add(merrors.New(merrors.FinalizerCycle, "inheritance cycle detected at `"+sym.Name+"`"))
			return rec
		}
		visiting[id] = true
		for _, base := range rec.Bases {
			baseID, ok := baseRecordID(base)
			if !ok {
				continue
			}
			visit(baseID) // ensure the base is itself finalized first
		}
		f.injectBase(sym, rec)
		visiting[id] = false
		done[id] = true
		return rec
	}

	for _, sym := range f.store.Iterate() {
		if sym.Kind == symbol.KindRecord {
			visit(sym.ID)
		}
	}
}

func baseRecordID(b symbol.Base) (symbolid.ID, bool) {
	named, ok := b.Type.(*cxxtype.Named)
	if !ok || named.Name == nil || !named.Name.HasID {
		return symbolid.Invalid, false
	}
	return named.Name.SymbolID, true
}

// injectBase walks sym's immediate bases (already finalized by the
// caller's post-order traversal) and copies their effective members
// into sym's member lists, per spec §4.3's access-combination rule:
// effective access is min(A, B) for a base of access B and inherited
// member of access A; private members are not inherited; members
// shadowed by a same-name declaration in the derived are not
// re-inherited.
func (f *InheritanceFinalizer) injectBase(sym *symbol.Symbol, rec *symbol.Record) {
	existingNames := make(map[string]bool)
	for _, id := range rec.AllMembers() {
		if m := f.store.Find(id); m != nil {
			existingNames[m.Name] = true
		}
	}

	for _, base := range rec.Bases {
		baseID, ok := baseRecordID(base)
		if !ok {
			continue
		}
		baseSym := f.store.Find(baseID)
		if baseSym == nil {
			continue
		}
		baseRec, ok := baseSym.Body.(*symbol.Record)
		if !ok {
			continue
		}
		if f.policy == InheritNonEmpty && len(baseRec.AllMembers()) == 0 {
			continue
		}

		for _, access := range []symbol.Access{symbol.AccessPublic, symbol.AccessProtected} {
			for _, mid := range *baseRec.MembersByAccess(access) {
				m := f.store.Find(mid)
				if m == nil || existingNames[m.Name] {
					continue
				}
				effective := minAccess(m.Access, base.Access)
				if effective == symbol.AccessPrivate {
					continue
				}
				target := rec.MembersByAccess(effective)
				*target = append(*target, mid)
				existingNames[m.Name] = true
			}
		}
	}
}

func minAccess(a, b symbol.Access) symbol.Access {
	rank := map[symbol.Access]int{
		symbol.AccessPublic:    0,
		symbol.AccessProtected: 1,
		symbol.AccessPrivate:   2,
		symbol.AccessNone:      2,
	}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}
