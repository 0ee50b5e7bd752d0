package finalizer

import (
	"fmt"
	"sort"

	"mrdocs/internal/corpus"
	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// kindPriority assigns the canonical display order for members sharing
// a scope, matching the order MrDocs' reference renderer groups a
// page's members into (spec §4.6): namespaces and records first,
// then overload sets and functions, then the remaining declaration
// kinds, with enum constants never reordered (they keep their
// as-declared sequence since their numeric value can depend on
// position).
var kindPriority = map[symbol.Kind]int{
	symbol.KindNamespace:      0,
	symbol.KindRecord:         1,
	symbol.KindSpecialization: 2,
	symbol.KindOverloads:      3,
	symbol.KindFunction:       4,
	symbol.KindGuide:          5,
	symbol.KindEnum:           6,
	symbol.KindTypedef:        7,
	symbol.KindUsing:          8,
	symbol.KindNamespaceAlias: 9,
	symbol.KindVariable:       10,
	symbol.KindField:          11,
	symbol.KindConcept:        12,
	symbol.KindFriend:         13,
	symbol.KindEnumConstant:   14,
}

// SortFinalizer is finalizer pass E (spec §4.6): it reorders each
// scope's member list by kind, then source location, then short name,
// then symbol-ID as a final deterministic tie-break, grounded on the
// teacher's internal/graph sort-by-score-then-id pattern but ordering
// by declaration kind instead of a PageRank score.
type SortFinalizer struct {
	store  *corpus.Store
	logger *logging.Logger
}

// NewSortFinalizer builds pass E over store.
func NewSortFinalizer(store *corpus.Store, logger *logging.Logger) *SortFinalizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SortFinalizer{store: store, logger: logger}
}

// Run reorders every Namespace's and Record's member lists. Enum
// constants are deliberately skipped (spec §4.6, "declaration order of
// enum constants is preserved").
func (f *SortFinalizer) Run(_ *merrors.Diagnostics) {
	for _, sym := range f.store.Iterate() {
		switch b := sym.Body.(type) {
		case *symbol.Namespace:
			f.sortMembers(b.Members)
		case *symbol.Record:
			f.sortMembers(b.PublicMembers)
			f.sortMembers(b.ProtectedMembers)
			f.sortMembers(b.PrivateMembers)
		}
	}
}

func (f *SortFinalizer) sortMembers(ids []symbolid.ID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := f.store.Find(ids[i]), f.store.Find(ids[j])
		if a == nil || b == nil {
			return false
		}
		if pa, pb := kindPriority[a.Kind], kindPriority[b.Kind]; pa != pb {
			return pa < pb
		}
		if la, lb := locationKey(a), locationKey(b); la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
}

// locationKey renders a Symbol's definition location into a string
// that sorts correctly by path then line then column, falling back to
// the empty string (sorts first) when no definition location is
// known — typically true only for synthesized Overloads symbols,
// which fall through to the name/ID tie-break instead.
func locationKey(s *symbol.Symbol) string {
	if s.Definition == nil {
		return ""
	}
	return fmt.Sprintf("%s:%08d:%08d", s.Definition.Path, s.Definition.Line, s.Definition.Column)
}
