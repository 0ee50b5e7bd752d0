package finalizer

import (
	"mrdocs/internal/corpus"
	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// OverloadGrouper is finalizer pass C (spec §4.4): for every scope
// that can contain functions, it partitions member functions by
// (short name, operator kind) and synthesizes an Overloads symbol for
// every group of size >= 2.
type OverloadGrouper struct {
	store  *corpus.Store
	logger *logging.Logger
}

// NewOverloadGrouper builds pass C over store.
func NewOverloadGrouper(store *corpus.Store, logger *logging.Logger) *OverloadGrouper {
	if logger == nil {
		logger = logging.Nop()
	}
	return &OverloadGrouper{store: store, logger: logger}
}

type overloadKey struct {
	name string
	op   string
}

// Run groups functions into Overloads symbols. It is a no-op on a
// second run (spec §8, "Overload grouper stability") because the
// synthesized Overloads ID is deterministic: running it again finds
// the scope's member list already rewritten to reference the single
// Overloads ID rather than the individual functions, so re-grouping
// that single member trivially yields the same singleton group.
func (g *OverloadGrouper) Run(diags *merrors.Diagnostics) {
	for _, sym := range g.store.Iterate() {
		switch b := sym.Body.(type) {
		case *symbol.Namespace:
			b.Members = g.groupScope(sym.ID, b.Members)
		case *symbol.Record:
			b.PublicMembers = g.groupScope(sym.ID, b.PublicMembers)
			b.ProtectedMembers = g.groupScope(sym.ID, b.ProtectedMembers)
			b.PrivateMembers = g.groupScope(sym.ID, b.PrivateMembers)
		}
	}
}

func (g *OverloadGrouper) groupScope(scope symbolid.ID, members []symbolid.ID) []symbolid.ID {
	groups := make(map[overloadKey][]symbolid.ID)
	var order []overloadKey
	keyOf := make(map[symbolid.ID]overloadKey)

	for _, id := range members {
		m := g.store.Find(id)
		if m == nil || m.Kind != symbol.KindFunction {
			continue
		}
		fn := m.Body.(*symbol.Function)
		key := overloadKey{name: m.Name, op: fn.OperatorTag}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], id)
		keyOf[id] = key
	}

	replaced := make(map[overloadKey]symbolid.ID)
	for _, key := range order {
		if len(groups[key]) < 2 {
			continue
		}
		overloadsID := g.overloadsID(scope, key)
		existing := g.store.Find(overloadsID)
		if existing == nil {
			fn0 := g.store.Find(groups[key][0]).Body.(*symbol.Function)
			ov := &symbol.Overloads{Members: groups[key], OperatorTag: key.op, Class: fn0.Class}
			g.store.Ingest(&symbol.Symbol{
				ID: overloadsID, Name: key.name, Kind: symbol.KindOverloads,
				HasParent: true, Parent: scope, Access: g.store.Find(groups[key][0]).Access,
				Body: ov,
			})
		}
		for _, fid := range groups[key] {
			if fsym := g.store.Find(fid); fsym != nil {
				fsym.HasParent = true
				fsym.Parent = overloadsID
			}
		}
		replaced[key] = overloadsID
	}

	out := make([]symbolid.ID, 0, len(members))
	seenOverload := make(map[overloadKey]bool)
	for _, id := range members {
		key, isFn := keyOf[id]
		if !isFn {
			out = append(out, id)
			continue
		}
		if ovID, grouped := replaced[key]; grouped {
			if !seenOverload[key] {
				out = append(out, ovID)
				seenOverload[key] = true
			}
			continue
		}
		out = append(out, id)
	}
	return out
}

// overloadsID derives a deterministic ID for the synthetic Overloads
// symbol from the scope and group key, so overload sets are stable
// across re-runs (spec §4.4).
func (g *OverloadGrouper) overloadsID(scope symbolid.ID, key overloadKey) symbolid.ID {
	return symbolid.FromUSR("mrdocs:overloads:" + scope.String() + ":" + key.name + ":" + key.op)
}
