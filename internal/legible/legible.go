// Package legible implements the legible-name allocator (spec §4.8):
// scope-unique, filesystem-safe identifiers for every symbol, with a
// qualified form built by concatenating ancestor names. Grounded on
// the teacher's internal/paths package, which solves the adjacent
// problem of turning arbitrary identifiers into collision-free
// filesystem paths; this package adapts that allocate-then-remember
// pattern to symbol scopes instead of repository paths.
package legible

import (
	"strings"

	"mrdocs/internal/corpus"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// placeholderName supplies the reserved raw-name stand-ins spec §4.8
// names for kinds with no written identifier: unnamed/anonymous
// scopes, overload sets, and (for symmetry with the original's
// numeric kind tags) any future unnamed kind.
func placeholderName(sym *symbol.Symbol) string {
	if sym.Name != "" {
		return sym.Name
	}
	switch b := sym.Body.(type) {
	case *symbol.Namespace:
		if b.IsAnonymous {
			return "anonymous-namespace"
		}
	case *symbol.Function:
		return "02function"
	case *symbol.Enum:
		return "04enum"
	case *symbol.Overloads:
		return sym.Name
	}
	return "symbol"
}

// Allocator assigns and caches legible names over a finalized
// corpus.Store (spec §4.8). It must run after all five finalizer
// passes so the member lists it walks are final.
type Allocator struct {
	store     *corpus.Store
	delim     string
	unqual    map[symbolid.ID]string
	qualified map[symbolid.ID]string
}

// NewAllocator builds an Allocator over store using delim ("/" or
// "-") to join qualified-name components.
func NewAllocator(store *corpus.Store, delim string) *Allocator {
	if delim == "" {
		delim = "/"
	}
	return &Allocator{
		store:     store,
		delim:     delim,
		unqual:    make(map[symbolid.ID]string),
		qualified: make(map[symbolid.ID]string),
	}
}

// Allocate computes every symbol's unqualified legible name, scope by
// scope: within a scope, members sharing a raw name are disambiguated
// by the shortest common hex-ID prefix that distinguishes them (spec
// §4.8, "group by name ... compute the shortest disambiguating
// prefix"). Must be called once before Unqualified/Qualified are used.
func (a *Allocator) Allocate() {
	for _, sym := range a.store.Iterate() {
		a.allocateScope(scopeMembers(sym))
	}
	// The global/root scope is itself a scope whose members are every
	// symbol with no parent recorded in a Namespace/Record body walk
	// above; top-level namespaces still need a name even though no
	// enclosing scope iterated them as a Namespace member when they are
	// literally the translation unit's outermost declarations.
	a.allocateScope(topLevelIDs(a.store))
}

func scopeMembers(sym *symbol.Symbol) []symbolid.ID {
	switch b := sym.Body.(type) {
	case *symbol.Namespace:
		return b.Members
	case *symbol.Record:
		return b.AllMembers()
	case *symbol.Enum:
		return b.Constants
	case *symbol.Overloads:
		return b.Members
	default:
		return nil
	}
}

// topLevelIDs returns every symbol whose Parent is the reserved global
// ID, i.e. the roots of the corpus tree.
func topLevelIDs(store *corpus.Store) []symbolid.ID {
	var out []symbolid.ID
	for _, sym := range store.Iterate() {
		if sym.HasParent && sym.Parent.IsGlobal() {
			out = append(out, sym.ID)
		}
	}
	return out
}

func (a *Allocator) allocateScope(members []symbolid.ID) {
	groups := make(map[string][]symbolid.ID)
	var order []string
	for _, id := range members {
		sym := a.store.Find(id)
		if sym == nil {
			continue
		}
		raw := placeholderName(sym)
		if _, ok := groups[raw]; !ok {
			order = append(order, raw)
		}
		groups[raw] = append(groups[raw], id)
	}

	for _, raw := range order {
		ids := groups[raw]
		if len(ids) == 1 {
			a.unqual[ids[0]] = raw
			continue
		}
		prefixLen := disambiguatingLength(ids)
		for _, id := range ids {
			a.unqual[id] = raw + "-0" + id.String()[:prefixLen]
		}
	}
}

// disambiguatingLength returns the shortest hex-ID prefix length (at
// least 1) at which every id in ids is distinguishable from every
// other, satisfying spec §4.8's uniqueness invariant for the group.
func disambiguatingLength(ids []symbolid.ID) int {
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.String()
	}
	for n := 1; n <= len(hexes[0]); n++ {
		seen := make(map[string]bool)
		collision := false
		for _, h := range hexes {
			p := h[:n]
			if seen[p] {
				collision = true
				break
			}
			seen[p] = true
		}
		if !collision {
			return n
		}
	}
	return len(hexes[0])
}

// Unqualified returns id's legible short name, computed by Allocate.
func (a *Allocator) Unqualified(id symbolid.ID) string {
	return a.unqual[id]
}

// Qualified returns id's legible name concatenated with every
// ancestor's legible name, joined by the Allocator's delimiter (spec
// §4.8, "qualified form concatenates ancestor legible names").
func (a *Allocator) Qualified(id symbolid.ID) string {
	if q, ok := a.qualified[id]; ok {
		return q
	}
	var parts []string
	cur := id
	for {
		sym := a.store.Find(cur)
		if sym == nil {
			break
		}
		if name := a.unqual[cur]; name != "" {
			parts = append(parts, name)
		}
		if !sym.HasParent || sym.Parent.IsGlobal() {
			break
		}
		cur = sym.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	q := strings.Join(parts, a.delim)
	a.qualified[id] = q
	return q
}
