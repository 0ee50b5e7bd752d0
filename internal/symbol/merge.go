package symbol

import "mrdocs/internal/symbolid"

// Merge folds an incoming declaration of the same ID into an existing
// Symbol, per spec §4.1 step 2: union member lists, fold source
// locations (unique defs, dedup decls), take the strictest extraction
// mode, retain the first non-empty doc comment, and combine
// attribute/flag bit-sets with OR. Merge is idempotent (spec §8,
// "Merge idempotence"): merging the same declaration twice is a no-op
// beyond the first time. It is not commutative: the existing symbol's
// doc comment, definition, base list and template info win over the
// incoming one's, and member lists keep the existing order first.
func Merge(existing, incoming *Symbol) {
	existing.ExtractionMode = Strictest(existing.ExtractionMode, incoming.ExtractionMode)

	if incoming.Definition != nil {
		if existing.Definition == nil {
			loc := *incoming.Definition
			existing.Definition = &loc
		}
		// Multiple "definitions" of the same ID reaching here without
		// equal locations would be an ODR inconsistency (MergeError);
		// the builder is responsible for reporting that before
		// calling Merge, so we conservatively keep the first.
	}
	existing.Declarations = dedupLocations(append(existing.Declarations, incoming.Declarations...))

	if existing.Doc == nil || len(existing.Doc.Blocks) == 0 {
		existing.Doc = incoming.Doc
	}

	mergeBody(existing, incoming)
}

func dedupLocations(locs []Location) []Location {
	seen := make(map[Location]bool, len(locs))
	out := locs[:0]
	for _, l := range locs {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// unionSymbolIDs appends the IDs from b not already present in a,
// preserving a's order (spec §4.1, "union member lists").
func unionSymbolIDs(a, b []symbolid.ID) []symbolid.ID {
	if len(b) == 0 {
		return a
	}
	seen := make(map[symbolid.ID]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			a = append(a, id)
		}
	}
	return a
}

func mergeBody(existing, incoming *Symbol) {
	switch e := existing.Body.(type) {
	case *Namespace:
		if in, ok := incoming.Body.(*Namespace); ok {
			e.Members = unionSymbolIDs(e.Members, in.Members)
			e.UsingDirectives = unionSymbolIDs(e.UsingDirectives, in.UsingDirectives)
			e.IsInline = e.IsInline || in.IsInline
			e.IsAnonymous = e.IsAnonymous || in.IsAnonymous
		}
	case *Record:
		if in, ok := incoming.Body.(*Record); ok {
			e.PublicMembers = unionSymbolIDs(e.PublicMembers, in.PublicMembers)
			e.ProtectedMembers = unionSymbolIDs(e.ProtectedMembers, in.ProtectedMembers)
			e.PrivateMembers = unionSymbolIDs(e.PrivateMembers, in.PrivateMembers)
			e.Friends = unionSymbolIDs(e.Friends, in.Friends)
			e.Specializations = unionSymbolIDs(e.Specializations, in.Specializations)
			if len(in.Bases) > 0 && len(e.Bases) == 0 {
				e.Bases = in.Bases
			}
			if e.Template == nil {
				e.Template = in.Template
			}
		}
	case *Enum:
		if in, ok := incoming.Body.(*Enum); ok {
			e.Constants = unionSymbolIDs(e.Constants, in.Constants)
		}
	case *Overloads:
		if in, ok := incoming.Body.(*Overloads); ok {
			e.Members = unionSymbolIDs(e.Members, in.Members)
		}
	case *Using:
		if in, ok := incoming.Body.(*Using); ok {
			e.Symbols = unionSymbolIDs(e.Symbols, in.Symbols)
		}
	case *Field:
		if in, ok := incoming.Body.(*Field); ok {
			e.IsMutable = e.IsMutable || in.IsMutable
			e.IsBitfield = e.IsBitfield || in.IsBitfield
			e.IsNoUniqueAddress = e.IsNoUniqueAddress || in.IsNoUniqueAddress
		}
	default:
		// Function, Specialization, EnumConstant, Typedef, Variable,
		// Friend, NamespaceAlias, Concept, Guide carry no list fields
		// that accumulate across redeclarations beyond what the
		// common header already merges; a later non-nil Body simply
		// fills in gaps left by a forward declaration.
		if existing.Body == nil {
			existing.Body = incoming.Body
		}
	}
}
