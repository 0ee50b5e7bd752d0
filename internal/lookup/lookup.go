// Package lookup implements the C++-aware symbol-lookup engine from
// spec §4.7: given a source context and a textual name, it returns at
// most one Symbol that name refers to under C++ lookup rules. State
// is the finalized store plus a two-level cache, threaded explicitly
// rather than reached through a singleton (DESIGN NOTES: "Global
// mutable singletons (lookup caches, logger) ... the lookup engine
// carries its cache as a field").
package lookup

import (
	"fmt"
	"strings"
	"sync"

	"mrdocs/internal/corpus"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/idexpr"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// cacheKey is the two-level cache key: (context, textual name).
type cacheKey struct {
	ctx  symbolid.ID
	name string
}

// cacheEntry holds a resolved ID, or records that the name is known
// not to resolve from this context (a negative result, itself cached
// per spec §4.7 step 3: "on hit, return the cached result (including
// negative results)").
type cacheEntry struct {
	id    symbolid.ID
	found bool
}

// Engine answers lookup queries against a finalized corpus.Store. It
// is side-effect-free apart from its cache (spec §4.7, "Cancellation/
// errors"): failures are values, never panics or exceptions.
type Engine struct {
	store *corpus.Store

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// NewEngine builds a lookup Engine over store. Caches are per-engine
// and not shared across corpora (spec §5, "Resource policy").
func NewEngine(store *corpus.Store) *Engine {
	return &Engine{store: store, cache: make(map[cacheKey]cacheEntry)}
}

// Resolve performs spec §4.7's algorithm and returns the resolved
// symbolid.ID, or a merrors.LookupNotFound error as a typed value —
// never a panic. Equally ranked candidates resolve to the first
// occurrence, so no merrors.LookupAmbiguous error is returned.
func (e *Engine) Resolve(ctx symbolid.ID, name string) (symbolid.ID, error) {
	expr, err := idexpr.Parse(name)
	if err != nil {
		return symbolid.Invalid, merrors.Wrap(merrors.LookupNotFound, "malformed name `"+name+"`", err)
	}

	startCtx := ctx
	if expr.LeadingGlobal {
		startCtx = symbolid.Global
	}

	return e.resolvePath(startCtx, expr.Components, expr.LeadingGlobal)
}

// resolvePath resolves a (possibly multi-component) qualified path
// starting from startCtx, walking one component at a time; every
// non-terminal component must resolve to a scope (spec §4.7,
// "Qualified lookup").
func (e *Engine) resolvePath(startCtx symbolid.ID, comps []idexpr.Component, qualifiedRoot bool) (symbolid.ID, error) {
	if len(comps) == 0 {
		return symbolid.Invalid, merrors.New(merrors.LookupNotFound, "empty name")
	}

	current := startCtx
	for i, comp := range comps {
		terminal := i == len(comps)-1
		id, err := e.resolveOneComponent(current, comp, qualifiedRoot || i > 0)
		if err != nil {
			return symbolid.Invalid, err
		}
		if terminal {
			return id, nil
		}
		if !isScopeKind(e.store.Find(id)) {
			return symbolid.Invalid, merrors.New(merrors.LookupNotFound, "`"+comp.Identifier+"` does not name a scope")
		}
		current = id
	}
	return symbolid.Invalid, merrors.New(merrors.LookupNotFound, "name not found")
}

func isScopeKind(s *symbol.Symbol) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case symbol.KindNamespace, symbol.KindRecord, symbol.KindEnum, symbol.KindTypedef:
		return true
	default:
		return false
	}
}

// resolveOneComponent implements spec §4.7 steps 2-7 for a single
// name component relative to ctx: walk parents until a scope that may
// contain members is reached, consult the cache, enumerate and rank
// candidates, and on failure recurse into the parent scope.
func (e *Engine) resolveOneComponent(ctx symbolid.ID, comp idexpr.Component, qualified bool) (symbolid.ID, error) {
	// The key covers the whole component (template arguments, parameter
	// list, qualifiers, noexcept), not just its identifier, so `f` and
	// `f(double)` never share a cached answer.
	key := cacheKey{ctx: ctx, name: fmt.Sprintf("%+v", comp)}
	e.mu.Lock()
	if entry, ok := e.cache[key]; ok {
		e.mu.Unlock()
		if entry.found {
			return entry.id, nil
		}
		if qualified {
			return symbolid.Invalid, merrors.New(merrors.LookupNotFound, "`"+comp.Identifier+"` not found")
		}
		// fall through to try the parent scope for unqualified lookup;
		// a negative cache entry at ctx only means "not in ctx itself".
	} else {
		e.mu.Unlock()
	}

	scope := e.nearestScope(ctx)
	for scope != symbolid.Invalid {
		if id, ok := e.lookupInScope(scope, comp); ok {
			e.store2(key, id, true)
			return id, nil
		}
		if qualified {
			break
		}
		parent := e.parentOf(scope)
		if parent == scope {
			break
		}
		scope = parent
	}

	e.store2(key, symbolid.Invalid, false)
	return symbolid.Invalid, merrors.New(merrors.LookupNotFound, "`"+comp.Identifier+"` not found")
}

func (e *Engine) store2(key cacheKey, id symbolid.ID, found bool) {
	e.mu.Lock()
	e.cache[key] = cacheEntry{id: id, found: found}
	e.mu.Unlock()
}

// nearestScope walks parents of ctx until a scope kind is reached,
// returning symbolid.Invalid if none is found.
func (e *Engine) nearestScope(ctx symbolid.ID) symbolid.ID {
	if ctx.IsGlobal() {
		return ctx
	}
	cur := ctx
	for {
		s := e.store.Find(cur)
		if s == nil {
			return symbolid.Invalid
		}
		if isScopeKind(s) {
			return cur
		}
		if !s.HasParent {
			return symbolid.Invalid
		}
		cur = s.Parent
	}
}

func (e *Engine) parentOf(scope symbolid.ID) symbolid.ID {
	if scope.IsGlobal() {
		return scope
	}
	s := e.store.Find(scope)
	if s == nil || !s.HasParent {
		return symbolid.Global
	}
	return e.nearestScope(s.Parent)
}

// candidate pairs a member ID with its Symbol for ranking.
type candidate struct {
	id  symbolid.ID
	sym *symbol.Symbol
}

// lookupInScope enumerates members of scope matching comp's name
// (including through Overloads synthetic symbols, using-declarations,
// and one level of typedef-chain following), ranks them by spec
// §4.7 step 5's descending match level, and returns the single
// maximal-rank candidate.
func (e *Engine) lookupInScope(scope symbolid.ID, comp idexpr.Component) (symbolid.ID, bool) {
	members := e.membersOf(scope)

	var candidates []candidate
	for _, id := range members {
		sym := e.store.Find(id)
		if sym == nil {
			continue
		}
		if ov, ok := sym.Body.(*symbol.Overloads); ok {
			for _, fid := range ov.Members {
				if fs := e.store.Find(fid); fs != nil && fs.Name == comp.Identifier {
					candidates = append(candidates, candidate{id: fid, sym: fs})
				}
			}
			continue
		}
		if using, ok := sym.Body.(*symbol.Using); ok {
			for _, uid := range using.Symbols {
				if us := e.store.Find(uid); us != nil && us.Name == comp.Identifier {
					candidates = append(candidates, candidate{id: uid, sym: us})
				}
			}
			continue
		}
		if sym.Name == comp.Identifier {
			candidates = append(candidates, candidate{id: id, sym: sym})
		}
	}

	if len(candidates) == 0 {
		return symbolid.Invalid, false
	}
	best := rankBest(candidates, comp)
	if best == symbolid.Invalid {
		return symbolid.Invalid, false
	}
	return best, true
}

func (e *Engine) membersOf(scope symbolid.ID) []symbolid.ID {
	sym := e.store.Find(scope)
	if sym == nil {
		return nil
	}
	switch b := sym.Body.(type) {
	case *symbol.Namespace:
		return b.Members
	case *symbol.Record:
		return b.AllMembers()
	case *symbol.Enum:
		return b.Constants
	case *symbol.Typedef:
		// Single-level typedef-chain following (spec §4.7 step 5): if
		// the aliased type names a record/enum, its members are
		// visible through the typedef.
		if named, ok := b.Aliased.(*cxxtype.Named); ok && named.Name != nil && named.Name.HasID {
			if target := e.store.Find(named.Name.SymbolID); target != nil {
				switch target.Body.(type) {
				case *symbol.Record, *symbol.Enum:
					return e.membersOf(named.Name.SymbolID)
				}
			}
		}
	}
	return nil
}

// rankBest picks the maximal-ranked candidate per spec §4.7 step 5,
// breaking ties by first occurrence (stable iteration order of
// candidates, which follows declaration order within the scope).
func rankBest(candidates []candidate, comp idexpr.Component) symbolid.ID {
	bestRank := -1
	best := symbolid.Invalid
	for _, c := range candidates {
		r := rank(c, comp)
		if r > bestRank {
			bestRank = r
			best = c.id
		}
	}
	return best
}

// rank implements the descending match-level ladder from spec §4.7
// step 5: name match is the base level every candidate here already
// satisfies; higher levels require template-argument-count match,
// decay-equal template arguments, parameter-count match, documented
// parameter count, decay-equal parameter types, then cv/ref and
// noexcept agreement.
func rank(c candidate, comp idexpr.Component) int {
	level := 0 // name match

	fn, isFn := c.sym.Body.(*symbol.Function)
	if comp.HasTemplateArgs {
		var tmplParamCount int
		if isFn && fn.Template != nil {
			tmplParamCount = len(fn.Template.Params)
		}
		if tmplParamCount == len(comp.TemplateArgs) {
			level = max(level, 1)
			if decayEqualTemplateArgs(fn, comp) {
				level = max(level, 2)
			}
		}
	}

	if isFn {
		if comp.HasParams {
			if len(fn.Params) == len(comp.Params) {
				level = max(level, 3)
				if c.sym.Doc != nil {
					level = max(level, 4)
				}
				if decayEqualParamTypes(fn, comp) {
					level = max(level, 5)
					if qualifiersMatch(fn, comp) {
						level = max(level, 6)
						if noexceptMatches(fn, comp) {
							level = max(level, 7)
						}
					}
				}
			}
		} else {
			// No parameter list supplied in the query: still a name
			// match, the caller is looking up by name alone.
			level = max(level, 1)
		}
	}

	return level
}

func decayEqualTemplateArgs(fn *symbol.Function, comp idexpr.Component) bool {
	if fn == nil || fn.Template == nil {
		return false
	}
	if len(fn.Template.Args) != len(comp.TemplateArgs) {
		return false
	}
	for i, a := range fn.Template.Args {
		if a.Written != comp.TemplateArgs[i] {
			return false
		}
	}
	return true
}

// decayEqualParamTypes compares the query's textual parameter types
// against fn's declared parameter types. Where the query side carries
// no resolved cxxtype.Type (the common case: a raw `@ref f(int)`
// doc-comment reference), this falls back to a decay-insensitive
// textual comparison (whitespace removed); when fn's parameter does
// carry a resolved Type, cxxtype.Decay is used so top-level cv and
// array-to-pointer decay are ignored exactly as spec §4.7 step 5
// requires for real type-to-type comparisons (e.g. candidates compared
// against one another rather than against raw text).
//
// This is SFINAE-aware (spec §4.7 "SFINAE awareness"): when fn's
// parameter is a curated alias like `enable_if_t<C,T>`, cxxtype.Decay
// unwraps it to T and records C as a constraint; if the query text
// itself names the same curated alias, its condition and operand are
// split out the same way and compared against the unwrapped T and its
// recorded constraint, so two candidates differing only in their
// SFINAE condition are not decay-equal. A query that doesn't name a
// curated alias falls back to the plain textual comparison and rejects
// any candidate that did unwrap a constraint, since the query gave no
// condition to match it against.
func decayEqualParamTypes(fn *symbol.Function, comp idexpr.Component) bool {
	if len(fn.Params) != len(comp.Params) {
		return false
	}
	for i, p := range comp.Params {
		decayed := cxxtype.Decay(fn.Params[i].Type)
		var got, gotCondition string
		if decayed != nil {
			got = normalizeTypeText(cxxtype.String(decayed))
			if constraints := decayed.Common().Constraints; len(constraints) > 0 {
				gotCondition = constraints[len(constraints)-1]
			}
		}

		if condition, result, ok := sfinaeQueryUnwrap(p); ok {
			if normalizeTypeText(result) != got || normalizeTypeText(condition) != normalizeTypeText(gotCondition) {
				return false
			}
			continue
		}

		if gotCondition != "" {
			return false
		}
		if normalizeTypeText(p) != got {
			return false
		}
	}
	return true
}

// sfinaeQueryUnwrap splits a raw written parameter-type query (e.g.
// "enable_if_t<is_integral_v<T>, T>" or "enable_if<C,T>::type") into
// its SFINAE condition and operand, using the same curated alias list
// cxxtype.Unwrap recognizes, so a textual query can be compared against
// a resolved candidate's unwrapped type and constraint without losing
// the condition. Reports ok=false when text doesn't name a curated
// alias.
func sfinaeQueryUnwrap(text string) (condition, result string, ok bool) {
	text = strings.TrimSpace(text)
	base := strings.TrimSuffix(text, "::type")
	lt := strings.IndexByte(base, '<')
	if lt < 0 || !strings.HasSuffix(base, ">") {
		return "", "", false
	}

	name := strings.TrimSpace(base[:lt])
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	shape, known := cxxtype.DefaultSFINAEAliases[name]
	if !known || shape.ConditionArg < 0 {
		return "", "", false
	}

	args := idexpr.SplitTopLevel(base[lt+1 : len(base)-1])
	if shape.ConditionArg >= len(args) {
		return "", "", false
	}
	condition = args[shape.ConditionArg]
	result = "void"
	if shape.ResultArg >= 0 && shape.ResultArg < len(args) {
		result = args[shape.ResultArg]
	}
	return condition, result, true
}

func normalizeTypeText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func qualifiersMatch(fn *symbol.Function, comp idexpr.Component) bool {
	wantConst, wantVolatile, wantRef := false, false, ""
	for _, q := range comp.Qualifiers {
		switch q {
		case "const":
			wantConst = true
		case "volatile":
			wantVolatile = true
		case "&", "&&":
			wantRef = q
		}
	}
	if len(comp.Qualifiers) == 0 {
		return true
	}
	return wantConst == fn.IsConst && wantVolatile == fn.IsVolatile && wantRef == fn.RefQualifier
}

func noexceptMatches(fn *symbol.Function, comp idexpr.Component) bool {
	if !comp.HasNoexcept {
		return true
	}
	return fn.IsNoexcept
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
