package finalizer

import (
	"fmt"

	"mrdocs/internal/corpus"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/doccomment"
	"mrdocs/internal/logging"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

// DocCommentFinalizer is finalizer pass D (spec §4.5): it resolves
// copy directives, re-tokenizes every text leaf through the inline
// parser, autosynthesizes documentation for undocumented special
// functions, and validates `@param`/`@tparam` usage.
type DocCommentFinalizer struct {
	store  *corpus.Store
	logger *logging.Logger
}

// NewDocCommentFinalizer builds pass D over store.
func NewDocCommentFinalizer(store *corpus.Store, logger *logging.Logger) *DocCommentFinalizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DocCommentFinalizer{store: store, logger: logger}
}

// Run executes pass D's four sub-tasks in order for every symbol.
// Parsing never fails (spec §4.5): pathological inputs produce
// best-effort literal output rather than an error.
func (d *DocCommentFinalizer) Run(diags *merrors.Diagnostics) {
	resolving := make(map[symbolid.ID]bool)
	for _, sym := range d.store.Iterate() {
		d.resolveCopyDirectives(sym, resolving, diags)
	}
	for _, sym := range d.store.Iterate() {
		d.reparseInlines(sym)
	}
	for _, sym := range d.store.Iterate() {
		if fn, ok := sym.Body.(*symbol.Function); ok {
			d.autosynthesize(sym, fn)
		}
	}
	for _, sym := range d.store.Iterate() {
		d.validate(sym, diags)
	}
}

// resolveCopyDirectives expands copy directives. The doc model has a
// single inline CopyDetails node (wherever the raw scanner placed the
// `@copydoc`/`@copydetails` token — typically inside a Details or
// Paragraph block); it is replaced in place by the target's
// description inlines (its first Details block, else its first
// Paragraph). The target's brief is never copied: `@copydoc` behaves
// like `@copydetails`, and there is no `@copybrief` node. Cycles are broken by
// tracking the "currently being resolved" set (spec §8, "Copy-doc
// termination").
func (d *DocCommentFinalizer) resolveCopyDirectives(sym *symbol.Symbol, resolving map[symbolid.ID]bool, diags *merrors.Diagnostics) *doccomment.Javadoc {
	if sym.Doc == nil {
		return nil
	}
	if resolving[sym.ID] {
		diags.Add(merrors.New(merrors.FinalizerCycle, "copydoc cycle at `"+sym.Name+"`"))
		return sym.Doc
	}
	resolving[sym.ID] = true
	defer delete(resolving, sym.ID)

	for _, block := range sym.Doc.Blocks {
		d.expandCopyDetailsInBlock(sym, block, resolving, diags)
	}
	return sym.Doc
}

func (d *DocCommentFinalizer) expandCopyDetailsInBlock(sym *symbol.Symbol, b doccomment.Block, resolving map[symbolid.ID]bool, diags *merrors.Diagnostics) {
	switch v := b.(type) {
	case *doccomment.Brief:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Paragraph:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Returns:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Param:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.TParam:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Throws:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Precondition:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Postcondition:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Admonition:
		d.expandCopyDetailsInContainer(sym, &v.Paragraph.Inlines, resolving, diags)
	case *doccomment.Heading:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.List:
		for i := range v.Items {
			d.expandCopyDetailsInContainer(sym, &v.Items[i].Inlines, resolving, diags)
		}
	case *doccomment.See:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	case *doccomment.Details:
		d.expandCopyDetailsInContainer(sym, &v.Inlines, resolving, diags)
	}
}

func (d *DocCommentFinalizer) expandCopyDetailsInContainer(sym *symbol.Symbol, c *doccomment.Container, resolving map[symbolid.ID]bool, diags *merrors.Diagnostics) {
	var rebuilt []doccomment.Inline
	for _, n := range c.Inlines {
		cd, ok := n.(*doccomment.CopyDetails)
		if !ok || !cd.HasID || cd.Target == sym.ID {
			rebuilt = append(rebuilt, n)
			continue
		}
		target := d.store.Find(cd.Target)
		if target == nil {
			rebuilt = append(rebuilt, n)
			continue
		}
		targetDoc := d.resolveCopyDirectives(target, resolving, diags)
		rebuilt = append(rebuilt, extractDetailsInlines(targetDoc)...)
	}
	c.Inlines = rebuilt
}

// extractDetailsInlines returns the inline content of j's long-form
// description: the first Details block if present, otherwise the
// first Paragraph, otherwise nothing.
func extractDetailsInlines(j *doccomment.Javadoc) []doccomment.Inline {
	if j == nil {
		return nil
	}
	for _, b := range j.Blocks {
		if det, ok := b.(*doccomment.Details); ok {
			return det.Inlines.Inlines
		}
	}
	for _, b := range j.Blocks {
		if p, ok := b.(*doccomment.Paragraph); ok {
			return p.Inlines.Inlines
		}
	}
	return nil
}

// reparseInlines re-tokenizes every Text leaf that was produced by the
// raw doc-comment scanner (carrying unparsed markup) through
// doccomment.ParseInline (spec §4.5.2). Leaves that are already
// structured (Reference, Link, ...) are left untouched.
func (d *DocCommentFinalizer) reparseInlines(sym *symbol.Symbol) {
	if sym.Doc == nil {
		return
	}
	for _, block := range sym.Doc.Blocks {
		reparseBlock(block)
	}
}

func reparseBlock(b doccomment.Block) {
	switch v := b.(type) {
	case *doccomment.Brief:
		reparseContainer(&v.Inlines)
	case *doccomment.Paragraph:
		reparseContainer(&v.Inlines)
	case *doccomment.Returns:
		reparseContainer(&v.Inlines)
	case *doccomment.Param:
		reparseContainer(&v.Inlines)
	case *doccomment.TParam:
		reparseContainer(&v.Inlines)
	case *doccomment.Throws:
		reparseContainer(&v.Inlines)
	case *doccomment.Precondition:
		reparseContainer(&v.Inlines)
	case *doccomment.Postcondition:
		reparseContainer(&v.Inlines)
	case *doccomment.Admonition:
		reparseContainer(&v.Paragraph.Inlines)
	case *doccomment.Heading:
		reparseContainer(&v.Inlines)
	case *doccomment.List:
		for i := range v.Items {
			reparseContainer(&v.Items[i].Inlines)
		}
	case *doccomment.See:
		reparseContainer(&v.Inlines)
	case *doccomment.Details:
		reparseContainer(&v.Inlines)
	}
}

func reparseContainer(c *doccomment.Container) {
	var rebuilt []doccomment.Inline
	for _, n := range c.Inlines {
		if txt, ok := n.(*doccomment.Text); ok {
			parsed := doccomment.ParseInline(txt.Value)
			rebuilt = append(rebuilt, parsed.Inlines...)
			continue
		}
		rebuilt = append(rebuilt, n)
	}
	c.Inlines = rebuilt
}

// autosynthesize implements spec §4.5.3: for functions with no brief,
// synthesize one by function class/operator kind, and synthesize
// parameter/returns docs for canonical signatures when none exist.
// An explicit @param always takes precedence over autosynthesis
// (SPEC_FULL.md §D).
func (d *DocCommentFinalizer) autosynthesize(sym *symbol.Symbol, fn *symbol.Function) {
	if sym.Doc == nil {
		sym.Doc = &doccomment.Javadoc{}
	}

	if sym.Doc.Brief() == "" {
		if brief := synthesizeBrief(sym, fn); brief != "" {
			sym.Doc.Blocks = append([]doccomment.Block{&doccomment.Brief{
				Inlines: doccomment.Container{Inlines: []doccomment.Inline{&doccomment.Text{Value: brief}}},
			}}, sym.Doc.Blocks...)
		}
	}

	documented := make(map[string]bool)
	for _, p := range sym.Doc.ParamBlocks() {
		documented[p.Name] = true
	}
	for _, p := range synthesizeParamDocs(fn) {
		if documented[p.Name] {
			continue
		}
		sym.Doc.Blocks = append(sym.Doc.Blocks, &doccomment.Param{
			Name:    p.Name,
			Inlines: doccomment.Container{Inlines: []doccomment.Inline{&doccomment.Text{Value: p.Text}}},
		})
	}

	if !sym.Doc.HasReturns() {
		ret := synthesizeReturns(sym, fn)
		if ret == "" {
			// Fall back to the brief of the symbol the return type names.
			if named, ok := fn.Return.(*cxxtype.Named); ok && named.Name != nil && named.Name.HasID {
				if target := d.store.Find(named.Name.SymbolID); target != nil {
					ret = target.Doc.Brief()
				}
			}
		}
		if ret != "" {
			sym.Doc.Blocks = append(sym.Doc.Blocks, &doccomment.Returns{
				Inlines: doccomment.Container{Inlines: []doccomment.Inline{&doccomment.Text{Value: ret}}},
			})
		}
	}
}

func synthesizeBrief(sym *symbol.Symbol, fn *symbol.Function) string {
	switch fn.Class {
	case symbol.FuncConstructor:
		if isCopySignature(fn) {
			return "Copy constructor."
		}
		if isMoveSignature(fn) {
			return "Move constructor."
		}
		if len(fn.Params) == 0 {
			return "Default constructor."
		}
		return "Constructor."
	case symbol.FuncDestructor:
		return "Destructor."
	case symbol.FuncConversion:
		return "Conversion operator."
	}
	switch fn.OperatorTag {
	case "operator<<":
		return "Stream insertion operator."
	case "operator>>":
		return "Stream extraction operator."
	case "operator==":
		return "Equality operator."
	case "operator!=":
		return "Inequality operator."
	case "operator<=>":
		return "Three-way comparison operator."
	case "operator=":
		if isCopySignature(fn) {
			return "Copy assignment operator."
		}
		if isMoveSignature(fn) {
			return "Move assignment operator."
		}
		return "Assignment operator."
	}
	return ""
}

// isCopySignature reports whether fn's single parameter is an lvalue
// reference (to the enclosing record, for the copy constructor/copy
// assignment shapes this is called on) rather than just any
// one-parameter function (spec §4.5.3, "copy/move/default variants").
func isCopySignature(fn *symbol.Function) bool {
	if fn.IsExplicitObjectMemberFunction || len(fn.Params) != 1 {
		return false
	}
	_, ok := fn.Params[0].Type.(*cxxtype.LValueReference)
	return ok
}

// isMoveSignature is isCopySignature's rvalue-reference counterpart:
// the single parameter is `T&&`, distinguishing a move constructor or
// move assignment operator from its copy sibling.
func isMoveSignature(fn *symbol.Function) bool {
	if fn.IsExplicitObjectMemberFunction || len(fn.Params) != 1 {
		return false
	}
	_, ok := fn.Params[0].Type.(*cxxtype.RValueReference)
	return ok
}

type paramDoc struct {
	Name string
	Text string
}

// synthesizeParamDocs produces canonical parameter docs for a handful
// of recognizable signatures (copy/move special members, binary
// comparison/stream operators), matching spec §8 scenario 3's example
// exactly ("lhs"/"rhs", "The left operand"/"The right operand").
func synthesizeParamDocs(fn *symbol.Function) []paramDoc {
	switch fn.Class {
	case symbol.FuncConstructor:
		if isCopySignature(fn) {
			return []paramDoc{{Name: "other", Text: "The object to copy from."}}
		}
		if isMoveSignature(fn) {
			return []paramDoc{{Name: "other", Text: "The object to move from."}}
		}
	}
	switch fn.OperatorTag {
	case "operator==", "operator!=", "operator<", "operator<=", "operator>", "operator>=", "operator<=>":
		if len(fn.Params) == 2 || (fn.IsRecordMethod && len(fn.Params) == 1) {
			if fn.IsRecordMethod {
				return []paramDoc{{Name: paramName(fn, 0), Text: "The right operand."}}
			}
			return []paramDoc{
				{Name: paramName(fn, 0), Text: "The left operand."},
				{Name: paramName(fn, 1), Text: "The right operand."},
			}
		}
	case "operator<<", "operator>>":
		if len(fn.Params) >= 1 {
			return []paramDoc{{Name: paramName(fn, 0), Text: "An output stream."}}
		}
	}
	return nil
}

func paramName(fn *symbol.Function, i int) string {
	if i < len(fn.Params) && fn.Params[i].Name != "" {
		return fn.Params[i].Name
	}
	names := []string{"lhs", "rhs"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("arg%d", i)
}

// synthesizeReturns produces @returns text when the function is known
// to return `*this`, a bool comparison, or the spaceship ordering
// (spec §4.5.3); autosynthesize falls back to the return type's brief
// when this returns "".
func synthesizeReturns(sym *symbol.Symbol, fn *symbol.Function) string {
	switch fn.OperatorTag {
	case "operator==", "operator!=":
		return "`true` if the objects are equal, `false` otherwise."
	case "operator<=>":
		return "The relative ordering of the two objects."
	case "operator=":
		return "A reference to `*this`."
	}
	return ""
}

// validate implements spec §4.5.4: warn on duplicate @param/@tparam,
// @param for an unknown parameter name, and structural mismatches.
func (d *DocCommentFinalizer) validate(sym *symbol.Symbol, diags *merrors.Diagnostics) {
	if sym.Doc == nil {
		return
	}
	fn, isFn := sym.Body.(*symbol.Function)

	seen := make(map[string]int)
	for _, p := range sym.Doc.ParamBlocks() {
		seen[p.Name]++
		if seen[p.Name] > 1 {
			diags.Add(merrors.New(merrors.ReferenceUnresolved, "duplicate @param `"+p.Name+"` on `"+sym.Name+"`"))
		}
		if isFn && !hasParamNamed(fn, p.Name) {
			diags.Add(merrors.New(merrors.ReferenceUnresolved, "@param `"+p.Name+"` does not match any parameter of `"+sym.Name+"`"))
		}
	}
}

func hasParamNamed(fn *symbol.Function, name string) bool {
	for _, p := range fn.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}
