// Package doccomment models the Javadoc-style documentation tree from
// spec §3 ("Doc comments"): an ordered list of block nodes, several of
// which own an inline container whose leaves form a small CommonMark-
// like markup tree. Block and inline variants are modeled the same way
// as internal/cxxtype models Types — a sealed interface plus one
// struct per variant — since both are described by the DESIGN NOTES as
// "polymorphic-value containers" to re-architect as tagged sum types.
package doccomment

import "mrdocs/internal/symbolid"

// Javadoc is the root doc-comment object attached to a symbol: an
// ordered list of blocks.
type Javadoc struct {
	Blocks []Block
}

// Block is any block-level node.
type Block interface {
	blockTag()
}

// Brief is the one-line summary block.
type Brief struct{ Inlines Container }

// Paragraph is an ordinary prose block.
type Paragraph struct{ Inlines Container }

// Returns documents a function's return value.
type Returns struct{ Inlines Container }

// ParamDirection tags the `[in]`/`[out]`/`[in,out]` direction
// annotation on a @param block, when written.
type ParamDirection string

const (
	DirectionNone  ParamDirection = ""
	DirectionIn    ParamDirection = "in"
	DirectionOut   ParamDirection = "out"
	DirectionInOut ParamDirection = "in,out"
)

// Param documents one function parameter by name.
type Param struct {
	Name      string
	Direction ParamDirection
	Inlines   Container
}

// TParam documents one template parameter by name.
type TParam struct {
	Name    string
	Inlines Container
}

// Throws documents one exception a function may raise.
type Throws struct {
	Exception string
	SymbolID  symbolid.ID
	HasID     bool
	Inlines   Container
}

// Precondition documents a `@pre` condition.
type Precondition struct{ Inlines Container }

// Postcondition documents a `@post` condition.
type Postcondition struct{ Inlines Container }

// AdmonitionTag distinguishes the doxygen admonition kinds.
type AdmonitionTag string

const (
	AdmonitionNote      AdmonitionTag = "note"
	AdmonitionTip       AdmonitionTag = "tip"
	AdmonitionImportant AdmonitionTag = "important"
	AdmonitionCaution   AdmonitionTag = "caution"
	AdmonitionWarning   AdmonitionTag = "warning"
)

// Admonition is a callout block.
type Admonition struct {
	Tag       AdmonitionTag
	Paragraph Paragraph
}

// Heading is a section heading.
type Heading struct {
	Level   int
	Inlines Container
}

// Code is a verbatim code block; its content is never re-tokenized by
// the inline parser.
type Code struct {
	Language string
	Text     string
}

// ListKind distinguishes ordered from unordered lists.
type ListKind string

const (
	ListOrdered   ListKind = "ordered"
	ListUnordered ListKind = "unordered"
)

// List is an item list whose items are each a paragraph.
type List struct {
	Kind  ListKind
	Items []Paragraph
}

// See is a `@see` cross-reference block.
type See struct{ Inlines Container }

// Details is the long-form description block (the portion of a
// comment after the brief).
type Details struct{ Inlines Container }

func (*Brief) blockTag()        {}
func (*Paragraph) blockTag()    {}
func (*Returns) blockTag()      {}
func (*Param) blockTag()        {}
func (*TParam) blockTag()       {}
func (*Throws) blockTag()       {}
func (*Precondition) blockTag() {}
func (*Postcondition) blockTag() {}
func (*Admonition) blockTag()   {}
func (*Heading) blockTag()      {}
func (*Code) blockTag()         {}
func (*List) blockTag()         {}
func (*See) blockTag()          {}
func (*Details) blockTag()      {}

// Container is an ordered sequence of inline nodes. It is itself a
// nestable unit: Emph/Strong/Code/Highlight/Sub/Sup carry a Container
// as their content, which is how the spec's "model is nestable"
// requirement is satisfied.
type Container struct {
	Inlines []Inline
}

// Flatten returns the plain-text projection of a Container with all
// markup tokens removed, used by the inline-parser-closure property
// (spec §8): parsing then flattening must reproduce the original text
// with its markup tokens removed.
func (c Container) Flatten() string {
	var out string
	for _, n := range c.Inlines {
		out += n.flatten()
	}
	return out
}

// Inline is any inline-level node.
type Inline interface {
	inlineTag()
	flatten() string
}

// Text is a run of literal text.
type Text struct{ Value string }

// StyleKind distinguishes the inline styling variants.
type StyleKind string

const (
	StyleBold      StyleKind = "bold"
	StyleItalic    StyleKind = "italic"
	StyleMono      StyleKind = "mono"
	StyleStrike    StyleKind = "strike"
	StyleHighlight StyleKind = "highlight"
	StyleSub       StyleKind = "sub"
	StyleSup       StyleKind = "sup"
)

// Styled is a nestable inline container carrying one style kind; this
// is the concrete form of the spec's "Emph/Strong/Code/Highlight/Sub/
// Sup are themselves inline containers".
type Styled struct {
	Kind    StyleKind
	Content Container
}

// Link is `[text](href)`.
type Link struct {
	Href string
	Text string
}

// Reference is a resolved or pending symbol cross-reference, e.g. from
// `@ref` or a backtick-quoted name; HasID reports whether pass A
// resolved it.
type Reference struct {
	SymbolID symbolid.ID
	HasID    bool
	Text     string
}

// CopyDetails is `@copydetails` rendered inline (used when a
// copy-directive target could not be expanded into blocks and is left
// as a visible cross-reference instead).
type CopyDetails struct {
	Target symbolid.ID
	HasID  bool
	Text   string
}

// Math is an inline math barrier, `\( ... \)` or `$ ... $`.
type Math struct{ Expression string }

// SoftBreak is a single newline that does not force a new line in
// rendered output.
type SoftBreak struct{}

// LineBreak is a forced line break (`<br>`, or two trailing spaces).
type LineBreak struct{}

// Image is `![alt](src)`.
type Image struct {
	Src string
	Alt string
}

func (*Text) inlineTag()        {}
func (*Styled) inlineTag()      {}
func (*Link) inlineTag()        {}
func (*Reference) inlineTag()   {}
func (*CopyDetails) inlineTag() {}
func (*Math) inlineTag()        {}
func (*SoftBreak) inlineTag()   {}
func (*LineBreak) inlineTag()   {}
func (*Image) inlineTag()       {}

func (t *Text) flatten() string  { return t.Value }
func (s *Styled) flatten() string { return s.Content.Flatten() }
func (l *Link) flatten() string  { return l.Text }
func (r *Reference) flatten() string { return r.Text }
func (c *CopyDetails) flatten() string { return c.Text }
func (m *Math) flatten() string  { return m.Expression }
func (*SoftBreak) flatten() string { return "\n" }
func (*LineBreak) flatten() string { return "\n" }
func (img *Image) flatten() string { return img.Alt }

// Brief returns the first Brief block's flattened text, or "" if the
// doc comment has none. Used by autosynthesis (spec §4.5.3) to decide
// whether a function already has a brief.
func (j *Javadoc) Brief() string {
	if j == nil {
		return ""
	}
	for _, b := range j.Blocks {
		if br, ok := b.(*Brief); ok {
			return br.Inlines.Flatten()
		}
	}
	return ""
}

// HasReturns reports whether the doc comment already has a @returns
// block.
func (j *Javadoc) HasReturns() bool {
	if j == nil {
		return false
	}
	for _, b := range j.Blocks {
		if _, ok := b.(*Returns); ok {
			return true
		}
	}
	return false
}

// Param blocks by parameter name, for validation (spec §4.5.4) and
// autosynthesis precedence (SPEC_FULL.md §D: explicit @param always
// wins).
func (j *Javadoc) ParamBlocks() []*Param {
	if j == nil {
		return nil
	}
	var out []*Param
	for _, b := range j.Blocks {
		if p, ok := b.(*Param); ok {
			out = append(out, p)
		}
	}
	return out
}
