// Package idexpr parses the C++ id-expression grammar shared by the
// reference resolver (spec §4.2) and the symbol-lookup engine (spec
// §4.7): a nested-name-specifier sequence of components, each an
// identifier (or an operator-function-id, conversion-function-id, or
// decltype-specifier) optionally followed by a template-argument list,
// a function parameter list, cv/ref qualifiers, and a noexcept clause.
package idexpr

import (
	"fmt"
	"strings"
)

// Component is one `::`-separated segment of an id-expression.
type Component struct {
	// Identifier is the component's name, or the written operator
	// token (e.g. "operator==", "operator new[]") for operator
	// components, or the decltype specifier's text for a Decltype
	// component.
	Identifier string
	IsOperator bool
	IsDecltype bool
	IsTemplate bool // preceded by the `template` disambiguation keyword

	// TemplateArgs holds the raw written forms between a balanced
	// `<...>` pair, split on top-level commas. Nil when this component
	// has no template-argument list.
	TemplateArgs []string
	HasTemplateArgs bool

	// Params holds the raw written forms of a balanced `(...)`
	// parameter list, used to disambiguate an overload, split on
	// top-level commas. Nil when absent.
	Params []string
	HasParams bool

	Qualifiers []string // any of "const", "volatile", "&", "&&"
	Noexcept   string   // raw noexcept clause text, "" if absent
	HasNoexcept bool
}

// Expression is a full parsed id-expression.
type Expression struct {
	LeadingGlobal bool // started with `::`
	Components    []Component
}

// Options controls optional parser features. AllowWildcards permits
// `*` inside an identifier component, per spec §4.2 ("Wildcards (*)
// in identifiers may optionally be permitted").
type Options struct {
	AllowWildcards bool
}

// Parse parses s as an id-expression. Empty or whitespace-only input
// returns an error so callers can distinguish "nothing to resolve"
// from "resolved nothing". A component that cannot be parsed (for
// example a trailing `::` with no identifier after it) also returns an
// error, together with the components parsed before it. Text left over
// after the last component is ignored.
func Parse(s string) (Expression, error) {
	return ParseOpts(s, Options{})
}

// ParseOpts is Parse with explicit Options.
func ParseOpts(s string, opts Options) (Expression, error) {
	p := &parser{src: s, opts: opts}
	return p.parse()
}

type parser struct {
	src  string
	pos  int
	opts Options
}

func (p *parser) parse() (Expression, error) {
	s := strings.TrimSpace(p.src)
	if s == "" {
		return Expression{}, fmt.Errorf("idexpr: empty expression")
	}
	p.src = s
	p.pos = 0

	var expr Expression
	if p.hasPrefix("::") {
		expr.LeadingGlobal = true
		p.pos += 2
	}

	for {
		p.skipSpace()
		comp, err := p.parseComponent()
		if err != nil {
			return expr, err
		}
		expr.Components = append(expr.Components, comp)
		p.skipSpace()
		if p.hasPrefix("::") {
			p.pos += 2
			continue
		}
		break
	}
	return expr, nil
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func (p *parser) parseComponent() (Component, error) {
	var c Component

	// `template` disambiguation keyword.
	if p.hasKeyword("template") {
		c.IsTemplate = true
		p.pos += len("template")
		p.skipSpace()
	}
	// `typename` keyword is accepted and simply consumed; it carries
	// no semantic weight for resolution once parsed out.
	if p.hasKeyword("typename") {
		p.pos += len("typename")
		p.skipSpace()
	}

	switch {
	case p.hasKeyword("decltype"):
		c.IsDecltype = true
		p.pos += len("decltype")
		p.skipSpace()
		expr, err := p.parseBalanced('(', ')')
		if err != nil {
			return c, err
		}
		c.Identifier = "decltype(" + expr + ")"
	case p.hasKeyword("operator"):
		c.IsOperator = true
		op, err := p.parseOperatorToken()
		if err != nil {
			return c, err
		}
		c.Identifier = "operator" + op
	default:
		id, err := p.parseIdentifier()
		if err != nil {
			return c, err
		}
		c.Identifier = id
	}

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		if args, ok := p.tryParseTemplateArgs(); ok {
			c.HasTemplateArgs = true
			c.TemplateArgs = args
		}
	}

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		raw, err := p.parseBalanced('(', ')')
		if err == nil {
			c.HasParams = true
			c.Params = splitTopLevel(raw)
		}
	}

	p.skipSpace()
	for {
		switch {
		case p.hasKeyword("const"):
			c.Qualifiers = append(c.Qualifiers, "const")
			p.pos += len("const")
		case p.hasKeyword("volatile"):
			c.Qualifiers = append(c.Qualifiers, "volatile")
			p.pos += len("volatile")
		case p.hasPrefix("&&"):
			c.Qualifiers = append(c.Qualifiers, "&&")
			p.pos += 2
		case p.hasPrefix("&"):
			c.Qualifiers = append(c.Qualifiers, "&")
			p.pos += 1
		default:
			goto doneQualifiers
		}
		p.skipSpace()
	}
doneQualifiers:

	p.skipSpace()
	if p.hasKeyword("noexcept") {
		start := p.pos
		p.pos += len("noexcept")
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '(' {
			if _, err := p.parseBalanced('(', ')'); err != nil {
				return c, err
			}
		}
		c.HasNoexcept = true
		c.Noexcept = strings.TrimSpace(p.src[start:p.pos])
	}

	return c, nil
}

func (p *parser) hasKeyword(kw string) bool {
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	after := p.pos + len(kw)
	if after < len(p.src) && (isIdentRune(rune(p.src[after]))) {
		return false
	}
	return true
}

func (p *parser) parseIdentifier() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if isIdentRune(r) || (p.opts.AllowWildcards && r == '*') {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", fmt.Errorf("idexpr: expected identifier at position %d in %q", start, p.src)
	}
	return p.src[start:p.pos], nil
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '~'
}

// parseOperatorToken parses the token(s) following the `operator`
// keyword: multi-character operators, `new[]`/`delete[]`, and falls
// back to treating the remainder up to `(` or `<` as a conversion-
// function-id (e.g. `operator bool`, `operator std::string`).
func (p *parser) parseOperatorToken() (string, error) {
	p.pos += len("operator")
	p.skipSpace()

	multiCharOps := []string{
		"<=>", "->*", "->", "==", "!=", "<=", ">=", "&&", "||", "<<=", ">>=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "++", "--",
		"()", "[]",
		"+", "-", "*", "/", "%", "^", "&", "|", "~", "!", "<", ">", "=", ",",
	}
	rest := p.src[p.pos:]
	if strings.HasPrefix(rest, "new") || strings.HasPrefix(rest, "delete") {
		kw := "new"
		if strings.HasPrefix(rest, "delete") {
			kw = "delete"
		}
		p.pos += len(kw)
		p.skipSpace()
		if p.hasPrefix("[]") {
			p.pos += 2
			return " " + kw + "[]", nil
		}
		return " " + kw, nil
	}
	if strings.HasPrefix(rest, "co_await") {
		p.pos += len("co_await")
		return " co_await", nil
	}
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			p.pos += len(op)
			return op, nil
		}
	}
	// Conversion-function-id: `operator <type-id>`, read up to the
	// next top-level `(` or end.
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '(':
			if depth == 0 {
				goto doneConv
			}
		}
		p.pos++
	}
doneConv:
	return " " + strings.TrimSpace(p.src[start:p.pos]), nil
}

// parseBalanced consumes a balanced open/close pair starting at the
// current position (which must be `open`) and returns the content
// between them.
func (p *parser) parseBalanced(open, close byte) (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != open {
		return "", fmt.Errorf("idexpr: expected %q at position %d", open, p.pos)
	}
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.pos++
				return p.src[start+1 : p.pos-1], nil
			}
		}
		p.pos++
	}
	return "", fmt.Errorf("idexpr: unbalanced %q/%q starting at %d", open, close, start)
}

// tryParseTemplateArgs attempts to parse a balanced `<...>` template-
// argument list starting at the current position. It is a "try"
// because a bare `<` may be a less-than operator in contexts this
// parser does not disambiguate with full type information; on
// mismatch it restores position and reports failure, leaving the `<`
// for the caller to treat as ordinary text.
func (p *parser) tryParseTemplateArgs() ([]string, bool) {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				raw := p.src[start+1 : p.pos]
				p.pos++
				return splitTopLevel(raw), true
			}
			if depth < 0 {
				p.pos = start
				return nil, false
			}
		case ';':
			p.pos = start
			return nil, false
		}
		p.pos++
	}
	p.pos = start
	return nil, false
}

// splitTopLevel splits s on commas that are not nested inside
// `<>`/`()`/`[]`, and trims whitespace from each piece. An
// all-whitespace input yields no pieces (e.g. an empty parameter
// list).
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				piece := strings.TrimSpace(s[start:i])
				if piece != "" {
					out = append(out, piece)
				}
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// SplitTopLevel splits s on commas that are not nested inside
// `<>`/`()`/`[]`, trimming whitespace from each piece. Exposed for
// callers that need to re-split an already-captured balanced argument
// list, such as the lookup engine's textual SFINAE-alias unwrap.
func SplitTopLevel(s string) []string {
	return splitTopLevel(s)
}

// Leaf returns the last component of a parsed expression, or a zero
// Component if the expression is empty.
func (e Expression) Leaf() Component {
	if len(e.Components) == 0 {
		return Component{}
	}
	return e.Components[len(e.Components)-1]
}
