package naming

import (
	"fmt"
	"strings"
	"unicode"

	"bibfile/internal/domain"
)

type node interface {
	render(entry domain.Entry, db *domain.Database, b *strings.Builder)
}

type textNode string

func (n textNode) render(_ domain.Entry, _ *domain.Database, b *strings.Builder) {
	b.WriteString(string(n))
}

type fieldNode struct {
	name       string
	formatters []Formatter
}

func (n fieldNode) render(entry domain.Entry, db *domain.Database, b *strings.Builder) {
	b.WriteString(n.value(entry, db))
}

func (n fieldNode) value(entry domain.Entry, db *domain.Database) string {
	value, _ := entry.Field(n.name)
	value = db.Resolve(value)
	for _, f := range n.formatters {
		value = f(value)
	}
	return value
}

type blockNode struct {
	field    string
	children []node
}

func (n blockNode) render(entry domain.Entry, db *domain.Database, b *strings.Builder) {
	if value, ok := entry.Field(n.field); !ok || strings.TrimSpace(db.Resolve(value)) == "" {
		return
	}
	for _, child := range n.children {
		child.render(entry, db, b)
	}
}

// Layout is a parsed pattern. It is immutable and safe for concurrent use.
type Layout struct {
	nodes []node
}

// Render produces the text for entry. db may be nil.
func (l *Layout) Render(entry domain.Entry, db *domain.Database) string {
	var b strings.Builder
	for _, n := range l.nodes {
		n.render(entry, db, &b)
	}
	return b.String()
}

// SyntaxError reports where a pattern could not be parsed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("layout: %s at offset %d", e.Msg, e.Pos)
}

// Parse compiles pattern into a Layout.
func Parse(pattern string) (*Layout, error) {
	p := parser{src: []rune(pattern)}
	nodes, err := p.parseUntil("")
	if err != nil {
		return nil, err
	}
	return &Layout{nodes: nodes}, nil
}

type parser struct {
	src []rune
	pos int
}

// parseUntil consumes nodes until \end{field} closes the enclosing block, or
// until the input ends when field is empty.
func (p *parser) parseUntil(field string) ([]node, error) {
	var nodes []node
	var text strings.Builder
	flushText := func() {
		if text.Len() > 0 {
			nodes = append(nodes, textNode(text.String()))
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if r != '\\' {
			text.WriteRune(r)
			p.pos++
			continue
		}

		start := p.pos
		p.pos++
		if p.pos < len(p.src) && p.src[p.pos] == '\\' {
			text.WriteRune('\\')
			p.pos++
			continue
		}

		name := p.ident()
		if name == "" {
			return nil, &SyntaxError{Pos: start, Msg: "expected command name after backslash"}
		}
		flushText()

		switch strings.ToLower(name) {
		case "begin":
			inner, err := p.braced()
			if err != nil {
				return nil, err
			}
			children, err := p.parseUntil(inner)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, blockNode{field: strings.ToLower(inner), children: children})
		case "end":
			inner, err := p.braced()
			if err != nil {
				return nil, err
			}
			if field == "" || !strings.EqualFold(inner, field) {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unexpected \\end{%s}", inner)}
			}
			return nodes, nil
		case "format":
			n, err := p.format(start)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			nodes = append(nodes, fieldNode{name: strings.ToLower(name)})
		}
	}

	if field != "" {
		return nil, &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("missing \\end{%s}", field)}
	}
	flushText()
	return nodes, nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && unicode.IsLetter(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) delimited(open, close rune) (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != open {
		return "", &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("expected %q", open)}
	}
	end := p.pos + 1
	for end < len(p.src) && p.src[end] != close {
		end++
	}
	if end >= len(p.src) {
		return "", &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("missing %q", close)}
	}
	inner := string(p.src[p.pos+1 : end])
	p.pos = end + 1
	return strings.TrimSpace(inner), nil
}

func (p *parser) braced() (string, error) {
	inner, err := p.delimited('{', '}')
	if err != nil {
		return "", err
	}
	if inner == "" {
		return "", &SyntaxError{Pos: p.pos, Msg: "empty field name"}
	}
	return inner, nil
}

// format parses the remainder of \format[F1,F2]{\field}.
func (p *parser) format(start int) (node, error) {
	list, err := p.delimited('[', ']')
	if err != nil {
		return nil, err
	}
	var formatters []Formatter
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := LookupFormatter(name)
		if !ok {
			return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unknown formatter %q", name)}
		}
		formatters = append(formatters, f)
	}

	inner, err := p.braced()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(inner, `\`) || len(inner) < 2 {
		return nil, &SyntaxError{Pos: start, Msg: "\\format expects {\\field}"}
	}
	return fieldNode{name: strings.ToLower(inner[1:]), formatters: formatters}, nil
}
