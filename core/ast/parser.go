package ast

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser converts JavaScript source into the typed tree. A Parser is not
// safe for concurrent use.
type Parser struct {
	p *sitter.Parser
}

func NewParser() (*Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(sitter.NewLanguage(javascript.Language())); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to load javascript grammar: %w", err)
	}
	return &Parser{p: p}, nil
}

func (p *Parser) Close() {
	if p.p != nil {
		p.p.Close()
		p.p = nil
	}
}

func (p *Parser) Parse(src []byte) (*Program, error) {
	if p.p == nil {
		return nil, fmt.Errorf("parser is closed")
	}
	tree := p.p.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}
	defer tree.Close()

	root := tree.RootNode()
	prog := &Program{HasErrors: root.HasError()}
	prog.pos = position(root)

	c := converter{src: src}
	c.children(prog, root)
	return prog, nil
}

// Parse is a one-shot convenience around NewParser.
func Parse(src []byte) (*Program, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(src)
}

func position(n *sitter.Node) Position {
	pt := n.StartPosition()
	return Position{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

type converter struct {
	src []byte
}

func (c *converter) children(parent Node, n *sitter.Node) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		adopt(parent, c.convert(n.NamedChild(i)))
	}
}

func (c *converter) convert(n *sitter.Node) Node {
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case "identifier", "property_identifier", "private_property_identifier", "shorthand_property_identifier":
		id := &Identifier{Name: n.Utf8Text(c.src)}
		id.pos = position(n)
		return id

	case "member_expression":
		m := &MemberExpression{}
		m.pos = position(n)
		m.Object = adopt(m, c.convert(n.ChildByFieldName("object")))
		m.Property = adopt(m, c.convert(n.ChildByFieldName("property")))
		return m

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args != nil && args.Kind() != "arguments" {
			// fn`...` is a tagged template, not a call
			o := &Other{Kind: "tagged_template_expression"}
			o.pos = position(n)
			c.children(o, n)
			return o
		}
		call := &CallExpression{}
		call.pos = position(n)
		call.Callee = adopt(call, c.convert(n.ChildByFieldName("function")))
		if args == nil {
			return call
		}
		for i := uint(0); i < args.NamedChildCount(); i++ {
			a := args.NamedChild(i)
			if a.Kind() == "comment" {
				continue
			}
			if arg := adopt(call, c.convert(a)); arg != nil {
				call.Arguments = append(call.Arguments, arg)
			}
		}
		return call

	case "string":
		lit := &Literal{Kind: StringLiteral, Value: c.stringValue(n)}
		lit.pos = position(n)
		return lit

	case "template_string":
		if !hasChildKind(n, "template_substitution") {
			lit := &Literal{Kind: StringLiteral, Value: c.stringValue(n)}
			lit.pos = position(n)
			return lit
		}

	case "number":
		lit := &Literal{Kind: NumberLiteral, Value: n.Utf8Text(c.src)}
		lit.pos = position(n)
		return lit
	}

	o := &Other{Kind: n.Kind()}
	o.pos = position(n)
	c.children(o, n)
	return o
}

func hasChildKind(n *sitter.Node, kind string) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if n.NamedChild(i).Kind() == kind {
			return true
		}
	}
	return false
}

func (c *converter) stringValue(n *sitter.Node) string {
	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(child.Utf8Text(c.src))
		case "escape_sequence":
			sb.WriteString(unescape(child.Utf8Text(c.src)))
		}
	}
	return sb.String()
}

func unescape(seq string) string {
	switch seq {
	case `\'`:
		return "'"
	case "\\`":
		return "`"
	case `\0`:
		return "\x00"
	}
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	return strings.TrimPrefix(seq, `\`)
}
