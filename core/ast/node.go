// Package ast is a small typed syntax tree for compiled JavaScript assets.
//
// Only the shapes the asset scanner cares about get their own node type;
// everything else is an *Other carrying the grammar kind. Every node knows
// its parent.
package ast

type Position struct {
	Line   int
	Column int
}

type Node interface {
	Parent() Node
	Children() []Node
	Pos() Position

	base() *nodeBase
}

type nodeBase struct {
	parent   Node
	children []Node
	pos      Position
}

func (b *nodeBase) Parent() Node     { return b.parent }
func (b *nodeBase) Children() []Node { return b.children }
func (b *nodeBase) Pos() Position    { return b.pos }
func (b *nodeBase) base() *nodeBase  { return b }

// Program is the root of a parsed asset.
type Program struct {
	nodeBase
	// HasErrors is set when the parser had to recover from syntax errors.
	HasErrors bool
}

// Identifier covers plain identifiers and property names.
type Identifier struct {
	nodeBase
	Name string
}

// MemberExpression is a dotted property access, object.property.
type MemberExpression struct {
	nodeBase
	Object   Node
	Property Node
}

type CallExpression struct {
	nodeBase
	Callee    Node
	Arguments []Node
}

type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
)

type Literal struct {
	nodeBase
	Kind  LiteralKind
	Value string
}

// Other is any node without a dedicated type.
type Other struct {
	nodeBase
	Kind string
}

func adopt(parent Node, child Node) Node {
	if child == nil {
		return nil
	}
	child.base().parent = parent
	pb := parent.base()
	pb.children = append(pb.children, child)
	return child
}
