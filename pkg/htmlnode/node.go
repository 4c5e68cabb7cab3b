/*
Package htmlnode implements a tree of HTML elements that knows how to serialize itself.

There are two kinds of nodes: Leaf, which holds text, and Parent, which holds
other nodes. A tree is built once and never modified afterwards.
*/
package htmlnode

import (
	"fmt"
	"strings"
)

// Node is either a Leaf or a Parent
type Node interface {
	// Render serializes the node and its descendants to HTML
	Render() (string, error)
	RenderAttributes() string
	String() string

	node()
}

// Leaf is a type of node that cannot have children
type Leaf struct {
	Tag   string  // empty tag renders Text as is
	Text  *string // nil means the node has no value
	Attrs Attributes
}

// Parent is a node that wraps its children with a tag
type Parent struct {
	Tag      string
	Children []Node
	Attrs    Attributes
}

func (Leaf) node()   {}
func (Parent) node() {}

// Text creates a leaf without a tag, which renders as raw text
func Text(s string) Leaf {
	return Leaf{Text: &s}
}

func NewLeaf(tag, text string, attrs ...Attribute) Leaf {
	return Leaf{Tag: tag, Text: &text, Attrs: attrs}
}

// NewVoidLeaf creates a leaf without value, such as <img>
func NewVoidLeaf(tag string, attrs ...Attribute) Leaf {
	return Leaf{Tag: tag, Attrs: attrs}
}

func NewParent(tag string, children []Node, attrs ...Attribute) Parent {
	return Parent{Tag: tag, Children: children, Attrs: attrs}
}

func (l Leaf) RenderAttributes() string {
	return l.Attrs.Render()
}

func (l Leaf) Render() (string, error) {
	if l.Tag == "img" {
		return "<img" + l.RenderAttributes() + ">", nil
	}
	if l.Text == nil {
		return "", ErrMissingValue
	}
	if l.Tag == "" {
		return *l.Text, nil
	}
	return "<" + l.Tag + l.RenderAttributes() + ">" + *l.Text + "</" + l.Tag + ">", nil
}

func (l Leaf) String() string {
	text := "<nil>"
	if l.Text != nil {
		text = fmt.Sprintf("%q", *l.Text)
	}
	return fmt.Sprintf("Leaf(%q, %s, %s)", l.Tag, text, attrsString(l.Attrs))
}

func (p Parent) RenderAttributes() string {
	return p.Attrs.Render()
}

func (p Parent) Render() (string, error) {
	if p.Tag == "" {
		return "", ErrMissingTag
	}
	if len(p.Children) == 0 {
		return "", ErrMissingChildren
	}

	var b strings.Builder
	b.WriteString("<" + p.Tag + p.RenderAttributes() + ">")
	for _, child := range p.Children {
		if child == nil {
			return "", fmt.Errorf("<%s>: nil child: %w", p.Tag, ErrMissingValue)
		}
		html, err := child.Render()
		if err != nil {
			return "", fmt.Errorf("<%s>: %w", p.Tag, err)
		}
		b.WriteString(html)
	}
	b.WriteString("</" + p.Tag + ">")
	return b.String(), nil
}

func (p Parent) String() string {
	children := make([]string, 0, len(p.Children))
	for _, c := range p.Children {
		if c == nil {
			children = append(children, "<nil>")
			continue
		}
		children = append(children, c.String())
	}
	return fmt.Sprintf("Parent(%q, [%s], %s)", p.Tag, strings.Join(children, ", "), attrsString(p.Attrs))
}

// Equal reports whether two trees are structurally identical
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Leaf:
		y, ok := b.(Leaf)
		return ok && x.Tag == y.Tag && equalPtr(x.Text, y.Text) && x.Attrs.equal(y.Attrs)
	case Parent:
		y, ok := b.(Parent)
		if !ok || x.Tag != y.Tag || !x.Attrs.equal(y.Attrs) || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}

// RenderAll renders sibling nodes and joins them with sep.
// Errors name the failed node by its position counted from 1.
func RenderAll(nodes []Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for i, n := range nodes {
		html, err := n.Render()
		if err != nil {
			return "", fmt.Errorf("node %d: %w", i+1, err)
		}
		parts = append(parts, html)
	}
	return strings.Join(parts, sep), nil
}

func attrsString(attrs Attributes) string {
	if len(attrs) == 0 {
		return "{}"
	}
	pairs := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.Value == nil {
			pairs = append(pairs, a.Key)
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%q", a.Key, *a.Value))
	}
	return "{" + strings.Join(pairs, " ") + "}"
}
