package parser

import (
	"fmt"
	"strconv"

	"github.com/flytaly/mdsite/pkg/htmlnode"
)

// RenderBlock converts a classified block into an HTML node
func RenderBlock(b Block) (htmlnode.Node, error) {
	switch b := b.(type) {
	case Heading:
		children, err := inlineNodes(b.Content)
		if err != nil {
			return nil, err
		}
		return htmlnode.NewParent("h"+strconv.Itoa(b.Level), children), nil

	case CodeBlock:
		// code content is literal, no inline parsing
		return htmlnode.NewParent("pre", []htmlnode.Node{htmlnode.NewLeaf("code", b.Content)}), nil

	case Quote:
		children, err := inlineNodes(b.Content)
		if err != nil {
			return nil, err
		}
		return htmlnode.NewParent("blockquote", children), nil

	case UnorderedList:
		items, err := listItems(b.Items)
		if err != nil {
			return nil, err
		}
		return htmlnode.NewParent("ul", items), nil

	case OrderedList:
		// numbering is done by the browser
		contents := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			contents = append(contents, item.Content)
		}
		items, err := listItems(contents)
		if err != nil {
			return nil, err
		}
		return htmlnode.NewParent("ol", items), nil

	case Paragraph:
		children, err := inlineNodes(b.Content)
		if err != nil {
			return nil, err
		}
		return htmlnode.NewParent("p", children), nil
	}

	return nil, fmt.Errorf("unknown block type %T", b)
}

func listItems(contents []string) ([]htmlnode.Node, error) {
	items := make([]htmlnode.Node, 0, len(contents))
	for _, content := range contents {
		children, err := inlineNodes(content)
		if err != nil {
			return nil, err
		}
		items = append(items, htmlnode.NewParent("li", children))
	}
	return items, nil
}

// inlineNodes tokenizes text and converts every span into a leaf
func inlineNodes(text string) ([]htmlnode.Node, error) {
	spans, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, span := range spans {
		nodes = append(nodes, SpanToLeaf(span))
	}
	return nodes, nil
}

// SpanToLeaf converts a text span into an HTML leaf
func SpanToLeaf(s TextSpan) htmlnode.Leaf {
	switch s.Kind {
	case Bold:
		return htmlnode.NewLeaf("b", s.Content)
	case Italic:
		return htmlnode.NewLeaf("i", s.Content)
	case Code:
		return htmlnode.NewLeaf("code", s.Content)
	case Link:
		return htmlnode.NewLeaf("a", s.Content, htmlnode.Attr("href", s.Target))
	case Image:
		return htmlnode.NewLeaf("img", "", htmlnode.Attr("src", s.Target), htmlnode.Attr("alt", s.Content))
	}
	return htmlnode.Text(s.Content)
}
