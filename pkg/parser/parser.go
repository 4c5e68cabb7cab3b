/*
Package parser converts a restricted dialect of markdown into a tree of HTML nodes.

A document is split into blocks separated by blank lines. Every block is
classified by its leading syntax (heading, fenced code, quote, list or
paragraph), then its text is split into inline spans (bold, italic, code,
links and images) and rendered into htmlnode.Node.
*/
package parser

import (
	"fmt"

	"github.com/flytaly/mdsite/pkg/htmlnode"
	"golang.org/x/sync/errgroup"
)

type Parser struct {
	workers int
}

type Option func(*Parser)

// WithWorkers sets the number of goroutines that render blocks.
// Values below 2 render blocks sequentially.
func WithWorkers(n int) Option {
	return func(p *Parser) {
		p.workers = n
	}
}

// New creates a markdown parser
func New(options ...Option) *Parser {
	p := &Parser{workers: 1}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse converts markdown document into a list of nodes, one per block,
// in the order of blocks in the document.
func (p *Parser) Parse(markdown string) ([]htmlnode.Node, error) {
	blocks := Segment(markdown)
	nodes := make([]htmlnode.Node, len(blocks))

	if p.workers < 2 || len(blocks) < 2 {
		for i, block := range blocks {
			node, err := renderRaw(i, block)
			if err != nil {
				return nil, err
			}
			nodes[i] = node
		}
		return nodes, nil
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			node, err := renderRaw(i, block)
			if err != nil {
				return err
			}
			nodes[i] = node // each goroutine owns its own index
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ParseDocument converts markdown document into a list of nodes sequentially
func ParseDocument(markdown string) ([]htmlnode.Node, error) {
	return New().Parse(markdown)
}

func renderRaw(i int, block string) (htmlnode.Node, error) {
	node, err := RenderBlock(Classify(block))
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", i+1, err)
	}
	return node, nil
}
