package parser

import (
	"regexp"
	"strings"
)

// Block is a classified block of markdown. It's one of
// Heading, CodeBlock, Quote, UnorderedList, OrderedList or Paragraph.
type Block interface {
	block()
}

type Heading struct {
	Level   int // 1 to 6
	Content string
}

// CodeBlock is a fenced code block
type CodeBlock struct {
	Content string
}

type Quote struct {
	Content string
}

type UnorderedList struct {
	Items []string
}

// OrderedItem is an item of an ordered list. Index is kept as written in the source.
type OrderedItem struct {
	Index   string
	Content string
}

type OrderedList struct {
	Items []OrderedItem
}

type Paragraph struct {
	Content string
}

func (Heading) block()       {}
func (CodeBlock) block()     {}
func (Quote) block()         {}
func (UnorderedList) block() {}
func (OrderedList) block()   {}
func (Paragraph) block()     {}

var (
	headingPattern       = regexp.MustCompile(`^(#{1,6}) (.+)$`)
	codePattern          = regexp.MustCompile("(?s)^```\n(.*?)\n?```$")
	quotePattern         = regexp.MustCompile(`^> (.+)$`)
	unorderedItemPattern = regexp.MustCompile(`^[*-] (.+)$`)
	orderedItemPattern   = regexp.MustCompile(`^(\d+)\. (.+)$`)
)

// Segment splits a document into blocks separated by blank lines.
// Every line of a multiline block is trimmed, so indented documents produce clean blocks.
func Segment(document string) []string {
	blocks := []string{}

	for _, piece := range strings.Split(NormalizeNewlines(document), "\n\n") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if strings.Contains(piece, "\n") {
			lines := strings.Split(piece, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimSpace(line)
			}
			piece = strings.Join(lines, "\n")
		}
		blocks = append(blocks, piece)
	}

	return blocks
}

// Classify determines the type of a block and extracts its content.
// A block that doesn't look like anything else is a Paragraph.
func Classify(block string) Block {
	if m := headingPattern.FindStringSubmatch(block); m != nil {
		return Heading{Level: len(m[1]), Content: m[2]}
	}

	if m := codePattern.FindStringSubmatch(block); m != nil {
		return CodeBlock{Content: m[1]}
	}

	if m := quotePattern.FindStringSubmatch(block); m != nil {
		return Quote{Content: m[1]}
	}

	lines := strings.Split(block, "\n")

	if items, ok := matchLines(lines, unorderedItemPattern); ok {
		list := UnorderedList{Items: make([]string, 0, len(items))}
		for _, m := range items {
			list.Items = append(list.Items, m[1])
		}
		return list
	}

	if items, ok := matchLines(lines, orderedItemPattern); ok {
		list := OrderedList{Items: make([]OrderedItem, 0, len(items))}
		for _, m := range items {
			list.Items = append(list.Items, OrderedItem{Index: m[1], Content: m[2]})
		}
		return list
	}

	return Paragraph{Content: block}
}

// matchLines returns submatches of every line, ok is false if any line doesn't match
func matchLines(lines []string, re *regexp.Regexp) (matches [][]string, ok bool) {
	matches = make([][]string, 0, len(lines))
	for _, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return nil, false
		}
		matches = append(matches, m)
	}
	return matches, true
}

// NormalizeNewlines replaces CRLF and CR line endings with LF
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
