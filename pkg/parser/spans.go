package parser

import "fmt"

// SpanKind is a type of inline text
type SpanKind int

const (
	Plain SpanKind = iota
	Bold
	Italic
	Code
	Link
	Image
)

func (k SpanKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	}
	return "?"
}

// TextSpan is a contiguous run of inline text with a single style.
type TextSpan struct {
	Content string   // Text of the span. Clickable text for links, alt text for images
	Kind    SpanKind // Style of the span
	Target  string   // Destination of links and images, empty for other kinds
}

func PlainSpan(content string) TextSpan {
	return TextSpan{Content: content, Kind: Plain}
}

// StyledSpan creates a span of a kind that doesn't carry a destination
func StyledSpan(content string, kind SpanKind) TextSpan {
	return TextSpan{Content: content, Kind: kind}
}

func LinkSpan(text, url string) TextSpan {
	return TextSpan{Content: text, Kind: Link, Target: url}
}

func ImageSpan(alt, url string) TextSpan {
	return TextSpan{Content: alt, Kind: Image, Target: url}
}

// HasTarget reports whether span has a destination
func (s TextSpan) HasTarget() bool {
	return s.Kind == Link || s.Kind == Image
}

func (s TextSpan) String() string {
	if s.HasTarget() {
		return fmt.Sprintf("%s(%q, %q)", s.Kind, s.Content, s.Target)
	}
	return fmt.Sprintf("%s(%q)", s.Kind, s.Content)
}
