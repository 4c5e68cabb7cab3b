package parser

import (
	"regexp"
	"strings"
)

// Parsing of inline elements

var (
	imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	linkPattern  = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// Tokenize splits text of a block into styled spans.
// Spans are returned in the order they appear in the text.
func Tokenize(text string) ([]TextSpan, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	spans := []TextSpan{PlainSpan(text)}
	var err error
	// "**" must go before "*", otherwise bold markers would be taken for italic
	for _, d := range []struct {
		delimiter string
		kind      SpanKind
	}{
		{"**", Bold},
		{"*", Italic},
		{"`", Code},
	} {
		spans, err = splitDelimiter(spans, d.delimiter, d.kind)
		if err != nil {
			return nil, err
		}
	}

	// images go first so the link pattern can't match the tail of an image
	spans = splitPattern(spans, imagePattern, ImageSpan)
	spans = splitPattern(spans, linkPattern, LinkSpan)

	return spans, nil
}

// splitDelimiter splits plain spans by the delimiter. Text between a pair of
// delimiters becomes a span of the given kind.
func splitDelimiter(spans []TextSpan, delimiter string, kind SpanKind) ([]TextSpan, error) {
	result := make([]TextSpan, 0, len(spans))

	for _, span := range spans {
		if span.Kind != Plain {
			result = append(result, span)
			continue
		}
		if strings.Count(span.Content, delimiter)%2 != 0 {
			return nil, &UnbalancedDelimiterError{Delimiter: delimiter}
		}
		for i, part := range strings.Split(span.Content, delimiter) {
			if i%2 == 0 {
				if part != "" {
					result = append(result, PlainSpan(part))
				}
				continue
			}
			// empty styled spans are kept, e.g. "``" is an empty code span
			result = append(result, StyledSpan(part, kind))
		}
	}

	return result, nil
}

// splitPattern extracts spans matched by re from plain spans.
// re must have two groups: text and destination.
func splitPattern(spans []TextSpan, re *regexp.Regexp, newSpan func(text, url string) TextSpan) []TextSpan {
	result := make([]TextSpan, 0, len(spans))

	for _, span := range spans {
		if span.Kind != Plain {
			result = append(result, span)
			continue
		}

		text := span.Content
		matches := re.FindAllStringSubmatchIndex(text, -1)
		if len(matches) == 0 {
			result = append(result, span)
			continue
		}

		last := 0
		for _, m := range matches {
			if m[0] > last {
				result = append(result, PlainSpan(text[last:m[0]]))
			}
			result = append(result, newSpan(text[m[2]:m[3]], text[m[4]:m[5]]))
			last = m[1]
		}
		if last < len(text) {
			result = append(result, PlainSpan(text[last:]))
		}
	}

	return result
}
