package page

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoTitle = errors.New("document has no h1 heading")

var titlePattern = regexp.MustCompile(`^# (.+)$`)

// ExtractTitle returns text of the first level 1 heading.
// Lines inside of fenced code blocks are skipped.
func ExtractTitle(markdown string) (string, error) {
	inCode := false
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if m := titlePattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), nil
		}
	}
	return "", ErrNoTitle
}
