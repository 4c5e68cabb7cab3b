package page

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Reference is a link to another resource found in a generated page
type Reference struct {
	Tag string // "img" or "a"
	URL string // value of src or href
}

// IsLocal reports whether reference points to a file of the site
func (r Reference) IsLocal() bool {
	if r.URL == "" || strings.HasPrefix(r.URL, "#") || strings.HasPrefix(r.URL, "//") {
		return false
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// Path returns the decoded path part of a local reference
func (r Reference) Path() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}
	return u.Path
}

func extractImgAndLinks(nodes []*html.Node) []*html.Node {
	result := make([]*html.Node, 0)
	slices.Reverse(nodes)
	for stack := nodes; len(stack) > 0; {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.DataAtom == atom.Img || node.DataAtom == atom.A {
			result = append(result, node)
		}
		// keep descending, <a> may wrap an <img>
		for child := node.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
	return result
}

// References returns images and links of an HTML fragment in document order
func References(fragment string) []Reference {
	fakeBody := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), fakeBody)
	if err != nil {
		return nil
	}

	refs := []Reference{}
	for _, node := range extractImgAndLinks(nodes) {
		key := "href"
		if node.DataAtom == atom.Img {
			key = "src"
		}
		for _, attr := range node.Attr {
			if attr.Key == key && attr.Val != "" {
				refs = append(refs, Reference{Tag: node.Data, URL: attr.Val})
			}
		}
	}
	return refs
}
