/*
Package page turns markdown files into HTML pages using a template.

A template is plain HTML with two placeholders: {{ Title }} and {{ Content }}.
*/
package page

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/flytaly/mdsite/pkg/htmlnode"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/flytaly/mdsite/pkg/parser"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"

	MarkdownExt = ".md"
	HTMLExt     = ".html"
)

// Page is a rendered markdown document
type Page struct {
	Title   string
	Content string // HTML of all blocks joined with a newline
	Meta    Meta
}

// Meta is an optional front matter of a document
type Meta struct {
	Title string         `yaml:"title" toml:"title" json:"title"`
	Extra map[string]any `yaml:",inline"`
}

type Generator struct {
	parser  *parser.Parser
	log     log.Logger
	workers int
}

type Option func(*Generator)

func WithLogger(l log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithParser replaces the default sequential parser
func WithParser(p *parser.Parser) Option {
	return func(g *Generator) {
		if p != nil {
			g.parser = p
		}
	}
}

// WithWorkers sets how many pages are generated at the same time
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

func New(options ...Option) *Generator {
	g := &Generator{
		parser:  parser.New(),
		log:     log.NewEmptyLog(),
		workers: 1,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Render converts markdown into a page. Title is taken from the front matter,
// if there is one, otherwise from the first h1 heading.
func (g *Generator) Render(markdown []byte) (Page, error) {
	meta, body, err := splitFrontMatter(markdown)
	if err != nil {
		return Page{}, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title, err = ExtractTitle(string(body))
		if err != nil {
			return Page{}, err
		}
	}

	content, err := g.render(body)
	if err != nil {
		return Page{}, err
	}

	return Page{Title: title, Content: content, Meta: meta}, nil
}

// RenderContent returns HTML of the markdown without front matter.
// Unlike Render it doesn't require a title.
func (g *Generator) RenderContent(markdown []byte) (string, error) {
	_, body, err := splitFrontMatter(markdown)
	if err != nil {
		return "", err
	}
	return g.render(body)
}

func (g *Generator) render(body []byte) (string, error) {
	nodes, err := g.parser.Parse(string(body))
	if err != nil {
		return "", err
	}
	return htmlnode.RenderAll(nodes, "\n")
}

func splitFrontMatter(markdown []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(markdown), &meta)
	if err != nil {
		return meta, nil, errors.Wrap(err, "front matter")
	}
	return meta, body, nil
}

// Apply substitutes placeholders of the template with the page's title and content
func Apply(tmpl string, p Page) string {
	return strings.NewReplacer(TitlePlaceholder, p.Title, ContentPlaceholder, p.Content).Replace(tmpl)
}

// GeneratePage renders the markdown file src with the template file and writes result to dest
func (g *Generator) GeneratePage(src, tmplPath, dest string) error {
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return errors.Wrap(err, "read template")
	}
	return g.generate(src, string(tmpl), dest)
}

func (g *Generator) generate(src, tmpl, dest string) error {
	g.log.Debug("Generating page from %s to %s", src, dest)

	data, err := os.ReadFile(src)
	if err != nil {
		return errors.WithStack(err)
	}

	p, err := g.Render(data)
	if err != nil {
		return errors.Wrapf(err, "render %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(dest, []byte(Apply(tmpl, p)), 0o644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// GenerateTree generates a page for every markdown file inside contentDir.
// Pages are written into destDir keeping relative paths, e.g.
// content/blog/post.md becomes public/blog/post.html.
// It returns paths of generated pages in the walk order.
func (g *Generator) GenerateTree(ctx context.Context, contentDir, tmplPath, destDir string) ([]string, error) {
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return nil, errors.Wrap(err, "read template")
	}

	sources, err := markdownFiles(contentDir)
	if err != nil {
		return nil, err
	}

	pages := make([]string, len(sources))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, rel := range sources {
		i, rel := i, rel
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dest := filepath.Join(destDir, strings.TrimSuffix(rel, filepath.Ext(rel))+HTMLExt)
			if err := g.generate(filepath.Join(contentDir, rel), string(tmpl), dest); err != nil {
				g.log.Error("Couldn't generate %s: %v", rel, err)
				return err
			}
			pages[i] = dest
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// Hidden reports whether a file or directory with that name is left out of the site
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// markdownFiles returns paths of markdown files relative to root
func markdownFiles(root string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && Hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), MarkdownExt) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return files, nil
}
