/*
Package builder builds a static site: it copies the static directory into
the public one and generates a page for every markdown file of the content
directory.
*/
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/flytaly/mdsite/pkg/config"
	"github.com/flytaly/mdsite/pkg/dirsync"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/flytaly/mdsite/pkg/page"
	"github.com/flytaly/mdsite/pkg/parser"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Report describes a finished build
type Report struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration
	Static   dirsync.Stats
	Pages    []string
	Bytes    int64    // total size of generated pages
	Warnings []string // references that don't resolve inside the public dir
}

// Summary returns a one-line human readable description of the report
func (r Report) Summary() string {
	s := fmt.Sprintf("build %s: %s (%s), %s (%s) in %s",
		shortID(r.ID),
		english.Plural(len(r.Pages), "page", ""),
		humanize.Bytes(uint64(r.Bytes)),
		english.Plural(r.Static.Files, "static file", ""),
		humanize.Bytes(uint64(r.Static.Bytes)),
		r.Duration.Round(time.Millisecond),
	)
	if len(r.Warnings) > 0 {
		s += ", " + english.Plural(len(r.Warnings), "warning", "")
	}
	return s
}

func shortID(id uuid.UUID) string {
	return strings.SplitN(id.String(), "-", 2)[0]
}

type Builder struct {
	cfg *config.Config
	gen *page.Generator
	log log.Logger
	now func() time.Time

	mu      sync.Mutex // one build at a time
	rebuild chan struct{}
}

func New(cfg *config.Config, logger log.Logger) *Builder {
	if logger == nil {
		logger = log.NewEmptyLog()
	}
	gen := page.New(
		page.WithLogger(logger),
		page.WithWorkers(cfg.Workers),
		page.WithParser(parser.New(parser.WithWorkers(cfg.Workers))),
	)
	return &Builder{
		cfg:     cfg,
		gen:     gen,
		log:     logger,
		now:     time.Now,
		rebuild: make(chan struct{}, 1),
	}
}

// Build syncs the static directory into the public one and generates all pages.
// A missing static directory only produces a warning.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := Report{ID: uuid.New(), Started: b.now()}
	if err := b.cfg.Validate(); err != nil {
		return r, err
	}
	b.log.Info("Build %s started", shortID(r.ID))

	if err := os.MkdirAll(b.cfg.PublicDir, 0o755); err != nil {
		return r, errors.Wrap(err, "create public dir")
	}

	stats, err := dirsync.Sync(b.cfg.StaticDir, b.cfg.PublicDir)
	switch {
	case errors.Is(err, dirsync.ErrInvalidPath) && !exists(b.cfg.StaticDir):
		b.log.Warning("Static directory %s doesn't exist", b.cfg.StaticDir)
		if err := dirsync.Clean(b.cfg.PublicDir); err != nil {
			return r, err
		}
	case err != nil:
		return r, err
	}
	r.Static = stats
	b.log.Debug("Copied %d files from %s", stats.Files, b.cfg.StaticDir)

	pages, err := b.gen.GenerateTree(ctx, b.cfg.ContentDir, b.cfg.Template, b.cfg.PublicDir)
	if err != nil {
		return r, err
	}
	r.Pages = pages

	for _, p := range pages {
		size, warnings, err := b.checkPage(p)
		if err != nil {
			return r, err
		}
		r.Bytes += size
		for _, w := range warnings {
			b.log.Warning("%s", w)
		}
		r.Warnings = append(r.Warnings, warnings...)
	}

	r.Duration = b.now().Sub(r.Started)
	b.log.Info("%s", r.Summary())
	return r, nil
}

// checkPage returns size of the generated page and warnings about its
// local references that don't exist
func (b *Builder) checkPage(pagePath string) (int64, []string, error) {
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}

	rel, err := filepath.Rel(b.cfg.PublicDir, pagePath)
	if err != nil {
		rel = pagePath
	}

	var warnings []string
	for _, ref := range page.References(string(data)) {
		if !ref.IsLocal() || ref.Path() == "" {
			continue
		}
		target := b.resolve(pagePath, ref.Path())
		if !exists(target) {
			warnings = append(warnings, fmt.Sprintf("%s: <%s> references missing %s", rel, ref.Tag, ref.URL))
		}
	}
	return int64(len(data)), warnings, nil
}

// resolve returns path of the referenced file inside the public dir.
// Absolute references start at the public dir, others at the page's dir.
func (b *Builder) resolve(pagePath, ref string) string {
	ref = filepath.FromSlash(ref)
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, string(filepath.Separator)) {
		return filepath.Join(b.cfg.PublicDir, ref)
	}
	return filepath.Join(filepath.Dir(pagePath), ref)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
