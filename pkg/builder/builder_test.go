package builder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/flytaly/mdsite/pkg/config"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/flytaly/mdsite/pkg/parser"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<html><head><title>{{ Title }}</title></head><body>{{ Content }}</body></html>`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

// newSite creates a site with two pages and one image inside a temp dir
func newSite(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ContentDir = filepath.Join(dir, "content")
	cfg.StaticDir = filepath.Join(dir, "static")
	cfg.PublicDir = filepath.Join(dir, "public")
	cfg.Template = filepath.Join(dir, "template.html")
	cfg.Interval = 20 * time.Millisecond
	cfg.Workers = 2

	writeFile(t, cfg.Template, testTemplate)
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"),
		"# Tolkien Fan Club\n\n![JRR Tolkien sitting](/images/tolkien.png)\n\n[Glorfindel](/blog/glorfindel.html)")
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "glorfindel.md"),
		"# Why Glorfindel is More Impressive than Legolas\n\n[Back home](../index.html)")
	writeFile(t, filepath.Join(cfg.StaticDir, "images", "tolkien.png"), "png")
	writeFile(t, filepath.Join(cfg.StaticDir, "index.css"), "body {}")
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := newSite(t)
	writeFile(t, filepath.Join(cfg.PublicDir, "stale.html"), "old")

	r, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Len(t, r.Pages, 2)
	assert.Equal(t, 2, r.Static.Files)
	assert.Empty(t, r.Warnings)
	assert.Positive(t, r.Bytes)

	assert.NoFileExists(t, filepath.Join(cfg.PublicDir, "stale.html"))
	assert.FileExists(t, filepath.Join(cfg.PublicDir, "index.css"))
	assert.FileExists(t, filepath.Join(cfg.PublicDir, "images", "tolkien.png"))

	f, err := os.Open(filepath.Join(cfg.PublicDir, "blog", "glorfindel.html"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	assert.Equal(t, "Why Glorfindel is More Impressive than Legolas", doc.Find("title").Text())
	href, _ := doc.Find("a").Attr("href")
	assert.Equal(t, "../index.html", href)
}

func TestBuildWarnings(t *testing.T) {
	cfg := newSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "broken.md"),
		"# Broken\n\n![missing](images/nope.png)\n\n[external](https://example.com)\n\n[anchor](#top)")

	var buf strings.Builder
	r, err := New(cfg, log.NewWriterLog(&buf)).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "broken.html")
	assert.Contains(t, r.Warnings[0], "images/nope.png")
	assert.Contains(t, buf.String(), "images/nope.png")
	assert.Contains(t, r.Summary(), "1 warning")
}

func TestBuildWithoutStatic(t *testing.T) {
	cfg := newSite(t)
	require.NoError(t, os.RemoveAll(cfg.StaticDir))

	r, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Static.Files)
	assert.Len(t, r.Pages, 2)
	assert.Len(t, r.Warnings, 1, "image is gone")
}

func TestBuildErrors(t *testing.T) {
	t.Run("broken markdown", func(t *testing.T) {
		cfg := newSite(t)
		writeFile(t, filepath.Join(cfg.ContentDir, "bad.md"), "# Bad\n\n**unclosed")
		_, err := New(cfg, nil).Build(context.Background())
		assert.ErrorIs(t, err, parser.ErrUnbalancedDelimiter)
	})

	t.Run("public contains sources", func(t *testing.T) {
		cfg := newSite(t)
		cfg.PublicDir = filepath.Dir(cfg.ContentDir)
		_, err := New(cfg, nil).Build(context.Background())
		assert.ErrorContains(t, err, "must not contain")
		assert.FileExists(t, filepath.Join(cfg.ContentDir, "index.md"))
		assert.FileExists(t, cfg.Template)
	})

	t.Run("missing template", func(t *testing.T) {
		cfg := newSite(t)
		require.NoError(t, os.Remove(cfg.Template))
		_, err := New(cfg, nil).Build(context.Background())
		assert.Error(t, err)
	})
}

func TestSummary(t *testing.T) {
	r := Report{
		ID:       uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427"),
		Duration: 1500 * time.Microsecond,
		Pages:    []string{"a.html", "b.html", "c.html"},
		Bytes:    2048,
	}
	r.Static.Files = 1
	r.Static.Bytes = 1_000_000

	assert.Equal(t, "build 1b4e28ba: 3 pages (2.0 kB), 1 static file (1.0 MB) in 2ms", r.Summary())
}

func TestWatch(t *testing.T) {
	cfg := newSite(t)
	b := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan Report, 10)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, func(r Report, err error) {
			assert.NoError(t, err)
			reports <- r
		})
	}()

	b.Rebuild()
	select {
	case r := <-reports:
		assert.Len(t, r.Pages, 2)
	case <-time.After(3 * time.Second):
		t.Fatal("rebuild wasn't triggered")
	}

	writeFile(t, filepath.Join(cfg.ContentDir, "about.md"), "# About")
	select {
	case r := <-reports:
		assert.Len(t, r.Pages, 3)
		assert.FileExists(t, filepath.Join(cfg.PublicDir, "about.html"))
	case <-time.After(3 * time.Second):
		t.Fatal("change didn't trigger a build")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Watch didn't stop")
	}
}

func TestSkipHidden(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md":          {},
		".draft.md":         {},
		"index.md~":         {},
		"blog/post.md":      {},
		".git/HEAD":         {},
		"node_modules/x.js": {},
	}
	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)

	kept := []string{}
	for _, e := range entries {
		if !skipHidden(e.Name(), e) {
			kept = append(kept, e.Name())
		}
	}
	assert.Equal(t, []string{"blog", "index.md"}, kept)
}
