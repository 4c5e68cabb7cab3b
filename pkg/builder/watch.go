package builder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flytaly/mdsite/pkg/fswatcher"
	"github.com/flytaly/mdsite/pkg/page"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BuildFunc receives result of every build made by Watch
type BuildFunc func(Report, error)

// target is a path watched inside of dir
type target struct {
	dir  string
	name string
}

func (b *Builder) targets() []target {
	return []target{
		{dir: b.cfg.ContentDir, name: "."},
		{dir: b.cfg.StaticDir, name: "."},
		{dir: filepath.Dir(b.cfg.Template), name: filepath.Base(b.cfg.Template)},
	}
}

// Rebuild asks a running Watch to build the site again
func (b *Builder) Rebuild() {
	select {
	case b.rebuild <- struct{}{}:
	default:
	}
}

// Watch polls content, static and template paths and builds the site after
// every scan that found changes, or after Rebuild was called. It blocks until
// ctx is cancelled.
func (b *Builder) Watch(ctx context.Context, onBuild BuildFunc) error {
	if onBuild == nil {
		onBuild = func(Report, error) {}
	}
	pollers := []*fswatcher.Poller{}
	for _, t := range b.targets() {
		p := fswatcher.NewPoller(os.DirFS(t.dir))
		p.SetSkipHook(skipHidden)
		if _, err := p.Add(t.name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				b.log.Warning("Can't watch %s: doesn't exist", filepath.Join(t.dir, t.name))
				continue
			}
			return errors.Wrapf(err, "watch %s", t.dir)
		}
		b.log.Debug("Watching %s", filepath.Join(t.dir, t.name))
		pollers = append(pollers, p)
	}

	eg, ctx := errgroup.WithContext(ctx)
	changes := make(chan []fswatcher.Event)

	for _, p := range pollers {
		p := p
		eg.Go(func() error {
			if err := p.Start(ctx, b.cfg.Interval); !errors.Is(err, fswatcher.ErrClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error { return b.collect(ctx, p, changes) })
		eg.Go(func() error {
			<-ctx.Done()
			return p.Close()
		})
	}

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case events := <-changes:
				for _, e := range events {
					b.log.Info("%s", e)
				}
			case <-b.rebuild:
				b.log.Info("Rebuild requested")
			}
			onBuild(b.Build(ctx))
		}
	})

	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// collect groups events of a single scan and sends non-empty groups to changes
func (b *Builder) collect(ctx context.Context, w fswatcher.Watcher, changes chan<- []fswatcher.Event) error {
	var events []fswatcher.Event
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-w.Events():
			events = append(events, e)
		case err := <-w.Errors():
			b.log.Error("Watcher: %v", err)
		case <-w.ScanComplete():
			if len(events) == 0 {
				continue
			}
			select {
			case changes <- events:
			case <-ctx.Done():
				return nil
			}
			events = nil
		}
	}
}

var excludedDirs = map[string]bool{"node_modules": true}

// skipHidden skips dot files, editor backups and dependency folders
func skipHidden(path string, d fs.DirEntry) bool {
	name := d.Name()
	if d.IsDir() && excludedDirs[name] {
		return true
	}
	return page.Hidden(name) || strings.HasSuffix(name, "~")
}
