package fswatcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const MinInterval = time.Millisecond * 20

var (
	ErrClosed  = errors.New("poller is closed")
	ErrRunning = errors.New("poller is already running")
)

// Poller is a polling implementation of the Watcher interface
type Poller struct {
	fsys fs.FS

	mu sync.Mutex
	// watched files and dirs
	watches map[string]struct{}
	// stores info about files and dirs inside watched paths
	files map[string]fs.FileInfo
	skip  SkipFunc

	events   chan Event
	errors   chan error
	scanDone chan struct{}
	done     chan struct{}
	running  bool
	closed   bool
}

// NewPoller creates a poller watching paths inside fsys
func NewPoller(fsys fs.FS) *Poller {
	return &Poller{
		fsys:     fsys,
		watches:  map[string]struct{}{},
		files:    map[string]fs.FileInfo{},
		events:   make(chan Event),
		errors:   make(chan error),
		scanDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *Poller) SetSkipHook(fn SkipFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skip = fn
}

// Add adds given name into the list of the watched paths.
// If name is a directory, then retrieves FileInfo of nested files, saves them
// and returns.
func (p *Poller) Add(name string) (map[string]fs.FileInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	name = cleanPath(name)
	list, err := p.listFiles(name)
	if err != nil {
		return nil, err
	}

	for fname, fi := range list {
		p.files[fname] = fi
	}
	p.watches[name] = struct{}{}

	return list, nil
}

// Remove stops watching name and forgets files inside of it
func (p *Poller) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	name = cleanPath(name)
	delete(p.watches, name)
	for fname := range p.files {
		if within(fname, name) && !p.watched(fname) {
			delete(p.files, fname)
		}
	}
	return nil
}

// watched reports whether fname is inside of any watched path
func (p *Poller) watched(fname string) bool {
	for w := range p.watches {
		if within(fname, w) {
			return true
		}
	}
	return false
}

// WatchedList returns a copy of the known files and folders
func (p *Poller) WatchedList() map[string]fs.FileInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	files := make(map[string]fs.FileInfo, len(p.files))
	for k, v := range p.files {
		files[k] = v
	}
	return files
}

// listFiles returns list of the files if name is a directory,
// if name isn't a directory then just returns it's FileInfo.
func (p *Poller) listFiles(name string) (map[string]fs.FileInfo, error) {
	fInfo, err := fs.Stat(p.fsys, name)
	if err != nil {
		return nil, err
	}
	files := map[string]fs.FileInfo{name: fInfo}
	if !fInfo.IsDir() {
		return files, nil
	}

	err = fs.WalkDir(p.fsys, name, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			// removed while walking
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if fpath == name {
			return nil
		}
		if p.skip != nil && p.skip(fpath, d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		stat, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		files[fpath] = stat
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// scan checks watched paths and returns events for everything
// that changed since the previous scan
func (p *Poller) scan() ([]Event, []error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	current := map[string]fs.FileInfo{}

	for w := range p.watches {
		files, err := p.listFiles(w)
		if err != nil {
			// files of a missing path are reported as removed,
			// the watch stays to catch the path coming back
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			// keep the previous state so nothing is reported as removed
			for fname, fi := range p.files {
				if within(fname, w) {
					current[fname] = fi
				}
			}
			continue
		}
		for fname, fi := range files {
			current[fname] = fi
		}
	}

	created, removed, kept := []string{}, []string{}, []string{}
	for fname := range current {
		if _, ok := p.files[fname]; ok {
			kept = append(kept, fname)
			continue
		}
		created = append(created, fname)
	}
	for fname := range p.files {
		if _, ok := current[fname]; !ok {
			removed = append(removed, fname)
		}
	}
	sort.Strings(created)
	sort.Strings(removed)
	sort.Strings(kept)

	events := []Event{}
	renamed := map[string]bool{}

	for _, fname := range removed {
		if newPath, ok := findRenamed(p.files[fname], created, current, renamed); ok {
			renamed[newPath] = true
			events = append(events, Event{Op: Rename, Name: fname, NewPath: newPath})
			continue
		}
		events = append(events, Event{Op: Remove, Name: fname})
	}

	for _, fname := range kept {
		if op, changed := compare(p.files[fname], current[fname]); changed {
			events = append(events, Event{Op: op, Name: fname})
		}
	}

	for _, fname := range created {
		if !renamed[fname] {
			events = append(events, Event{Op: Create, Name: fname})
		}
	}

	p.files = current
	return events, errs
}

func findRenamed(old fs.FileInfo, created []string, current map[string]fs.FileInfo, taken map[string]bool) (string, bool) {
	for _, fname := range created {
		if taken[fname] {
			continue
		}
		if sameFile(old, current[fname]) {
			return fname, true
		}
	}
	return "", false
}

// compare returns an operation that turns old into new.
// Directories are compared only by mode, their mtime changes with content.
func compare(old, new fs.FileInfo) (Op, bool) {
	if !old.IsDir() && (!old.ModTime().Equal(new.ModTime()) || old.Size() != new.Size()) {
		return Write, true
	}
	if old.Mode() != new.Mode() {
		return Chmod, true
	}
	return 0, false
}

// sameFile reports whether a and b describe the same file.
// Infos coming from the OS are compared with os.SameFile, others by their attributes.
func sameFile(a, b fs.FileInfo) bool {
	if a.IsDir() != b.IsDir() {
		return false
	}
	if a.Sys() != nil || b.Sys() != nil {
		return os.SameFile(a, b)
	}
	return a.Mode() == b.Mode() && a.Size() == b.Size() && a.ModTime().Equal(b.ModTime())
}

// Start scans watched paths every interval until ctx is cancelled or
// the poller is closed.
func (p *Poller) Start(ctx context.Context, interval time.Duration) error {
	if interval < MinInterval {
		interval = MinInterval
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.running {
		p.mu.Unlock()
		return ErrRunning
	}
	p.running = true
	p.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case <-ticker.C:
		}

		events, errs := p.scan()
		for _, e := range events {
			if !send(ctx, p.done, p.events, e) {
				return ctx.Err()
			}
		}
		for _, err := range errs {
			if !send(ctx, p.done, p.errors, err) {
				return ctx.Err()
			}
		}
		if !send(ctx, p.done, p.scanDone, struct{}{}) {
			return ctx.Err()
		}
	}
}

// send delivers v unless the poller is closed or ctx is done
func send[T any](ctx context.Context, done <-chan struct{}, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-done:
	case <-ctx.Done():
	}
	return false
}

func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.running = false
	close(p.done)
	return nil
}

func (p *Poller) Errors() <-chan error {
	return p.errors
}

func (p *Poller) Events() <-chan Event {
	return p.events
}

func (p *Poller) ScanComplete() <-chan struct{} {
	return p.scanDone
}

// cleanPath converts name into the io/fs form
func cleanPath(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// within reports whether fname is root or inside of it
func within(fname, root string) bool {
	if root == "." || fname == root {
		return true
	}
	return strings.HasPrefix(fname, root+"/")
}
