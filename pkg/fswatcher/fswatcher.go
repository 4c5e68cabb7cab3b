/*
Package fswatcher reports changes of files inside watched directories.

Paths are slash separated and relative to the root of the watched fs.FS,
the same way io/fs names them.
*/
package fswatcher

import (
	"context"
	"fmt"
	"io/fs"
	"time"
)

// Event represents a single file system notification
type Event struct {
	Name    string // Path to the file or directory
	NewPath string // new path after rename operation
	Op      Op     // File operation that triggered the event.
}

func (e Event) String() string {
	if e.Op == Rename {
		return fmt.Sprintf("%s %s -> %s", e.Op, e.Name, e.NewPath)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Name)
}

// Op describes a type of event
type Op uint32

// Operations
const (
	Create Op = 1 << iota
	Write
	Remove
	Rename
	Chmod
)

func (op Op) String() string {
	switch op {
	case Create:
		return "CREATE"
	case Write:
		return "WRITE"
	case Remove:
		return "REMOVE"
	case Rename:
		return "RENAME"
	case Chmod:
		return "CHMOD"
	}
	return "?"
}

// SkipFunc reports whether the entry should be ignored.
// Skipped directories aren't descended into.
type SkipFunc func(path string, d fs.DirEntry) bool

// Watcher is fsnotify-like interface for implementing file watchers.
// Consumers must drain Events, Errors and ScanComplete while the watcher runs.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	// ScanComplete receives a value after events of every scan are delivered
	ScanComplete() <-chan struct{}
	Add(name string) (map[string]fs.FileInfo, error)
	Remove(name string) error
	SetSkipHook(fn SkipFunc)
	Start(ctx context.Context, interval time.Duration) error
	Close() error
}

var _ Watcher = (*Poller)(nil)
