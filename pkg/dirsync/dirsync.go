/*
Package dirsync replaces the contents of a directory with a copy of another one.
*/
package dirsync

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrInvalidPath = errors.New("must be a valid path")

// Stats describes what was copied
type Stats struct {
	Files int
	Dirs  int
	Bytes int64
}

// Sync deletes everything inside dst and recursively copies the src tree into it.
// Both directories must exist.
func Sync(src, dst string) (Stats, error) {
	var stats Stats

	if err := checkDir(src); err != nil {
		return stats, errors.Wrapf(err, "source %q", src)
	}
	if err := checkDir(dst); err != nil {
		return stats, errors.Wrapf(err, "destination %q", dst)
	}

	if err := Clean(dst); err != nil {
		return stats, err
	}

	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			stats.Dirs++
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			return nil // sockets, devices and symlinks are skipped
		}

		n, err := copyFile(path, target, info.Mode().Perm())
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "copy %q to %q", src, dst)
	}

	return stats, nil
}

// Clean removes all the contents of dir but keeps dir itself
func Clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.Wrapf(err, "clean %q", dir)
		}
	}
	return nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrInvalidPath
		}
		return err
	}
	if !info.IsDir() {
		return errors.Wrap(ErrInvalidPath, "not a directory")
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}
