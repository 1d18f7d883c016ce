// Package walk produces a reproducible, sorted traversal of a file tree,
// satisfying spec §5 "Ordering": entries are emitted in lexicographic
// order per directory level, using forward-slash-separated paths relative
// to root regardless of host OS.
package walk

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"fixity/internal/errors"
)

// Entry is one regular file discovered under a walked root.
type Entry struct {
	// RelPath is the file's path relative to root, using "/" separators.
	RelPath string
	// AbsPath is the file's path as passed to the OS, suitable for Open.
	AbsPath string
	Size    int64
}

// Walk returns every regular file under root, in sorted traversal order.
// filepath.WalkDir already visits a directory's children in lexicographic
// order, so this function's role is to make that guarantee explicit,
// normalize paths to "/", and filter out directories and non-regular
// files (symlinks, devices, sockets).
func Walk(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.NewIOError("walk", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return errors.NewIOError("stat", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.NewIOError("relativize", path, err)
		}
		entries = append(entries, Entry{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	// WalkDir is already lexicographic per directory. Re-sort level by
	// level (comparing one path component at a time, not the whole joined
	// string, under which "a-b/x" would sort before "a/x") to make the
	// whole-tree order explicit and independent of traversal strategy,
	// matching spec §5's requirement that regenerating over the same input
	// reproduces identical output.
	sort.Slice(entries, func(i, j int) bool {
		a := strings.Split(entries[i].RelPath, "/")
		b := strings.Split(entries[j].RelPath, "/")
		for n := 0; n < len(a) && n < len(b); n++ {
			if a[n] != b[n] {
				return a[n] < b[n]
			}
		}
		return len(a) < len(b)
	})
	return entries, nil
}
