package fs

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Seams overridden in tests to inject failures.
var (
	readDirFn = os.ReadDir
	statFn    = os.Stat
	chdirFn   = os.Chdir
)

// ReadDir reads every entry of dirPath. Entries are returned in directory
// order; ordering is the caller's policy. Names are NFC-normalised so that
// decomposed names coming from some filesystems compare like typed ones.
func ReadDir(dirPath string) ([]Entry, error) {
	dirPath = filepath.Clean(dirPath)

	dirEntries, err := readDirFn(dirPath)
	if err != nil {
		return nil, NewIOError("read", dirPath, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		info, err := e.Info()
		if err != nil {
			// Removed between readdir and stat.
			continue
		}

		rawName := e.Name()
		fullPath := filepath.Join(dirPath, rawName)
		if ShouldHideFromListing(fullPath, rawName) {
			continue
		}

		isDir := e.IsDir()
		isSymlink := info.Mode()&os.ModeSymlink != 0
		if isSymlink {
			if target, err := statFn(fullPath); err == nil {
				isDir = target.IsDir()
			}
		}

		entries = append(entries, Entry{
			Name:      norm.NFC.String(rawName),
			FullPath:  fullPath,
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Size:      info.Size(),
			Modified:  info.ModTime(),
			Mode:      info.Mode(),
		})
	}
	return entries, nil
}

// ModTime returns the modification marker of dirPath, following symlinks.
func ModTime(dirPath string) (time.Time, error) {
	info, err := statFn(dirPath)
	if err != nil {
		return time.Time{}, NewIOError("stat", dirPath, err)
	}
	return info.ModTime(), nil
}

// Chdir changes the process working directory.
func Chdir(dirPath string) error {
	return NewIOError("chdir", dirPath, chdirFn(dirPath))
}

// Ancestors returns the strict ancestors of path, nearest first, ending at
// the filesystem root.
func Ancestors(path string) []string {
	path = filepath.Clean(path)
	var out []string
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return out
		}
		out = append(out, parent)
		path = parent
	}
}

// ParentOf returns the parent of path and false when path is a root.
func ParentOf(path string) (string, bool) {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)
	if parent == path {
		return "", false
	}
	return parent, true
}
