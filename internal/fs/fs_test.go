package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"
)

func TestReadDirCollectsEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	if !byName["sub"].IsDir {
		t.Errorf("sub should be a directory")
	}
	if got := byName["file.txt"]; got.IsDir || got.Size != 5 || got.FullPath != filepath.Join(dir, "file.txt") {
		t.Errorf("unexpected file entry: %+v", got)
	}
}

func TestReadDirResolvesSymlinkedDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name == "link" {
			if !e.IsSymlink || !e.IsDir {
				t.Fatalf("link should be a symlink to a directory: %+v", e)
			}
			if e.Icon() != "@" {
				t.Fatalf("symlink icon = %q", e.Icon())
			}
			return
		}
	}
	t.Fatalf("link entry missing")
}

func TestReadDirClassifiesFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		path string
		want ErrorKind
	}{
		{"missing", filepath.Join(dir, "nope"), KindNotFound},
		{"file", file, KindNotDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDir(tt.path)
			var ioErr *IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("expected *IOError, got %T (%v)", err, err)
			}
			if ioErr.Kind != tt.want {
				t.Fatalf("kind = %v, want %v", ioErr.Kind, tt.want)
			}
			if ioErr.Op != "read" {
				t.Fatalf("op = %q", ioErr.Op)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{fs.ErrNotExist, KindNotFound},
		{fs.ErrPermission, KindPermission},
		{syscall.ENOTDIR, KindNotDir},
		{errors.New("boom"), KindOther},
		{&IOError{Kind: KindPermission}, KindPermission},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewIOErrorKeepsExistingIOError(t *testing.T) {
	inner := &IOError{Op: "read", Path: "/x", Kind: KindNotFound, Err: fs.ErrNotExist}
	if got := NewIOError("stat", "/y", inner); got != error(inner) {
		t.Fatalf("expected the original error to be returned")
	}
	if NewIOError("read", "/x", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
	if !errors.Is(inner, os.ErrNotExist) {
		t.Fatalf("IOError should unwrap to os.ErrNotExist")
	}
}

func TestChdirFailureIsIOError(t *testing.T) {
	orig := chdirFn
	t.Cleanup(func() { chdirFn = orig })
	chdirFn = func(string) error { return fs.ErrPermission }

	err := Chdir("/restricted")
	if KindOf(err) != KindPermission {
		t.Fatalf("expected permission kind, got %v", err)
	}
}

func TestModTimeTracksChanges(t *testing.T) {
	dir := t.TempDir()
	before, err := ModTime(dir)
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	past := before.Add(-time.Hour)
	if err := os.Chtimes(dir, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	after, err := ModTime(dir)
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if !after.Equal(past) {
		t.Fatalf("ModTime = %v, want %v", after, past)
	}
	if _, err := ModTime(filepath.Join(dir, "gone")); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAncestors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	got := Ancestors("/a/b/c")
	want := []string{"/a/b", "/a", "/"}
	if len(got) != len(want) {
		t.Fatalf("Ancestors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ancestors = %v, want %v", got, want)
		}
	}
	if len(Ancestors("/")) != 0 {
		t.Fatalf("root has no ancestors")
	}
	if _, ok := ParentOf("/"); ok {
		t.Fatalf("root has no parent")
	}
	if p, ok := ParentOf("/a/b/"); !ok || p != "/a" {
		t.Fatalf("ParentOf = %q, %v", p, ok)
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content []byte
		want    bool
	}{
		{"plain", "a.txt", []byte("hello\nworld"), true},
		{"empty", "a.txt", nil, true},
		{"nul byte", "a.dat", []byte{'a', 0, 'b'}, false},
		{"binary ext", "a.png", []byte("looks like text"), false},
		{"utf16 bom", "a.ini", []byte{0xFF, 0xFE, 0x41, 0x00}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTextFile(tt.path, tt.content); got != tt.want {
				t.Fatalf("IsTextFile = %v, want %v", got, tt.want)
			}
		})
	}
}
