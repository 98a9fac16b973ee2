package mcpack

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is an in-memory file of a Dir tree.
type File struct {
	Name string
	bytes.Buffer
}

// Set replaces the file contents.
func (f *File) Set(data []byte) {
	f.Reset()
	f.Write(data)
}

// Dir is an in-memory directory. Children are created on first access.
type Dir struct {
	Name  string
	dirs  map[string]*Dir
	files map[string]*File
}

func NewDir(name string) *Dir {
	return &Dir{Name: name, dirs: map[string]*Dir{}, files: map[string]*File{}}
}

// Dir returns the subdirectory name, creating it if needed.
func (d *Dir) Dir(name string) *Dir {
	if sub, ok := d.dirs[name]; ok {
		return sub
	}
	sub := NewDir(name)
	d.dirs[name] = sub
	return sub
}

// Path walks or creates nested subdirectories.
func (d *Dir) Path(names ...string) *Dir {
	cur := d
	for _, n := range names {
		cur = cur.Dir(n)
	}
	return cur
}

// File returns the file name, creating it empty if needed.
func (d *Dir) File(name string) *File {
	if f, ok := d.files[name]; ok {
		return f
	}
	f := &File{Name: name}
	d.files[name] = f
	return f
}

// Lookup finds a file by slash separated path relative to d.
func (d *Dir) Lookup(path string) (*File, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	cur := d
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.dirs[part]
		if !ok {
			return nil, false
		}
		cur = next
	}
	f, ok := cur.files[parts[len(parts)-1]]
	return f, ok
}

// Walk visits every file in lexical order with its slash separated path
// relative to d.
func (d *Dir) Walk(fn func(path string, f *File) error) error {
	return d.walk("", fn)
}

func (d *Dir) walk(prefix string, fn func(string, *File) error) error {
	for _, name := range sortedKeys(d.files) {
		if err := fn(prefix+name, d.files[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(d.dirs) {
		if err := d.dirs[name].walk(prefix+name+"/", fn); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size is the total byte count of all files.
func (d *Dir) Size() int64 {
	var n int64
	_ = d.Walk(func(_ string, f *File) error {
		n += int64(f.Len())
		return nil
	})
	return n
}

// OverwritePolicy decides what Write does when the target directory exists.
type OverwritePolicy uint8

const (
	// Fail refuses to touch an existing directory.
	Fail OverwritePolicy = iota
	// Replace removes the existing directory first.
	Replace
	// Merge writes over existing files and keeps the rest.
	Merge
)

// ErrExists is returned by Write under Fail when the target exists.
var ErrExists = errors.New("output already exists")

// Write materialises the tree as parent/d.Name and returns that path.
func (d *Dir) Write(parent string, policy OverwritePolicy) (string, error) {
	root := filepath.Join(parent, d.Name)
	_, err := os.Stat(root)
	switch {
	case err == nil && policy == Fail:
		return root, fmt.Errorf("%w: %s", ErrExists, root)
	case err == nil && policy == Replace:
		if err := os.RemoveAll(root); err != nil {
			return root, err
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return root, err
	}
	if err := d.writeTo(root); err != nil {
		return root, err
	}
	return root, nil
}

func (d *Dir) writeTo(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	for name, f := range d.files {
		if err := os.WriteFile(filepath.Join(path, name), f.Bytes(), 0644); err != nil {
			return err
		}
	}
	for name, sub := range d.dirs {
		if err := sub.writeTo(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}
