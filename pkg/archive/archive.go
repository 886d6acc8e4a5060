// Package archive reads markup files packed in ZIP-based archives: web
// application archives (.war, .ear, .jar), plain .zip files and EPUB
// publications.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
)

// Suffixes lists the file suffixes opened as archives.
var Suffixes = []string{".zip", ".war", ".ear", ".jar", ".epub"}

// Separator joins an archive path and an entry name in reported file names.
const Separator = "!/"

// IsArchive reports whether path names an archive by its suffix.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, s := range Suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Archive is an open archive. Directory entries are not listed.
type Archive struct {
	Path string

	zr      *zip.ReadCloser
	entries map[string]*zip.File
}

// Open opens the archive at path; Close releases it.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	a := &Archive{Path: path, zr: zr, entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		a.entries[f.Name] = f
	}
	return a, nil
}

// Close closes the archive file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Has reports whether the archive holds an entry called name.
func (a *Archive) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

func (a *Archive) open(name string) (io.ReadCloser, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%s%s%s: %w", a.Path, Separator, name, fs.ErrNotExist)
	}
	return f.Open()
}

// ReadFile returns the contents of entry name.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Entries returns the sorted names of the entries accepted by match. For
// an EPUB with a readable package document, only the XHTML and HTML
// content documents of its manifest are considered.
func (a *Archive) Entries(match func(name string) bool) []string {
	var names []string
	if strings.HasSuffix(strings.ToLower(a.Path), ".epub") {
		if docs, err := a.ContentDocuments(); err == nil {
			names = docs
		}
	}
	if names == nil {
		for name := range a.entries {
			names = append(names, name)
		}
	}

	out := names[:0]
	for _, name := range names {
		if a.Has(name) && match(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Member joins the archive path and an entry name.
func Member(archivePath, entry string) string {
	return archivePath + Separator + entry
}

// SplitMember splits a name built by Member. ok is false for plain paths.
func SplitMember(name string) (archivePath, entry string, ok bool) {
	i := strings.Index(name, Separator)
	if i < 0 {
		return name, "", false
	}
	return name[:i], name[i+len(Separator):], true
}
