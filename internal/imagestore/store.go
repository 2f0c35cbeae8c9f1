// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagestore owns the local images directory that downloaded page
// assets are written into. The directory is scoped to one run: cleared of
// files at the start, then filled by each download in turn.
package imagestore

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Store writes downloaded assets into a single local directory.
type Store struct {
	// Dir is the target directory, e.g. "images".
	Dir string
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Reset prepares the directory for a run. An existing directory keeps its
// subdirectories but has its regular files and symlinks deleted; a file that
// cannot be deleted produces a warning on w and is skipped. A missing
// directory is created.
func (s *Store) Reset(w io.Writer) error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(s.Dir, 0o755)
		}
		return fmt.Errorf("reading images directory %s: %w", s.Dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		t := entry.Type()
		if !t.IsRegular() && t&fs.ModeSymlink == 0 {
			continue
		}
		p := filepath.Join(s.Dir, entry.Name())
		if err := os.Remove(p); err != nil {
			fmt.Fprintf(w, "Failed to delete %s. Reason: %v\n", p, err)
		}
	}
	return nil
}

// Save writes data to {dir}/{filename} and returns the written path.
func (s *Store) Save(filename string, data []byte) (string, error) {
	p := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image %s: %w", p, err)
	}
	return p, nil
}

// FilenameFromURL derives the local filename for an asset URL: the basename
// of the URL path, percent-decoded. An undecodable basename is used as-is.
func FilenameFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if dec, err := url.PathUnescape(base); err == nil {
		return dec
	}
	return base
}
