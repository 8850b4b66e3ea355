// Package archive builds Walk abstraction on top of "archive/zip" for NuGet
// packages and plain zip archives carrying compiled IntelliSense files.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// IntelliSensePattern selects documentation files inside NuGet package.
const IntelliSensePattern = "{lib,ref}/**/*.xml"

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. The file argument is the zip.File structure for file in archive which
// satisfies match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all files in the archive matching doublestar pattern (empty
// pattern matches everything), calling walkFn for each item. Archives with
// path traversal components ("..") or absolute entry names are rejected to
// prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {

	if len(pattern) > 0 && !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("bad archive pattern %q", pattern)
	}

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if len(pattern) > 0 {
			// NuGet packages are produced on Windows more often than not
			if ok, _ := doublestar.Match(pattern, strings.ReplaceAll(name, `\`, "/")); !ok {
				continue
			}
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// IsArchive checks if file content is zip archive (NuGet packages are zip
// files with different extension).
func IsArchive(fname string) (bool, error) {
	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype needs only first 262 bytes to detect type
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false, nil
	}
	return kind == matchers.TypeZip, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}
