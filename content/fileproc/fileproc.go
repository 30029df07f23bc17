// Package fileproc provides content processors that read files.
package fileproc

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Open opens path from fsys, or from the operating system when fsys is nil.
func Open(fsys fs.FS, path string) (io.ReadCloser, error) {
	if fsys == nil {
		return os.Open(path)
	}
	return fsys.Open(path)
}

// Bytes loads the raw contents of a file.
type Bytes struct {
	FS fs.FS
}

func (p Bytes) Load(path string) ([]byte, error) {
	if p.FS == nil {
		return os.ReadFile(path)
	}
	return fs.ReadFile(p.FS, path)
}

// Unload does nothing; the bytes are garbage collected.
func (p Bytes) Unload([]byte) error {
	return nil
}

// Text is a line-oriented text asset.
type Text struct {
	Lines []string
}

// Lines loads a text file as trimmed lines, skipping blank lines and lines
// starting with one of CommentPrefixes. Lines longer than MaxLineLength runes
// are truncated when MaxLineLength is positive. Lines of any length are read.
type Lines struct {
	FS              fs.FS
	CommentPrefixes []string
	MaxLineLength   int
}

func (p Lines) Load(path string) (*Text, error) {
	f, err := Open(p.FS, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	text := &Text{}
	r := bufio.NewReader(f)
	for {
		raw, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		line := strings.TrimSpace(raw)
		if line != "" && !p.isComment(line) {
			text.Lines = append(text.Lines, truncate(line, p.MaxLineLength))
		}

		if err == io.EOF {
			return text, nil
		}
	}
}

// truncate cuts s after n runes. Non-positive n keeps s whole.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func (p Lines) Unload(*Text) error {
	return nil
}

func (p Lines) isComment(line string) bool {
	for _, prefix := range p.CommentPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
