// Copyright © chuidcopy contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config parses the three flat-file inputs the CLI takes: the
// traversal roots file, the exclude-basename file, and the uid/gid map
// file, all sharing the same comment/blank-line grammar.
package config

import (
	"bufio"
	"os"

	"github.com/pkg/errors"

	"github.com/fritzkink/chuidcopy/logger"
)

// scanLines opens path and yields each non-comment, non-blank line to fn,
// in order, with its 1-based line number. Lines starting with '#' (after
// leading whitespace is trimmed) and empty lines are skipped entirely.
func scanLines(path string, fn func(lineNo int, line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := trimLine(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fn(lineNo, line)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "reading %q", path)
	}
	return nil
}

func trimLine(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// LoadRoots parses a roots file: one absolute directory path per line.
// Duplicate paths are logged at WARNING and ignored; the first occurrence
// wins.
func LoadRoots(path string, log logger.Logger) ([]string, error) {
	seen := make(map[string]struct{})
	var roots []string

	err := scanLines(path, func(lineNo int, line string) {
		if _, dup := seen[line]; dup {
			log.Log(logger.LevelWarning, "duplicate root ignored: "+line)
			return
		}
		seen[line] = struct{}{}
		roots = append(roots, line)
	})
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, errors.Errorf("no file systems to work on in %q", path)
	}
	return roots, nil
}

// LoadExcludes parses an exclude file: basenames matched literally against
// directory entry names. Duplicate basenames are logged at WARNING and
// ignored, the same as duplicate roots.
func LoadExcludes(path string, log logger.Logger) ([]string, error) {
	seen := make(map[string]struct{})
	var names []string

	err := scanLines(path, func(lineNo int, line string) {
		if _, dup := seen[line]; dup {
			log.Log(logger.LevelWarning, "duplicate exclude ignored: "+line)
			return
		}
		seen[line] = struct{}{}
		names = append(names, line)
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
