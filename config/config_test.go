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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fritzkink/chuidcopy/logger"
)

// logAdapter satisfies logger.Logger while letting the test inspect what
// was logged.
type logAdapter struct{ lines []string }

func (l *logAdapter) Log(level logger.Level, msg string) { l.lines = append(l.lines, msg) }
func (l *logAdapter) Close() error                       { return nil }

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRootsSkipsCommentsAndBlanks(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "roots", "# comment\n\n/a\n/b\n")

	log := &logAdapter{}
	roots, err := LoadRoots(path, log)
	a.NoError(err)
	a.Equal([]string{"/a", "/b"}, roots)
}

func TestLoadRootsWarnsOnDuplicate(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "roots", "/a\n/a\n/b\n")

	log := &logAdapter{}
	roots, err := LoadRoots(path, log)
	a.NoError(err)
	a.Equal([]string{"/a", "/b"}, roots)
	a.Len(log.lines, 1)
}

func TestLoadRootsEmptyIsError(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "roots", "# only comments\n")

	_, err := LoadRoots(path, &logAdapter{})
	a.Error(err)
}

func TestLoadExcludesWarnsOnDuplicate(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "excludes", "tmp\ntmp\n.git\n")

	log := &logAdapter{}
	names, err := LoadExcludes(path, log)
	a.NoError(err)
	a.Equal([]string{"tmp", ".git"}, names)
	a.Len(log.lines, 1)
}

func TestLoadIDMapParsesUIDAndGIDLines(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "idmap", "# comment\nu:1000,2000\ng:3000 4000\nU:500\t600\n")

	log := &logAdapter{}
	m, err := LoadIDMap(path, log)
	a.NoError(err)
	a.Len(m.UIDs, 2)
	a.Len(m.GIDs, 1)

	newUID, ok := m.LookupUID(1000)
	a.True(ok)
	a.Equal(2000, newUID)

	newGID, ok := m.LookupGID(3000)
	a.True(ok)
	a.Equal(4000, newGID)
}

func TestLoadIDMapSkipsMalformedLines(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "idmap", "x:1,2\nu:notanumber,2\nu:1000,2000\n")

	log := &logAdapter{}
	m, err := LoadIDMap(path, log)
	a.NoError(err)
	a.Len(m.UIDs, 1)
	a.Len(log.lines, 2)
}

func TestLoadIDMapDuplicateOldIsIgnored(t *testing.T) {
	a := assert.New(t)
	path := writeTemp(t, "idmap", "u:1000,2000\nu:1000,3000\n")

	log := &logAdapter{}
	m, err := LoadIDMap(path, log)
	a.NoError(err)
	a.Len(m.UIDs, 1)

	newUID, _ := m.LookupUID(1000)
	a.Equal(2000, newUID, "the first mapping for an old id wins")
	a.Len(log.lines, 1)
}
