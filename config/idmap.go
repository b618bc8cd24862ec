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
	"regexp"
	"strconv"
	"strings"

	"github.com/fritzkink/chuidcopy/idmap"
	"github.com/fritzkink/chuidcopy/logger"
)

// mapLineRE matches one data line of the id map file: a u/g tag
// (case-insensitive), a colon, the old numeric id, one or more
// comma/space/tab separators, and the new numeric id.
var mapLineRE = regexp.MustCompile(`(?i)^([ug]):(\d+)[,\s\t]+(\d+)$`)

// LoadIDMap parses a uid/gid map file into an idmap.Map. Malformed lines
// are logged at WARNING and skipped rather than aborting the run.
// Duplicate "old" values within either the uid or the gid sequence are
// logged at WARNING; the later entry is ignored, so the first mapping for
// a given old id always wins (matching idmap.Map's first-match lookup
// rule).
func LoadIDMap(path string, log logger.Logger) (idmap.Map, error) {
	var m idmap.Map
	seenUID := make(map[int]struct{})
	seenGID := make(map[int]struct{})

	err := scanLines(path, func(lineNo int, line string) {
		match := mapLineRE.FindStringSubmatch(line)
		if match == nil {
			log.Log(logger.LevelWarning, "malformed map line skipped: "+line)
			return
		}

		old, err := strconv.Atoi(match[2])
		if err != nil {
			log.Log(logger.LevelWarning, "malformed map line skipped: "+line)
			return
		}
		newID, err := strconv.Atoi(match[3])
		if err != nil {
			log.Log(logger.LevelWarning, "malformed map line skipped: "+line)
			return
		}

		pair := idmap.Pair{Old: old, New: newID}
		if strings.EqualFold(match[1], "u") {
			if _, dup := seenUID[old]; dup {
				log.Log(logger.LevelWarning, "duplicate uid mapping ignored: "+line)
				return
			}
			seenUID[old] = struct{}{}
			m.UIDs = append(m.UIDs, pair)
			return
		}

		if _, dup := seenGID[old]; dup {
			log.Log(logger.LevelWarning, "duplicate gid mapping ignored: "+line)
			return
		}
		seenGID[old] = struct{}{}
		m.GIDs = append(m.GIDs, pair)
	})
	if err != nil {
		return idmap.Map{}, err
	}
	return m, nil
}
