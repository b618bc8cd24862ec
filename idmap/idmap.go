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

// Package idmap holds the immutable uid/gid rewrite tables parsed from a
// map file, and the first-match lookup rule the worker uses to rewrite an
// entry's owning ids.
package idmap

// Pair is one (old, new) numeric id mapping.
type Pair struct {
	Old int
	New int
}

// Map holds the uid and gid rewrite tables. Entries are immutable once
// loaded; lookup is a linear scan in insertion order. These sequences are
// typically a few dozen entries, so a map index would be overkill.
type Map struct {
	UIDs []Pair
	GIDs []Pair
}

// LookupUID returns the new uid for old, and whether a mapping exists.
// The first matching entry in insertion order wins.
func (m Map) LookupUID(old int) (int, bool) {
	for _, p := range m.UIDs {
		if p.Old == old {
			return p.New, true
		}
	}
	return 0, false
}

// LookupGID returns the new gid for old, and whether a mapping exists.
// The first matching entry in insertion order wins.
func (m Map) LookupGID(old int) (int, bool) {
	for _, p := range m.GIDs {
		if p.Old == old {
			return p.New, true
		}
	}
	return 0, false
}
