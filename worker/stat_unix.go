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

//go:build unix

package worker

import (
	"fmt"
	"os"
	"syscall"
)

// posixStat is the subset of a syscall.Stat_t this package rewrites
// ownership against. Extracted once per lstat so the rest of the package
// never touches syscall.Stat_t directly.
type posixStat struct {
	UID, GID int
	Dev, Ino uint64
	Nlink    uint64
}

func lstatPosix(path string) (os.FileInfo, posixStat, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, posixStat{}, err
	}
	raw, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info, posixStat{}, fmt.Errorf("lstat %q: not a POSIX stat_t", path)
	}
	return info, posixStat{
		UID:   int(raw.Uid),
		GID:   int(raw.Gid),
		Dev:   uint64(raw.Dev),
		Ino:   uint64(raw.Ino),
		Nlink: uint64(raw.Nlink),
	}, nil
}
