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

package worker

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/pkg/xattr"

	"github.com/fritzkink/chuidcopy/idmap"
	"github.com/fritzkink/chuidcopy/logger"
)

// entryKind distinguishes the three rewritable entry types. "Other" entries
// (devices, fifos, sockets) never reach rewriteOwnership at all.
type entryKind int

const (
	kindFile entryKind = iota
	kindSymlink
	kindDir
)

// chowner is the syscall surface the rewrite helper needs. Abstracting it
// lets tests exercise the uid/gid decision logic without requiring root
// privileges to actually change ownership. The real implementation is
// osChowner, below.
type chowner interface {
	Chown(path string, uid, gid int) error
	Lchown(path string, uid, gid int) error
}

type osChowner struct{}

func (osChowner) Chown(path string, uid, gid int) error  { return osChown(path, uid, gid) }
func (osChowner) Lchown(path string, uid, gid int) error { return osLchown(path, uid, gid) }

// rewriteOwnership applies the id map to one directory entry, parameterised
// by entry kind. uid and gid rewrites are independent: an entry may be
// rewritten for uid only, gid only, both, or neither, and uid is always
// attempted before gid.
func rewriteOwnership(path string, kind entryKind, curUID, curGID int, ids idmap.Map, c chowner, dryRun bool, dryRunOut io.Writer, log logger.Logger, verboseXattr bool) {
	newUID, uidMatched := ids.LookupUID(curUID)
	newGID, gidMatched := ids.LookupGID(curGID)

	if uidMatched {
		applyOneDimension(path, kind, newUID, -1, c, dryRun, dryRunOut, log, verboseXattr, "uid", curUID, newUID)
	}
	if gidMatched {
		applyOneDimension(path, kind, -1, newGID, c, dryRun, dryRunOut, log, verboseXattr, "gid", curGID, newGID)
	}
}

func applyOneDimension(path string, kind entryKind, uid, gid int, c chowner, dryRun bool, dryRunOut io.Writer, log logger.Logger, verboseXattr bool, dim string, oldVal, newVal int) {
	if dryRun {
		fmt.Fprintf(dryRunOut, "%s: would change %s %d -> %d\n", path, dim, oldVal, newVal)
		return
	}

	var err error
	if kind == kindSymlink {
		err = c.Lchown(path, uid, gid)
	} else {
		err = c.Chown(path, uid, gid)
	}
	if err != nil {
		log.Log(logger.LevelWarning, fmt.Sprintf("chown %s (%s %d->%d) failed: %s", path, dim, oldVal, newVal, err))
		if verboseXattr {
			names, xerr := listXattrNames(path, kind)
			switch {
			case xerr != nil:
				log.Log(logger.LevelInfo, errors.Wrapf(xerr, "listing xattrs on %q", path).Error())
			case len(names) > 0:
				log.Log(logger.LevelInfo, fmt.Sprintf("%s: extended attributes present: %v", path, names))
			}
		}
	}
}

// listXattrNames lists extended attributes on path for diagnostic context
// after a chown failure (e.g. an immutable-attribute hint). This is purely
// informational and never affects the traversal outcome.
func listXattrNames(path string, kind entryKind) ([]string, error) {
	if kind == kindSymlink {
		return xattr.LList(path)
	}
	return xattr.List(path)
}
