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

// Package logger provides the append-only log sink consumed by the
// traversal engine: one file, one fixed record format, no rotation.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Level is the severity of one log record.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	default:
		return "NONE"
	}
}

// Logger is the interface the traversal engine depends on. The concrete
// file-backed implementation is thread-safe; callers never need their own
// locking around it.
type Logger interface {
	Log(level Level, msg string)
	Close() error
}

// FileLogger writes one record per call to <logdir>/chuid_log in the
// format:
//
//	<weekday mon day HH:MM:SS YYYY> <LEVEL>: <message>\n
type FileLogger struct {
	file *os.File
	l    *log.Logger
}

const logFileName = "chuid_log"

// Open creates or appends to <logdir>/chuid_log.
func Open(logDir string) (*FileLogger, error) {
	path := filepath.Join(logDir, logFileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %q", path)
	}
	// flags=0: the format string below fully owns the timestamp, so we
	// don't want log.Logger prepending its own.
	return &FileLogger{file: f, l: log.New(f, "", 0)}, nil
}

// Log writes one record. log.Logger already serializes concurrent writers
// internally, so FileLogger needs no mutex of its own.
func (fl *FileLogger) Log(level Level, msg string) {
	fl.l.Println(formatRecord(time.Now(), level, msg))
}

func formatRecord(t time.Time, level Level, msg string) string {
	return fmt.Sprintf("%s %s: %s", t.Format("Mon Jan 02 15:04:05 2006"), level, msg)
}

// Close flushes and closes the underlying file.
func (fl *FileLogger) Close() error {
	return fl.file.Close()
}

// NopLogger discards every record; useful in tests that don't care about
// log output.
type NopLogger struct{}

func (NopLogger) Log(Level, string) {}
func (NopLogger) Close() error      { return nil }

var _ io.Closer = (*FileLogger)(nil)
