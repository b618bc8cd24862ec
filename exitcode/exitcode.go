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

// Package exitcode maps fatal error kinds (configuration, allocation,
// log-write, and the generic catch-all) onto the process exit codes
// scripted callers expect.
package exitcode

import "syscall"

const (
	// Success is returned when a run completes, whether or not any
	// individual entry failed (per-entry failures are logged, not
	// fatal).
	Success = 0

	// ENOMEM is returned on allocation failure.
	ENOMEM = int(syscall.ENOMEM)

	// ENOSPC is the code for a KindLogWrite error. logger.FileLogger.Log
	// does not report write failures, so no path in the program
	// produces one.
	ENOSPC = int(syscall.ENOSPC)

	// EINVAL is returned for KindConfiguration errors: an out-of-range
	// flag value, an input file or log directory that cannot be opened,
	// or a roots file with no roots. Flag-parsing errors reported by
	// cobra (unknown or missing flags) are not wrapped and map to Failure.
	EINVAL = int(syscall.EINVAL)

	// Failure is the generic non-zero fallback for anything else fatal.
	Failure = 1
)

// Kind classifies a fatal error for the purpose of choosing an exit code.
type Kind int

const (
	KindConfiguration Kind = iota
	KindAllocation
	KindLogWrite
	KindOther
)

// FatalError pairs a human-readable message with the Kind that determines
// its exit code.
type FatalError struct {
	Kind Kind
	Err  error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Code returns the process exit code for err. A nil err is Success; any
// error that isn't a *FatalError maps to the generic Failure code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	fe, ok := err.(*FatalError)
	if !ok {
		return Failure
	}
	switch fe.Kind {
	case KindConfiguration:
		return EINVAL
	case KindAllocation:
		return ENOMEM
	case KindLogWrite:
		return ENOSPC
	default:
		return Failure
	}
}

// Configuration wraps err as a fatal configuration error (missing
// required inputs, unreadable files).
func Configuration(err error) *FatalError { return &FatalError{Kind: KindConfiguration, Err: err} }

// Allocation wraps err as a fatal allocation-failure error.
func Allocation(err error) *FatalError { return &FatalError{Kind: KindAllocation, Err: err} }

// LogWrite wraps err as a fatal log-sink-write error.
func LogWrite(err error) *FatalError { return &FatalError{Kind: KindLogWrite, Err: err} }
