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

package exitcode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeMapsEachKind(t *testing.T) {
	a := assert.New(t)

	a.Equal(Success, Code(nil))
	a.Equal(EINVAL, Code(Configuration(errors.New("bad map file"))))
	a.Equal(ENOMEM, Code(Allocation(errors.New("out of memory"))))
	a.Equal(ENOSPC, Code(LogWrite(errors.New("disk full"))))
	a.Equal(Failure, Code(errors.New("something else")))
}

func TestFatalErrorUnwraps(t *testing.T) {
	a := assert.New(t)
	inner := errors.New("root cause")
	fe := Configuration(inner)

	a.Equal(inner, errors.Unwrap(fe))
	a.Equal("root cause", fe.Error())
}
