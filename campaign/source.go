// Copyright (c) 2026 The evacrypto Authors
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS
// BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN
// ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package campaign

import (
	"golang.org/x/crypto/sha3"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

const sourceDomain = "evacrypto/campaign/v1"

// Source is a deterministic stream of plaintext blocks derived from a
// seed.  Every cell is uniformly distributed over the cell width.
type Source struct {
	xof  sha3.ShakeHash
	mask byte
}

// NewSource returns a Source of w-bit cell blocks keyed by seed.
func NewSource(seed []byte, w cell.Width) *Source {
	xof := sha3.NewShake256()
	_, _ = xof.Write([]byte(sourceDomain))
	_, _ = xof.Write(seed)

	return &Source{
		xof:  xof,
		mask: w.Mask(),
	}
}

// Next returns the next block.
func (s *Source) Next() []byte {
	block := make([]byte, api.BlockSize)
	_, _ = s.xof.Read(block)
	for i := range block {
		block[i] &= s.mask
	}
	return block
}
