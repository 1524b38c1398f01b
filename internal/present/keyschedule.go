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

package present

import (
	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

// expandKey runs the key register update Rounds times, emitting the 16
// most significant nibbles of the register before every update.
func expandKey(key []byte) []cell.Matrix {
	reg := cell.ExpandBits(key, cell.Nibble)

	rks := make([]cell.Matrix, Rounds+1)
	for i := range rks {
		rks[i] = cell.MustState(cell.RestoreData(reg[:api.BlockSize*4], cell.Nibble))
		if i < Rounds {
			reg = updateKey(reg, counters[i], len(key))
		}
	}
	return rks
}

// updateKey rotates the register left by 61 bits, substitutes the top
// nibble (two for 128 bit keys), then mixes in the round counter.
func updateKey(reg []bool, counter byte, keyLen int) []bool {
	b := cell.RestoreData(cell.RotateBits(reg, 61), cell.Nibble)

	switch keyLen {
	case keyLen80:
		// Counter lands on register bits 19..15.
		b[0] = sbox[b[0]]
		b[15] ^= counter >> 1
		b[16] ^= (counter << 3) & 0xf
	case keyLen128:
		// Counter lands on register bits 66..62.
		b[0] = sbox[b[0]]
		b[1] = sbox[b[1]]
		b[15] ^= counter >> 2
		b[16] ^= (counter << 2) & 0xf
	default:
		panic(api.InvariantViolation{What: "present: key register of unexpected size"})
	}

	return cell.ExpandBits(b, cell.Nibble)
}
