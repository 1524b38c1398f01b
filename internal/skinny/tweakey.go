// Copyright (c) 2019 Oasis Labs Inc. <info@oasislabs.com>
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

package skinny

import (
	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

// roundKeyMask keeps the two rows of the tweakey state that are added
// to the state.
var roundKeyMask = cell.Matrix{
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// expandTweakey derives one round key per round.  The round key is the
// XOR of every tweakey word, masked to its first two rows.  Between
// rounds each word is permuted through tkPerm, and the top rows of TK2
// and TK3 are clocked through their LFSRs.
func expandTweakey(key []byte, w cell.Width, rounds int) []cell.Matrix {
	tks := make([][api.BlockSize]byte, len(key)/api.BlockSize)
	for i := range tks {
		copy(tks[i][:], key[i*api.BlockSize:])
	}

	rks := make([]cell.Matrix, rounds)
	for r := range rks {
		var rk cell.Matrix
		for _, tk := range tks {
			rk = rk.Xor(cell.MustState(tk[:]))
		}
		rks[r] = rk.And(roundKeyMask)

		for i := range tks {
			tks[i] = updateTweakey(tks[i], i, w)
		}
	}
	return rks
}

func updateTweakey(tk [api.BlockSize]byte, word int, w cell.Width) [api.BlockSize]byte {
	var out [api.BlockSize]byte
	for j := range out {
		out[j] = tk[tkPerm[j]]
	}
	if word == 0 {
		return out
	}
	for j := 0; j < api.BlockSize/2; j++ {
		out[j] = lfsr(out[j], word, w)
	}
	return out
}

// lfsr clocks a single cell of TK2 (word 1) or TK3 (word 2).
func lfsr(c byte, word int, w cell.Width) byte {
	switch {
	case word == 1 && w == cell.Nibble:
		return ((c << 1) & 0xf) ^ (((c >> 3) ^ (c >> 2)) & 1)
	case word == 1 && w == cell.Byte:
		return (c << 1) | (((c >> 7) ^ (c >> 5)) & 1)
	case word == 2 && w == cell.Nibble:
		return (c >> 1) | (((c << 3) ^ c) & 8)
	case word == 2 && w == cell.Byte:
		return (c >> 1) | (((c << 7) ^ (c << 1)) & 0x80)
	}
	panic(api.InvariantViolation{What: "skinny: no tweakey LFSR for this word"})
}
