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

package rijndael

import (
	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

type word [4]byte

func subWord(w word) word {
	return word{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}

func rotWord(w word) word {
	return word{w[1], w[2], w[3], w[0]}
}

// expandKey returns the nr+1 round keys of the FIPS-197 key expansion,
// each laid out as the state: word j of a round key is column j.
func expandKey(key []byte, nr int) []cell.Matrix {
	nk := len(key) / 4
	ws := make([]word, 4*(nr+1))
	for i := 0; i < nk; i++ {
		copy(ws[i][:], key[4*i:])
	}
	for i := nk; i < len(ws); i++ {
		t := ws[i-1]
		switch {
		case i%nk == 0:
			t = subWord(rotWord(t))
			t[0] ^= rcon[i/nk-1]
		case nk > 6 && i%nk == 4:
			t = subWord(t)
		}
		for j := range t {
			ws[i][j] = ws[i-nk][j] ^ t[j]
		}
	}

	rks := make([]cell.Matrix, nr+1)
	var buf [api.BlockSize]byte
	for r := range rks {
		for j := 0; j < 4; j++ {
			copy(buf[4*j:], ws[4*r+j][:])
		}
		rks[r] = cell.MustState(buf[:]).Transpose()
	}
	return rks
}
