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

package cell

// Vector is a row of four cells.
type Vector [4]byte

// Xor returns the cell-wise XOR of v and o.
func (v Vector) Xor(o Vector) Vector {
	return Vector{v[0] ^ o[0], v[1] ^ o[1], v[2] ^ o[2], v[3] ^ o[3]}
}

// And returns the cell-wise AND of v and o.
func (v Vector) And(o Vector) Vector {
	return Vector{v[0] & o[0], v[1] & o[1], v[2] & o[2], v[3] & o[3]}
}

// LRot rotates the cells one position to the left.
func (v Vector) LRot() Vector {
	return Vector{v[1], v[2], v[3], v[0]}
}

// RRot rotates the cells one position to the right.
func (v Vector) RRot() Vector {
	return Vector{v[3], v[0], v[1], v[2]}
}

// LRotN rotates the cells n positions to the left.
func (v Vector) LRotN(n int) Vector {
	n &= 3
	return Vector{v[n], v[(n+1)&3], v[(n+2)&3], v[(n+3)&3]}
}

// RRotN rotates the cells n positions to the right.
func (v Vector) RRotN(n int) Vector {
	return v.LRotN(4 - n&3)
}

// GMul returns the cell-wise GF(2^w) product of v and o.
func (v Vector) GMul(o Vector, w Width) Vector {
	return Vector{
		GMul(v[0], o[0], w),
		GMul(v[1], o[1], w),
		GMul(v[2], o[2], w),
		GMul(v[3], o[3], w),
	}
}

// Scale multiplies every cell of v by the scalar s in GF(2^w).
func (v Vector) Scale(s byte, w Width) Vector {
	return v.GMul(Vector{s, s, s, s}, w)
}

// Sub replaces every cell with table[cell].  The table must hold
// exactly 2^w entries.
func (v Vector) Sub(table []byte, w Width) Vector {
	checkTable(table, w)
	return Vector{table[v[0]], table[v[1]], table[v[2]], table[v[3]]}
}

func checkTable(table []byte, w Width) {
	if len(table) != w.Size() {
		violate("substitution table has %d entries, %s cells need %d", len(table), w, w.Size())
	}
}
