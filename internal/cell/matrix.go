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

import "fmt"

// StateCells is the number of cells in a Matrix.
const StateCells = 16

// Matrix is a 4x4 array of cells stored row-major.  It is both the
// cipher state and the shape of diffusion matrices and round keys.
type Matrix [4]Vector

// CreateState packs exactly 16 cells into a row-major Matrix.
func CreateState(cells []byte) (Matrix, error) {
	var m Matrix
	if len(cells) != StateCells {
		return m, fmt.Errorf("cell: state needs %d cells, got %d", StateCells, len(cells))
	}
	for i := range m {
		copy(m[i][:], cells[i*4:])
	}
	return m, nil
}

// MustState is CreateState for callers that have already validated the
// length, such as constant tables.
func MustState(cells []byte) Matrix {
	m, err := CreateState(cells)
	if err != nil {
		violate("%v", err)
	}
	return m
}

// Array returns the cells of m in row-major order.
func (m Matrix) Array() [StateCells]byte {
	var out [StateCells]byte
	for i := range m {
		copy(out[i*4:], m[i][:])
	}
	return out
}

// Bytes returns the cells of m in row-major order as a new slice.
func (m Matrix) Bytes() []byte {
	a := m.Array()
	return a[:]
}

// Xor returns the cell-wise XOR of m and o.
func (m Matrix) Xor(o Matrix) Matrix {
	return Matrix{m[0].Xor(o[0]), m[1].Xor(o[1]), m[2].Xor(o[2]), m[3].Xor(o[3])}
}

// And returns the cell-wise AND of m and o.
func (m Matrix) And(o Matrix) Matrix {
	return Matrix{m[0].And(o[0]), m[1].And(o[1]), m[2].And(o[2]), m[3].And(o[3])}
}

// LRot rotates row i left by i positions.
func (m Matrix) LRot() Matrix {
	return Matrix{m[0], m[1].LRotN(1), m[2].LRotN(2), m[3].LRotN(3)}
}

// RRot rotates row i right by i positions.  It undoes LRot.
func (m Matrix) RRot() Matrix {
	return Matrix{m[0], m[1].RRotN(1), m[2].RRotN(2), m[3].RRotN(3)}
}

// Transpose swaps the row and column indices of m.
func (m Matrix) Transpose() Matrix {
	var out Matrix
	for i := range m {
		for j := range m[i] {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Sub replaces every cell with table[cell].
func (m Matrix) Sub(table []byte, w Width) Matrix {
	return Matrix{m[0].Sub(table, w), m[1].Sub(table, w), m[2].Sub(table, w), m[3].Sub(table, w)}
}

// MulVector returns the matrix-vector product over GF(2^w): cell i of
// the result is the XOR over k of m[i][k]*v[k].
func (m Matrix) MulVector(v Vector, w Width) Vector {
	var out Vector
	for i := range m {
		var acc byte
		for k := range v {
			acc ^= GMul(m[i][k], v[k], w)
		}
		out[i] = acc
	}
	return out
}

// GMul returns the product m*x over GF(2^w), treating each row of x as
// a vector.  Row i of the result is the XOR over k of m[i][k]*x[k], so
// every column of x is mixed independently.  This is the "mix columns"
// diffusion layer when m is a cipher's MDS matrix.
func (m Matrix) GMul(x Matrix, w Width) Matrix {
	var out Matrix
	for i := range m {
		for k := range x {
			out[i] = out[i].Xor(x[k].Scale(m[i][k], w))
		}
	}
	return out
}

// Overflow returns the index of the first cell that does not fit in w, or
// -1 if every cell fits.
func (m Matrix) Overflow(w Width) int {
	for i := range m {
		for j, v := range m[i] {
			if !w.Fits(v) {
				return i*4 + j
			}
		}
	}
	return -1
}

func (m Matrix) String() string {
	return fmt.Sprintf("%02x", m.Bytes())
}
