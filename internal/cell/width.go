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

// Package cell provides the 4x4 cell algebra shared by the lightweight
// block ciphers: vectors and matrices of 4-bit or 8-bit cells, Galois
// field multiplication, table substitution and bit expansion.
package cell

import "fmt"

// Width is the size of a cell in bits.
type Width uint8

const (
	// Nibble is a 4-bit cell (LED, PRESENT, SKINNY-64).
	Nibble Width = 4

	// Byte is an 8-bit cell (SKINNY-128, AES).
	Byte Width = 8
)

// InvariantViolation is the panic value raised when the algebra is used
// in a way that can only be a programming error, such as substituting
// through a table of the wrong size.
type InvariantViolation struct {
	What string
}

func (v InvariantViolation) Error() string {
	return "cell: invariant violation: " + v.What
}

func violate(format string, args ...interface{}) {
	panic(InvariantViolation{What: fmt.Sprintf(format, args...)})
}

// Valid returns true iff w is a supported cell width.
func (w Width) Valid() bool {
	return w == Nibble || w == Byte
}

// Mask returns the bit mask covering a single cell.
func (w Width) Mask() byte {
	w.mustValid()
	return byte(0xff >> (8 - w))
}

// Size returns the number of distinct cell values, which is also the
// required length of a substitution table.
func (w Width) Size() int {
	w.mustValid()
	return 1 << w
}

// Fits returns true iff v is representable in a single cell.
func (w Width) Fits(v byte) bool {
	return v&^w.Mask() == 0
}

// Poly returns the low bits of the irreducible polynomial defining
// GF(2^w): x^4+x+1 for nibbles and x^8+x^4+x^3+x+1 for bytes.
func (w Width) Poly() byte {
	switch w {
	case Nibble:
		return 0x03
	case Byte:
		return 0x1b
	}
	violate("no irreducible polynomial for width %d", w)
	return 0
}

func (w Width) String() string {
	return fmt.Sprintf("%d-bit", uint8(w))
}

func (w Width) mustValid() {
	if !w.Valid() {
		violate("unsupported cell width %d", w)
	}
}

// GMul multiplies a and b in GF(2^w) with a carry-less shift-and-add,
// reducing by the width's irreducible polynomial.
func GMul(a, b byte, w Width) byte {
	poly, mask := w.Poly(), w.Mask()
	hi := byte(1) << (w - 1)

	var p byte
	for a != 0 && b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		carry := a & hi
		a = (a << 1) & mask
		if carry != 0 {
			a ^= poly
		}
		b >>= 1
	}
	return p & mask
}
