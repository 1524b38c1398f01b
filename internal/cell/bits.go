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

// ExpandBits converts w-bit cells into individual bits, most significant
// bit of each cell first.
func ExpandBits(cells []byte, w Width) []bool {
	w.mustValid()

	bits := make([]bool, 0, len(cells)*int(w))
	for _, c := range cells {
		for i := int(w) - 1; i >= 0; i-- {
			bits = append(bits, (c>>uint(i))&1 == 1)
		}
	}
	return bits
}

// RestoreData packs bits, most significant first, back into w-bit cells.
// It is the inverse of ExpandBits.
func RestoreData(bits []bool, w Width) []byte {
	w.mustValid()
	if len(bits)%int(w) != 0 {
		violate("%d bits do not split into %s cells", len(bits), w)
	}

	cells := make([]byte, len(bits)/int(w))
	for i := range cells {
		var c byte
		for _, b := range bits[i*int(w) : (i+1)*int(w)] {
			c <<= 1
			if b {
				c |= 1
			}
		}
		cells[i] = c
	}
	return cells
}

// RotateBits returns bits rotated left by n positions.
func RotateBits(bits []bool, n int) []bool {
	out := make([]bool, len(bits))
	if len(bits) == 0 {
		return out
	}
	n %= len(bits)
	copy(out, bits[n:])
	copy(out[len(bits)-n:], bits[:n])
	return out
}

// PermuteBits scatters bits so that input bit j lands on output bit
// perm[j].
func PermuteBits(bits []bool, perm []byte) []bool {
	if len(perm) != len(bits) {
		violate("bit permutation of %d entries applied to %d bits", len(perm), len(bits))
	}
	out := make([]bool, len(bits))
	for j, b := range bits {
		out[perm[j]] = b
	}
	return out
}

// GatherBits is the inverse of PermuteBits: output bit j is input bit
// perm[j].
func GatherBits(bits []bool, perm []byte) []bool {
	if len(perm) != len(bits) {
		violate("bit permutation of %d entries applied to %d bits", len(perm), len(bits))
	}
	out := make([]bool, len(bits))
	for j := range out {
		out[j] = bits[perm[j]]
	}
	return out
}
