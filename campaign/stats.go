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
	"fmt"
	"math"
	"strings"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

// Histogram counts the cell values observed at every block position.
type Histogram struct {
	w      cell.Width
	total  uint64
	counts [api.BlockSize][256]uint64
}

// NewHistogram returns an empty histogram of w-bit cells.
func NewHistogram(w cell.Width) *Histogram {
	if !w.Valid() {
		panic(api.InvariantViolation{What: fmt.Sprintf("campaign: histogram of %s cells", w)})
	}
	return &Histogram{w: w}
}

// Add counts one block.
func (h *Histogram) Add(block []byte) {
	if len(block) != api.BlockSize {
		panic(api.InvariantViolation{What: fmt.Sprintf("campaign: histogram block of %d cells", len(block))})
	}
	for pos, v := range block {
		h.counts[pos][v&h.w.Mask()]++
	}
	h.total++
}

// Merge adds the counts of o to h.
func (h *Histogram) Merge(o *Histogram) {
	if h.w != o.w {
		panic(api.InvariantViolation{What: "campaign: merging histograms of different widths"})
	}
	for pos := range h.counts {
		for v := range h.counts[pos] {
			h.counts[pos][v] += o.counts[pos][v]
		}
	}
	h.total += o.total
}

// Width returns the cell width.
func (h *Histogram) Width() cell.Width {
	return h.w
}

// Total returns the number of blocks counted.
func (h *Histogram) Total() uint64 {
	return h.total
}

// Count returns how many times v was observed at pos.
func (h *Histogram) Count(pos int, v byte) uint64 {
	return h.counts[pos][v]
}

// Missing returns the values never observed at pos, in ascending order.
func (h *Histogram) Missing(pos int) []byte {
	var out []byte
	for v := 0; v < h.w.Size(); v++ {
		if h.counts[pos][v] == 0 {
			out = append(out, byte(v))
		}
	}
	return out
}

// ResidualEntropy returns log2 of the number of key candidates left.
// A position with n missing values contributes n candidates.  A position
// where every value was observed carries no information and contributes
// all 2^w values, so zero bits means every position is down to a single
// candidate.
func (h *Histogram) ResidualEntropy() float64 {
	var bits float64
	for pos := range h.counts {
		if n := len(h.Missing(pos)); n > 0 {
			bits += math.Log2(float64(n))
		} else {
			bits += float64(h.w)
		}
	}
	return bits
}

// Saturated returns the positions where every value was observed.  A
// persistent fault leaves at least one value missing at every position
// of the peeled ciphertext, so a saturated position means the fault or
// the peeling does not match the cipher.
func (h *Histogram) Saturated() []int {
	var out []int
	for pos := range h.counts {
		if len(h.Missing(pos)) == 0 {
			out = append(out, pos)
		}
	}
	return out
}

func (h *Histogram) String() string {
	var b strings.Builder
	for pos := range h.counts {
		fmt.Fprintf(&b, "%2d: missing %x\n", pos, h.Missing(pos))
	}
	return b.String()
}

// Candidates returns, per position, the key cells consistent with the
// histogram when the final operation of the cipher is a substitution
// followed by a key addition at the same position.  A value v missing
// from the output means v ^ k was the substitution output the fault
// removed, so k = v ^ r for some removed value r.
func Candidates(h *Histogram, removed []byte) [api.BlockSize][]byte {
	var out [api.BlockSize][]byte
	for pos := range out {
		var seen [256]bool
		for _, m := range h.Missing(pos) {
			for _, r := range removed {
				k := m ^ r
				if !seen[k] {
					seen[k] = true
					out[pos] = append(out[pos], k)
				}
			}
		}
	}
	return out
}
