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

// Package fault implements single-entry substitution table faults, used
// to model a persistent stuck-at or random fault in a cipher's
// non-linear layer.
package fault

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

// Target selects the table a fault is injected into.
type Target int

const (
	// Sbox is the forward substitution table used by encryption.
	Sbox Target = iota

	// Rsbox is the inverse substitution table used by decryption.
	Rsbox
)

func (t Target) String() string {
	switch t {
	case Sbox:
		return "sbox"
	case Rsbox:
		return "rsbox"
	}
	return "target(" + strconv.Itoa(int(t)) + ")"
}

// Fault is a single substitution table entry override.
type Fault struct {
	Target Target
	Index  int
	Value  byte
}

func (f Fault) String() string {
	return fmt.Sprintf("%s[%d]=0x%02x", f.Target, f.Index, f.Value)
}

// Apply returns a copy of c carrying the fault.  c is not modified.
func (f Fault) Apply(c api.Cipher) api.Cipher {
	switch f.Target {
	case Sbox:
		return c.WithSboxByte(f.Index, f.Value)
	case Rsbox:
		return c.WithRsboxByte(f.Index, f.Value)
	}
	panic(api.InvariantViolation{What: "fault: unknown target " + f.Target.String()})
}

var faultRe = regexp.MustCompile(`^(sbox|rsbox)\[(\d+)\]=(0[xX][0-9a-fA-F]+|\d+)$`)

// Parse parses a fault descriptor of the form "sbox[3]=0x0d".
func Parse(s string) (Fault, error) {
	var f Fault

	m := faultRe.FindStringSubmatch(s)
	if m == nil {
		return f, fmt.Errorf("fault: malformed descriptor %q", s)
	}
	if m[1] == "rsbox" {
		f.Target = Rsbox
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return f, fmt.Errorf("fault: bad index in %q: %w", s, err)
	}
	val, err := strconv.ParseUint(m[3], 0, 8)
	if err != nil {
		return f, fmt.Errorf("fault: bad value in %q: %w", s, err)
	}
	f.Index, f.Value = idx, byte(val)

	return f, nil
}

// Inject returns a copy of table with table[index] replaced by value.
// The input table is never written to.
func Inject(table []byte, index int, value byte, w cell.Width) []byte {
	if len(table) != w.Size() {
		panic(api.InvariantViolation{What: fmt.Sprintf("fault: table has %d entries, want %d", len(table), w.Size())})
	}
	if index < 0 || index >= len(table) {
		panic(api.InvariantViolation{What: fmt.Sprintf("fault: index %d out of range [0, %d)", index, len(table))})
	}
	if !w.Fits(value) {
		panic(api.InvariantViolation{What: fmt.Sprintf("fault: value 0x%02x does not fit in %s", value, w)})
	}

	out := append([]byte{}, table...)
	out[index] = value
	return out
}

// Diff returns the indexes at which a and b differ.
func Diff(a, b []byte) []int {
	if len(a) != len(b) {
		panic(api.InvariantViolation{What: "fault: diff of tables with different sizes"})
	}
	var idx []int
	for i := range a {
		if a[i] != b[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Removed returns the values that appear in the output of canonical but
// not in the output of faulty, in ascending order.  For a permutation
// with one overridden entry this is the canonical value at the faulted
// index, unless the fault is a no-op.
func Removed(canonical, faulty []byte) []byte {
	var seen [256]bool
	for _, v := range faulty {
		seen[v] = true
	}
	var present [256]bool
	for _, v := range canonical {
		present[v] = true
	}
	var out []byte
	for v := range present {
		if present[v] && !seen[v] {
			out = append(out, byte(v))
		}
	}
	return out
}
