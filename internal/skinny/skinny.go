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

// Package skinny implements the SKINNY-64 and SKINNY-128 tweakable block
// ciphers with one, two or three tweakey words, used as plain block
// ciphers (the whole tweakey is key material).
//
// See: https://eprint.iacr.org/2016/660.pdf
package skinny

import (
	"fmt"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/fault"
)

const (
	// Name64 is the algorithm name of SKINNY with 4-bit cells.
	Name64 = "skinny64"

	// Name128 is the algorithm name of SKINNY with 8-bit cells.
	Name128 = "skinny128"
)

type variant struct {
	w     cell.Width
	words int
}

var rounds = map[variant]int{
	{cell.Nibble, 1}: 32,
	{cell.Nibble, 2}: 36,
	{cell.Nibble, 3}: 40,
	{cell.Byte, 1}:   40,
	{cell.Byte, 2}:   48,
	{cell.Byte, 3}:   56,
}

var (
	// Factory64 creates SKINNY-64 instances.
	Factory64 api.Factory = &skinnyFactory{name: Name64, w: cell.Nibble}

	// Factory128 creates SKINNY-128 instances.
	Factory128 api.Factory = &skinnyFactory{name: Name128, w: cell.Byte}
)

type skinnyFactory struct {
	name string
	w    cell.Width
}

func (f *skinnyFactory) Name() string {
	return f.name
}

func (f *skinnyFactory) Width() cell.Width {
	return f.w
}

func (f *skinnyFactory) KeySizes() []int {
	return []int{api.BlockSize, 2 * api.BlockSize, 3 * api.BlockSize}
}

func (f *skinnyFactory) New(key []byte) (api.Cipher, error) {
	c, err := New(key, f.w)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *skinnyFactory) Canonical() *api.Tables {
	return canonicalTables(f.w)
}

func canonicalTables(w cell.Width) *api.Tables {
	s, rs := tablesFor(w)
	m, rm := mds, rmds
	return &api.Tables{
		Sbox:           append([]byte{}, s...),
		Rsbox:          append([]byte{}, rs...),
		MDS:            &m,
		RMDS:           &rm,
		RoundConstants: append([]byte{}, rcons[:]...),
		Permutation:    append([]byte{}, tkPerm[:]...),
	}
}

func tablesFor(w cell.Width) ([]byte, []byte) {
	if w == cell.Nibble {
		return sbox4[:], rsbox4[:]
	}
	return sbox8[:], rsbox8[:]
}

// Cipher is a keyed SKINNY instance.
type Cipher struct {
	name      string
	w         cell.Width
	roundKeys []cell.Matrix

	sbox  []byte
	rsbox []byte
}

// New creates a SKINNY instance with w-bit cells from a key of 16, 32 or
// 48 cells.
func New(key []byte, w cell.Width) (*Cipher, error) {
	algo := Name128
	if w == cell.Nibble {
		algo = Name64
	}
	if !w.Valid() {
		return nil, api.NewKeySizeError("skinny", len(key), w)
	}

	words := len(key) / api.BlockSize
	nr, ok := rounds[variant{w, words}]
	if !ok || len(key)%api.BlockSize != 0 {
		return nil, api.NewKeySizeError(algo, len(key), w)
	}
	if err := api.CheckKey(algo, key, w); err != nil {
		return nil, err
	}

	s, rs := tablesFor(w)
	return &Cipher{
		name:      fmt.Sprintf("SKINNY-%d-%d", api.BlockSize*int(w), len(key)*int(w)),
		w:         w,
		roundKeys: expandTweakey(key, w, nr),
		sbox:      s,
		rsbox:     rs,
	}, nil
}

func (c *Cipher) Name() string {
	return c.name
}

func (c *Cipher) Width() cell.Width {
	return c.w
}

// Rounds returns the number of rounds, which equals the number of round
// keys.
func (c *Cipher) Rounds() int {
	return len(c.roundKeys)
}

func (c *Cipher) Encrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "encrypt", src, c.w)
	if err != nil {
		return nil, err
	}

	for r, rk := range c.roundKeys {
		state = state.Sub(c.sbox, c.w)
		state = addConstants(state, r)
		state = state.Xor(rk)
		state = state.RRot()
		state = mds.GMul(state, c.w)
	}

	return state.Bytes(), nil
}

func (c *Cipher) Decrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "decrypt", src, c.w)
	if err != nil {
		return nil, err
	}

	for r := len(c.roundKeys) - 1; r >= 0; r-- {
		state = rmds.GMul(state, c.w)
		state = state.LRot()
		state = state.Xor(c.roundKeys[r])
		state = addConstants(state, r)
		state = state.Sub(c.rsbox, c.w)
	}

	return state.Bytes(), nil
}

func addConstants(state cell.Matrix, round int) cell.Matrix {
	rc := rcons[round]
	state[0][0] ^= rc & 0xf
	state[1][0] ^= rc >> 4
	state[2][0] ^= 0x2
	return state
}

func (c *Cipher) WithSboxByte(index int, value byte) api.Cipher {
	s, _ := tablesFor(c.w)
	out := *c
	out.sbox = fault.Inject(s, index, value, c.w)
	return &out
}

func (c *Cipher) WithRsboxByte(index int, value byte) api.Cipher {
	_, rs := tablesFor(c.w)
	out := *c
	out.rsbox = fault.Inject(rs, index, value, c.w)
	return &out
}

func (c *Cipher) RoundKeys() []cell.Matrix {
	return api.CloneKeys(c.roundKeys)
}

func (c *Cipher) Tables() *api.Tables {
	t := canonicalTables(c.w)
	t.Sbox = append([]byte{}, c.sbox...)
	t.Rsbox = append([]byte{}, c.rsbox...)
	return t
}

var _ api.Cipher = (*Cipher)(nil)
