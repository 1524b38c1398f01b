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

// Package led implements the LED-64 block cipher with 64, 80 and 128 bit
// keys.
//
// See: https://eprint.iacr.org/2012/600.pdf
package led

import (
	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/fault"
)

const (
	// Name is the algorithm name.
	Name = "led"

	// RoundsPerStep is the number of rounds between key additions.
	RoundsPerStep = 4
)

// Number of steps, keyed by key length in nibbles.
var steps = map[int]int{
	16: 8,
	20: 10,
	32: 12,
}

// Factory creates LED instances.
var Factory api.Factory = &ledFactory{}

type ledFactory struct{}

func (f *ledFactory) Name() string {
	return Name
}

func (f *ledFactory) Width() cell.Width {
	return cell.Nibble
}

func (f *ledFactory) KeySizes() []int {
	return []int{16, 20, 32}
}

func (f *ledFactory) New(key []byte) (api.Cipher, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *ledFactory) Canonical() *api.Tables {
	return canonicalTables()
}

func canonicalTables() *api.Tables {
	m, rm := mds, rmds
	return &api.Tables{
		Sbox:           append([]byte{}, sbox[:]...),
		Rsbox:          append([]byte{}, rsbox[:]...),
		MDS:            &m,
		RMDS:           &rm,
		RoundConstants: append([]byte{}, rcons[:]...),
	}
}

// Cipher is a keyed LED instance.
type Cipher struct {
	name      string
	keyBits   byte
	steps     int
	roundKeys []cell.Matrix

	sbox  []byte
	rsbox []byte
}

// New creates a LED instance from a key of 16, 20 or 32 nibbles.
func New(key []byte) (*Cipher, error) {
	ns, ok := steps[len(key)]
	if !ok {
		return nil, api.NewKeySizeError(Name, len(key), cell.Nibble)
	}
	if err := api.CheckKey(Name, key, cell.Nibble); err != nil {
		return nil, err
	}

	c := &Cipher{
		name:      nameFor(len(key)),
		keyBits:   byte(len(key) * 4),
		steps:     ns,
		roundKeys: expandKey(key, ns),
		sbox:      sbox[:],
		rsbox:     rsbox[:],
	}
	return c, nil
}

func nameFor(keyLen int) string {
	switch keyLen {
	case 16:
		return "LED-64"
	case 20:
		return "LED-80"
	default:
		return "LED-128"
	}
}

// expandKey reads the key cyclically: injection r uses cells r*16 ...
// r*16+15 modulo the key length.
func expandKey(key []byte, ns int) []cell.Matrix {
	rks := make([]cell.Matrix, ns+1)
	var buf [api.BlockSize]byte
	for r := range rks {
		for i := range buf {
			buf[i] = key[(r*api.BlockSize+i)%len(key)]
		}
		rks[r] = cell.MustState(buf[:])
	}
	return rks
}

func (c *Cipher) Name() string {
	return c.name
}

func (c *Cipher) Width() cell.Width {
	return cell.Nibble
}

// Steps returns the number of steps of RoundsPerStep rounds.
func (c *Cipher) Steps() int {
	return c.steps
}

func (c *Cipher) Encrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "encrypt", src, cell.Nibble)
	if err != nil {
		return nil, err
	}

	for i := 0; i < c.steps; i++ {
		state = state.Xor(c.roundKeys[i])
		state = c.step(state, i)
	}
	state = state.Xor(c.roundKeys[c.steps])

	return state.Bytes(), nil
}

func (c *Cipher) Decrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "decrypt", src, cell.Nibble)
	if err != nil {
		return nil, err
	}

	state = state.Xor(c.roundKeys[c.steps])
	for i := c.steps - 1; i >= 0; i-- {
		state = c.invStep(state, i)
		state = state.Xor(c.roundKeys[i])
	}

	return state.Bytes(), nil
}

func (c *Cipher) step(state cell.Matrix, s int) cell.Matrix {
	for i := 0; i < RoundsPerStep; i++ {
		state = addConstants(state, s*RoundsPerStep+i, c.keyBits)
		state = state.Sub(c.sbox, cell.Nibble)
		state = state.LRot()
		state = mds.GMul(state, cell.Nibble)
	}
	return state
}

func (c *Cipher) invStep(state cell.Matrix, s int) cell.Matrix {
	for i := RoundsPerStep - 1; i >= 0; i-- {
		state = rmds.GMul(state, cell.Nibble)
		state = state.RRot()
		state = state.Sub(c.rsbox, cell.Nibble)
		state = addConstants(state, s*RoundsPerStep+i, c.keyBits)
	}
	return state
}

// addConstants XORs the key size into the first column and the round
// constant into the second.
func addConstants(state cell.Matrix, round int, keyBits byte) cell.Matrix {
	rc := rcons[round]
	hi, lo := (keyBits>>4)&0xf, keyBits&0xf
	return state.Xor(cell.Matrix{
		{0 ^ hi, (rc >> 3) & 0x7, 0, 0},
		{1 ^ hi, rc & 0x7, 0, 0},
		{2 ^ lo, (rc >> 3) & 0x7, 0, 0},
		{3 ^ lo, rc & 0x7, 0, 0},
	})
}

func (c *Cipher) WithSboxByte(index int, value byte) api.Cipher {
	out := *c
	out.sbox = fault.Inject(sbox[:], index, value, cell.Nibble)
	return &out
}

func (c *Cipher) WithRsboxByte(index int, value byte) api.Cipher {
	out := *c
	out.rsbox = fault.Inject(rsbox[:], index, value, cell.Nibble)
	return &out
}

func (c *Cipher) RoundKeys() []cell.Matrix {
	return api.CloneKeys(c.roundKeys)
}

func (c *Cipher) Tables() *api.Tables {
	t := canonicalTables()
	t.Sbox = append([]byte{}, c.sbox...)
	t.Rsbox = append([]byte{}, c.rsbox...)
	return t
}

var _ api.Cipher = (*Cipher)(nil)
