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

// Package present implements the PRESENT block cipher with 80 and 128
// bit keys.
//
// Blocks are 16 nibbles.  The state is the transpose of the block, so
// the conventional big-endian encoding of a PRESENT block is obtained by
// reading the block column by column.
//
// See: https://www.iacr.org/archive/ches2007/47270450/47270450.pdf
package present

import (
	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/fault"
)

const (
	// Name is the algorithm name.
	Name = "present"

	// Rounds is the number of substitution-permutation rounds.  There
	// are Rounds+1 round keys.
	Rounds = 31

	keyLen80  = 20
	keyLen128 = 32
)

// Factory creates PRESENT instances.
var Factory api.Factory = &presentFactory{}

type presentFactory struct{}

func (f *presentFactory) Name() string {
	return Name
}

func (f *presentFactory) Width() cell.Width {
	return cell.Nibble
}

func (f *presentFactory) KeySizes() []int {
	return []int{keyLen80, keyLen128}
}

func (f *presentFactory) New(key []byte) (api.Cipher, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *presentFactory) Canonical() *api.Tables {
	return canonicalTables()
}

func canonicalTables() *api.Tables {
	return &api.Tables{
		Sbox:           append([]byte{}, sbox[:]...),
		Rsbox:          append([]byte{}, rsbox[:]...),
		RoundConstants: append([]byte{}, counters[:]...),
		Permutation:    append([]byte{}, pbox[:]...),
	}
}

// Cipher is a keyed PRESENT instance.
type Cipher struct {
	name      string
	roundKeys []cell.Matrix

	sbox  []byte
	rsbox []byte
}

// New creates a PRESENT instance from a key of 20 or 32 nibbles.
func New(key []byte) (*Cipher, error) {
	var name string
	switch len(key) {
	case keyLen80:
		name = "PRESENT-80"
	case keyLen128:
		name = "PRESENT-128"
	default:
		return nil, api.NewKeySizeError(Name, len(key), cell.Nibble)
	}
	if err := api.CheckKey(Name, key, cell.Nibble); err != nil {
		return nil, err
	}

	return &Cipher{
		name:      name,
		roundKeys: expandKey(key),
		sbox:      sbox[:],
		rsbox:     rsbox[:],
	}, nil
}

func (c *Cipher) Name() string {
	return c.name
}

func (c *Cipher) Width() cell.Width {
	return cell.Nibble
}

func (c *Cipher) Encrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "encrypt", src, cell.Nibble)
	if err != nil {
		return nil, err
	}
	state = state.Transpose()

	for i := 0; i < Rounds; i++ {
		state = state.Xor(c.roundKeys[i])
		state = state.Sub(c.sbox, cell.Nibble)
		state = permute(state)
	}
	state = state.Xor(c.roundKeys[Rounds])

	return state.Transpose().Bytes(), nil
}

func (c *Cipher) Decrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "decrypt", src, cell.Nibble)
	if err != nil {
		return nil, err
	}
	state = state.Transpose()

	state = state.Xor(c.roundKeys[Rounds])
	for i := Rounds - 1; i >= 0; i-- {
		state = invPermute(state)
		state = state.Sub(c.rsbox, cell.Nibble)
		state = state.Xor(c.roundKeys[i])
	}

	return state.Transpose().Bytes(), nil
}

func permute(state cell.Matrix) cell.Matrix {
	bits := cell.PermuteBits(cell.ExpandBits(state.Bytes(), cell.Nibble), pbox[:])
	return cell.MustState(cell.RestoreData(bits, cell.Nibble))
}

func invPermute(state cell.Matrix) cell.Matrix {
	bits := cell.GatherBits(cell.ExpandBits(state.Bytes(), cell.Nibble), pbox[:])
	return cell.MustState(cell.RestoreData(bits, cell.Nibble))
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

// RoundKeys returns the Rounds+1 round keys in register order, which is
// the transpose of the block order.
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
