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

// Package rijndael implements AES-128, AES-192 and AES-256 on the cell
// algebra, so that the substitution tables can be faulted.
//
// Instances with the canonical tables are backed by a constant time
// implementation (crypto/aes when the CPU has AES instructions, bsaes
// otherwise).  Faulted instances run the table driven rounds.
package rijndael

import (
	"crypto/cipher"
	"fmt"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/fault"
)

// Name is the algorithm name.
const Name = "aes"

// Number of rounds, keyed by key length in bytes.
var rounds = map[int]int{
	16: 10,
	24: 12,
	32: 14,
}

// Factory creates AES instances.
var Factory api.Factory = &aesFactory{}

type aesFactory struct{}

func (f *aesFactory) Name() string {
	return Name
}

func (f *aesFactory) Width() cell.Width {
	return cell.Byte
}

func (f *aesFactory) KeySizes() []int {
	return []int{16, 24, 32}
}

func (f *aesFactory) New(key []byte) (api.Cipher, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *aesFactory) Canonical() *api.Tables {
	return canonicalTables()
}

func canonicalTables() *api.Tables {
	m, rm := mds, rmds
	return &api.Tables{
		Sbox:           append([]byte{}, sbox[:]...),
		Rsbox:          append([]byte{}, rsbox[:]...),
		MDS:            &m,
		RMDS:           &rm,
		RoundConstants: append([]byte{}, rcon[:]...),
	}
}

// Cipher is a keyed AES instance.
type Cipher struct {
	name      string
	nr        int
	roundKeys []cell.Matrix

	sbox  []byte
	rsbox []byte

	// block is nil once either table has been faulted.
	block cipher.Block
}

// New creates an AES instance from a 16, 24 or 32 byte key.
func New(key []byte) (*Cipher, error) {
	nr, ok := rounds[len(key)]
	if !ok {
		return nil, api.NewKeySizeError(Name, len(key), cell.Byte)
	}

	block, err := impl.New(key)
	if err != nil {
		return nil, &api.ConstructionError{Cipher: Name, KeyLen: len(key), Width: cell.Byte, Err: err}
	}

	return &Cipher{
		name:      fmt.Sprintf("AES-%d", len(key)*8),
		nr:        nr,
		roundKeys: expandKey(key, nr),
		sbox:      sbox[:],
		rsbox:     rsbox[:],
		block:     block,
	}, nil
}

func (c *Cipher) Name() string {
	return c.name
}

func (c *Cipher) Width() cell.Width {
	return cell.Byte
}

// Rounds returns the number of rounds.  There are Rounds()+1 round keys.
func (c *Cipher) Rounds() int {
	return c.nr
}

func (c *Cipher) Encrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "encrypt", src, cell.Byte)
	if err != nil {
		return nil, err
	}

	if c.block != nil {
		dst := make([]byte, api.BlockSize)
		c.block.Encrypt(dst, src)
		return dst, nil
	}

	return c.encryptState(state.Transpose()).Transpose().Bytes(), nil
}

func (c *Cipher) Decrypt(src []byte) ([]byte, error) {
	state, err := api.LoadBlock(c.name, "decrypt", src, cell.Byte)
	if err != nil {
		return nil, err
	}

	if c.block != nil {
		dst := make([]byte, api.BlockSize)
		c.block.Decrypt(dst, src)
		return dst, nil
	}

	return c.decryptState(state.Transpose()).Transpose().Bytes(), nil
}

func (c *Cipher) encryptState(state cell.Matrix) cell.Matrix {
	for r := 0; r < c.nr; r++ {
		state = state.Xor(c.roundKeys[r])
		state = state.Sub(c.sbox, cell.Byte)
		state = state.LRot()
		if r != c.nr-1 {
			state = mds.GMul(state, cell.Byte)
		}
	}
	return state.Xor(c.roundKeys[c.nr])
}

func (c *Cipher) decryptState(state cell.Matrix) cell.Matrix {
	state = state.Xor(c.roundKeys[c.nr])
	for r := c.nr - 1; r >= 0; r-- {
		if r != c.nr-1 {
			state = rmds.GMul(state, cell.Byte)
		}
		state = state.RRot()
		state = state.Sub(c.rsbox, cell.Byte)
		state = state.Xor(c.roundKeys[r])
	}
	return state
}

func (c *Cipher) WithSboxByte(index int, value byte) api.Cipher {
	out := *c
	out.sbox = fault.Inject(sbox[:], index, value, cell.Byte)
	out.block = nil
	return &out
}

func (c *Cipher) WithRsboxByte(index int, value byte) api.Cipher {
	out := *c
	out.rsbox = fault.Inject(rsbox[:], index, value, cell.Byte)
	out.block = nil
	return &out
}

// RoundKeys returns the Rounds()+1 round keys laid out as the state, so
// the FIPS-197 byte order of a round key is rk.Transpose().Bytes().
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
