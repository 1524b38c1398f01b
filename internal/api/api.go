// Copyright (c) 2019 Oasis Labs Inc. <info@oasislabs.com>
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

// Package api provides the interfaces and helpers shared by the cipher
// implementations.
package api

import (
	"github.com/evadfa/evacrypto/internal/cell"
)

// BlockSize is the size of a block in cells.  Every supported cipher
// operates on a 4x4 cell state, so a 64-bit cipher takes one nibble per
// byte and a 128-bit cipher one byte per byte.
const BlockSize = cell.StateCells

// Cipher is a keyed block cipher instance.  Instances are immutable, and
// safe for concurrent use.
type Cipher interface {
	// Name returns the name of the cipher variant (eg: "PRESENT-80").
	Name() string

	// Width returns the cell width of the state.
	Width() cell.Width

	// Encrypt encrypts a BlockSize cell block.
	Encrypt(src []byte) ([]byte, error)

	// Decrypt decrypts a BlockSize cell block.
	Decrypt(src []byte) ([]byte, error)

	// WithSboxByte returns a new instance whose substitution table
	// differs from the canonical one at index only.  The key schedule is
	// shared with the receiver.
	WithSboxByte(index int, value byte) Cipher

	// WithRsboxByte returns a new instance whose inverse substitution
	// table differs from the canonical one at index only.
	WithRsboxByte(index int, value byte) Cipher

	// RoundKeys returns a copy of the round keys, in the order they are
	// added to the state during encryption, laid out as the state.
	RoundKeys() []cell.Matrix

	// Tables returns a copy of the tables the instance uses.
	Tables() *Tables
}

// Factory constructs Cipher instances for one algorithm.
type Factory interface {
	// Name returns the algorithm name used to look up the factory.
	Name() string

	// Width returns the cell width of the algorithm.
	Width() cell.Width

	// KeySizes returns the supported key lengths in cells.
	KeySizes() []int

	// New creates a Cipher keyed with key, one cell per byte.
	New(key []byte) (Cipher, error)

	// Canonical returns the algorithm's constant tables.
	Canonical() *Tables
}

// Tables is the constant material of a cipher.  Fields that an algorithm
// does not use are nil.
type Tables struct {
	Sbox  []byte
	Rsbox []byte

	// MDS and RMDS are the diffusion matrix and its inverse over the
	// cipher's Galois field.
	MDS  *cell.Matrix
	RMDS *cell.Matrix

	// RoundConstants are consumed in order, one (or part of one) per
	// round.
	RoundConstants []byte

	// Permutation is a cell or bit permutation table (SKINNY's tweakey
	// permutation, PRESENT's bit permutation).
	Permutation []byte
}

// Clone returns a deep copy of t.
func (t *Tables) Clone() *Tables {
	if t == nil {
		return nil
	}
	out := &Tables{
		Sbox:           cloneBytes(t.Sbox),
		Rsbox:          cloneBytes(t.Rsbox),
		RoundConstants: cloneBytes(t.RoundConstants),
		Permutation:    cloneBytes(t.Permutation),
	}
	if t.MDS != nil {
		m := *t.MDS
		out.MDS = &m
	}
	if t.RMDS != nil {
		m := *t.RMDS
		out.RMDS = &m
	}
	return out
}

// CloneKeys returns a copy of a round key sequence.
func CloneKeys(keys []cell.Matrix) []cell.Matrix {
	return append([]cell.Matrix(nil), keys...)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
