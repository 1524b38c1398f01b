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

package present

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
)

func nibbles(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return cell.RestoreData(cell.ExpandBits(b, cell.Byte), cell.Nibble)
}

// blockOf converts a conventional big-endian PRESENT block into the
// transposed cell order used by Encrypt and Decrypt.
func blockOf(s string) []byte {
	return cell.MustState(nibbles(s)).Transpose().Bytes()
}

func TestBlockVectors(t *testing.T) {
	for _, tc := range []struct {
		name       string
		keyLen     int
		ciphertext string
	}{
		{"PRESENT-80", keyLen80, "5c7851b473249825"},
		{"PRESENT-128", keyLen128, "972060e0d26aba9f"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)

			c, err := New(make([]byte, tc.keyLen))
			require.NoError(err, "New()")
			require.Equal(tc.name, c.Name(), "Name()")

			pt := make([]byte, api.BlockSize)
			ct, err := c.Encrypt(pt)
			require.NoError(err, "Encrypt()")
			require.Equal(nibbles(tc.ciphertext), ct, "Encrypt()")

			dt, err := c.Decrypt(ct)
			require.NoError(err, "Decrypt()")
			require.Equal(pt, dt, "Decrypt()")
		})
	}
}

func TestOfficialVectors(t *testing.T) {
	for _, tc := range []struct {
		key        string
		plaintext  string
		ciphertext string
	}{
		{"00000000000000000000", "0000000000000000", "5579c1387b228445"},
		{"ffffffffffffffffffff", "0000000000000000", "e72c46c0f5945049"},
		{"00000000000000000000", "ffffffffffffffff", "a112ffc72f68417b"},
		{"ffffffffffffffffffff", "ffffffffffffffff", "3333dcd3213210d2"},
		{"00000000000000000000000000000000", "0000000000000000", "96db702a2e6900af"},
	} {
		require := require.New(t)

		c, err := New(nibbles(tc.key))
		require.NoError(err, "New(): %s", tc.key)

		ct, err := c.Encrypt(blockOf(tc.plaintext))
		require.NoError(err, "Encrypt(): %s", tc.key)
		require.Equal(blockOf(tc.ciphertext), ct, "Encrypt(): %s/%s", tc.key, tc.plaintext)
	}
}

func TestKeySchedule(t *testing.T) {
	require := require.New(t)

	c, err := New(make([]byte, keyLen80))
	require.NoError(err, "New()")

	rks := c.RoundKeys()
	require.Len(rks, Rounds+1, "RoundKeys()")
	require.Equal(cell.Matrix{}, rks[0], "first round key of the zero key")
	require.Equal(nibbles("6dab31744f41d700"), rks[Rounds].Bytes(), "last round key")

	// Round keys are copies.
	rks[Rounds][0][0] ^= 1
	require.Equal(nibbles("6dab31744f41d700"), c.RoundKeys()[Rounds].Bytes(), "RoundKeys() aliasing")

	c128, err := New(make([]byte, keyLen128))
	require.NoError(err, "New(): 128")
	require.Len(c128.RoundKeys(), Rounds+1, "RoundKeys(): 128")
	require.NotEqual(rks[1], c128.RoundKeys()[1], "key size changes the schedule")
}

func TestPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cells := rapid.SliceOfN(rapid.ByteMax(0xf), api.BlockSize, api.BlockSize).Draw(t, "cells")
		state := cell.MustState(cells)
		require.Equal(t, state, invPermute(permute(state)))
	})

	require := require.New(t)
	var state cell.Matrix
	state[0][0] = 0x8 // Bit 0.
	require.Equal(state, permute(state), "bit 0 is a fixed point")

	state[0][0] = 0x4 // Bit 1 moves to bit 16.
	var want cell.Matrix
	want[1][0] = 0x8
	require.Equal(want, permute(state), "bit 1")
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keyLen := rapid.SampledFrom([]int{keyLen80, keyLen128}).Draw(t, "keyLen")
		key := rapid.SliceOfN(rapid.ByteMax(0xf), keyLen, keyLen).Draw(t, "key")
		pt := rapid.SliceOfN(rapid.ByteMax(0xf), api.BlockSize, api.BlockSize).Draw(t, "pt")

		c, err := New(key)
		require.NoError(t, err)
		ct, err := c.Encrypt(pt)
		require.NoError(t, err)
		dt, err := c.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, pt, dt)
	})
}

func TestErrors(t *testing.T) {
	require := require.New(t)

	for _, n := range []int{0, 16, 21, 31} {
		_, err := New(make([]byte, n))
		var ce *api.ConstructionError
		require.True(errors.As(err, &ce), "New(): %d", n)
		require.Equal(Name, ce.Cipher, "ConstructionError.Cipher")
	}

	c, err := New(make([]byte, keyLen80))
	require.NoError(err, "New()")
	_, err = c.Encrypt(make([]byte, 8))
	require.True(errors.Is(err, api.ErrInvalidBlockSize), "Encrypt(): short block")
}

func TestFault(t *testing.T) {
	require := require.New(t)

	c, err := New(make([]byte, keyLen80))
	require.NoError(err, "New()")

	f := c.WithSboxByte(5, 0x3)
	require.Equal(c.RoundKeys(), f.RoundKeys(), "fault must not touch the key schedule")
	require.Equal([]int{5}, diff(Factory.Canonical().Sbox, f.Tables().Sbox), "faulted entries")
	require.Equal(sbox[:], c.Tables().Sbox, "original instance untouched")

	g := f.WithSboxByte(7, 0x1)
	require.Equal([]int{7}, diff(Factory.Canonical().Sbox, g.Tables().Sbox), "faults do not accumulate")
}

func diff(a, b []byte) []int {
	var idx []int
	for i := range a {
		if a[i] != b[i] {
			idx = append(idx, i)
		}
	}
	return idx
}
