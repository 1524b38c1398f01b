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

package evacrypto

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"

	"github.com/evadfa/evacrypto/internal/fault"
)

func testFactories(t testing.TB) []Factory {
	var out []Factory
	for _, name := range Algorithms() {
		f, err := Lookup(name)
		require.NoError(t, err, "Lookup(): %s", name)
		out = append(out, f)
	}
	return out
}

func TestRegistry(t *testing.T) {
	require := require.New(t)

	require.Equal([]string{"aes", "led", "present", "skinny128", "skinny64"}, Algorithms(), "Algorithms()")

	_, err := Lookup("des")
	require.True(errors.Is(err, ErrUnknownAlgorithm), "Lookup(): unknown")
	c, err := New("des", make([]byte, 8))
	require.Nil(c, "New(): unknown")
	require.True(errors.Is(err, ErrUnknownAlgorithm), "New(): unknown")
	_, err = Canonical("des")
	require.True(errors.Is(err, ErrUnknownAlgorithm), "Canonical(): unknown")

	require.Panics(func() { register(factories["led"]) }, "register(): duplicate")
}

func TestImpl(t *testing.T) {
	for _, testFactory := range testFactories(t) {
		t.Run("Implementation_"+testFactory.Name(), func(t *testing.T) {
			doTestImpl(t, testFactory)
		})
	}
}

func doTestImpl(t *testing.T, f Factory) {
	require := require.New(t)

	// Every advertised key size works, its neighbours do not.
	for _, keyLen := range f.KeySizes() {
		c, err := f.New(make([]byte, keyLen))
		require.NoError(err, "New(): %d", keyLen)
		require.NotNil(c, "New(): %d", keyLen)
		require.Equal(f.Width(), c.Width(), "Width()")

		c, err = f.New(make([]byte, keyLen+1))
		require.Nil(c, "New(): %d", keyLen+1)
		var ce *ConstructionError
		require.True(errors.As(err, &ce), "New(): %d", keyLen+1)
		require.True(errors.Is(err, ErrInvalidKeySize), "New(): %d", keyLen+1)
	}

	c, err := f.New(make([]byte, f.KeySizes()[0]))
	require.NoError(err, "New()")

	// Blocks of the wrong size fail with no output.
	for _, n := range []int{0, BlockSize - 1, BlockSize + 1} {
		out, err := c.Encrypt(make([]byte, n))
		require.Nil(out, "Encrypt(): %d", n)
		var le *InputLengthError
		require.True(errors.As(err, &le), "Encrypt(): %d", n)
		require.Equal(n, le.Len, "InputLengthError.Len")

		out, err = c.Decrypt(make([]byte, n))
		require.Nil(out, "Decrypt(): %d", n)
		require.True(errors.Is(err, ErrInvalidBlockSize), "Decrypt(): %d", n)
	}

	// Canonical tables are copies.
	tables := f.Canonical()
	require.Len(tables.Sbox, f.Width().Size(), "Canonical(): Sbox")
	require.Len(tables.Rsbox, f.Width().Size(), "Canonical(): Rsbox")
	for i, v := range tables.Sbox {
		require.Equal(byte(i), tables.Rsbox[v], "Rsbox inverts Sbox at %d", i)
	}
	tables.Sbox[0] ^= 1
	require.NotEqual(tables.Sbox[0], f.Canonical().Sbox[0], "Canonical(): aliasing")
	fromName, err := Canonical(f.Name())
	require.NoError(err, "Canonical()")
	require.Equal(f.Canonical(), fromName, "Canonical(): by name")

	if tables.MDS != nil {
		require.NotNil(tables.RMDS, "Canonical(): RMDS")
		var identity Matrix
		for i := range identity {
			identity[i][i] = 1
		}
		require.Equal(identity, tables.RMDS.GMul(*tables.MDS, f.Width()), "RMDS is the inverse of MDS")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, testFactory := range testFactories(t) {
		f := testFactory
		t.Run(f.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				mask := f.Width().Mask()
				keyLen := rapid.SampledFrom(f.KeySizes()).Draw(t, "keyLen")
				key := rapid.SliceOfN(rapid.ByteMax(mask), keyLen, keyLen).Draw(t, "key")
				pt := rapid.SliceOfN(rapid.ByteMax(mask), BlockSize, BlockSize).Draw(t, "pt")

				c, err := f.New(key)
				require.NoError(t, err)
				ct, err := c.Encrypt(pt)
				require.NoError(t, err)
				for _, v := range ct {
					require.True(t, f.Width().Fits(v), "ciphertext cell width")
				}
				dt, err := c.Decrypt(ct)
				require.NoError(t, err)
				require.Equal(t, pt, dt)
			})
		})
	}
}

func TestFaultIsolation(t *testing.T) {
	for _, testFactory := range testFactories(t) {
		f := testFactory
		t.Run(f.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				size := f.Width().Size()
				ft := fault.Fault{
					Target: rapid.SampledFrom([]fault.Target{fault.Sbox, fault.Rsbox}).Draw(t, "target"),
					Index:  rapid.IntRange(0, size-1).Draw(t, "index"),
					Value:  rapid.ByteMax(f.Width().Mask()).Draw(t, "value"),
				}

				c, err := f.New(make([]byte, f.KeySizes()[0]))
				require.NoError(t, err)
				before := c.Tables()

				fc := ft.Apply(c)
				canonical := f.Canonical()
				tables := fc.Tables()

				faulted, untouched := tables.Sbox, tables.Rsbox
				canonFaulted, canonUntouched := canonical.Sbox, canonical.Rsbox
				if ft.Target == fault.Rsbox {
					faulted, untouched = untouched, faulted
					canonFaulted, canonUntouched = canonUntouched, canonFaulted
				}
				for i := range faulted {
					if i == ft.Index {
						require.Equal(t, ft.Value, faulted[i])
					} else {
						require.Equal(t, canonFaulted[i], faulted[i])
					}
				}
				require.Equal(t, canonUntouched, untouched)

				require.Equal(t, c.RoundKeys(), fc.RoundKeys())
				require.Equal(t, before, c.Tables(), "original instance modified")
				require.Equal(t, canonical, f.Canonical(), "canonical tables modified")
			})
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	for _, testFactory := range testFactories(t) {
		t.Run(testFactory.Name(), func(t *testing.T) {
			require := require.New(t)

			c, err := testFactory.New(make([]byte, testFactory.KeySizes()[0]))
			require.NoError(err, "New()")
			fc := c.WithSboxByte(1, 0)

			pt := make([]byte, BlockSize)
			want, err := fc.Encrypt(pt)
			require.NoError(err, "Encrypt()")

			eg, _ := errgroup.WithContext(context.Background())
			for i := 0; i < 8; i++ {
				eg.Go(func() error {
					for j := 0; j < 64; j++ {
						got, err := fc.Encrypt(pt)
						if err != nil {
							return err
						}
						if string(got) != string(want) {
							return fmt.Errorf("Encrypt(): mismatch %x != %x", got, want)
						}
					}
					return nil
				})
			}
			require.NoError(eg.Wait(), "concurrent Encrypt()")
		})
	}
}

func TestConstructors(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		name string
		fn   func() (Cipher, error)
	}{
		{"LED-80", func() (Cipher, error) { return NewLED(make([]byte, 20)) }},
		{"PRESENT-128", func() (Cipher, error) { return NewPRESENT(make([]byte, 32)) }},
		{"SKINNY-64-192", func() (Cipher, error) { return NewSKINNY(make([]byte, 48), Nibble) }},
		{"SKINNY-128-256", func() (Cipher, error) { return NewSKINNY(make([]byte, 32), Byte) }},
		{"AES-192", func() (Cipher, error) { return NewAES(make([]byte, 24)) }},
	} {
		c, err := tc.fn()
		require.NoError(err, "%s", tc.name)
		require.Equal(tc.name, c.Name(), "Name()")
	}

	c, err := NewSKINNY(make([]byte, 20), Nibble)
	require.Nil(c, "NewSKINNY(): bad key")
	require.True(errors.Is(err, ErrInvalidKeySize), "NewSKINNY(): bad key")

	c, err = NewLED(make([]byte, 24))
	require.Nil(c, "NewLED(): bad key")
	require.Error(err, "NewLED(): bad key")

	key := make([]byte, 16)
	key[0] = 0x10
	_, err = NewLED(key)
	var cre *CellRangeError
	require.True(errors.As(err, &cre), "NewLED(): wide cell")
	require.Equal(0, cre.Index, "CellRangeError.Index")

	f, err := ParseFault("sbox[2]=0x7")
	require.NoError(err, "ParseFault()")
	require.Equal(Fault{Index: 2, Value: 7}, f, "ParseFault()")
}

func BenchmarkCiphers(b *testing.B) {
	for _, testFactory := range testFactories(b) {
		doBenchmarkCipher(b, testFactory)
	}
}

func doBenchmarkCipher(b *testing.B, f Factory) {
	for _, keyLen := range f.KeySizes() {
		bn := fmt.Sprintf("%s_%d_", f.Name(), keyLen)
		b.Run(bn+"Encrypt", func(b *testing.B) { doBenchmarkEncrypt(b, f, keyLen, false) })
		b.Run(bn+"EncryptFaulted", func(b *testing.B) { doBenchmarkEncrypt(b, f, keyLen, true) })
	}
}

func doBenchmarkEncrypt(b *testing.B, f Factory, keyLen int, faulted bool) {
	b.StopTimer()
	b.SetBytes(BlockSize)

	key, pt := make([]byte, keyLen), make([]byte, BlockSize)
	_, _ = rand.Read(key)
	_, _ = rand.Read(pt)
	for i := range key {
		key[i] &= f.Width().Mask()
	}
	for i := range pt {
		pt[i] &= f.Width().Mask()
	}
	c, _ := f.New(key)
	if faulted {
		c = c.WithSboxByte(0, 0)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encrypt(pt); err != nil {
			b.Fatalf("Encrypt failed")
		}
	}
}
