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
	"errors"
	"fmt"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/led"
	"github.com/evadfa/evacrypto/internal/present"
	"github.com/evadfa/evacrypto/internal/rijndael"
)

// ErrNoRecovery is returned for algorithms whose last round key cannot
// be recovered from a persistent substitution fault.
var ErrNoRecovery = errors.New("campaign: no last round key recovery")

// Recovery turns the statistics of a persistent fault in the final
// substitution layer into last round key candidates.
//
// Peel strips the key independent layers that follow the final
// substitution, so that every peeled cell is a substitution output XOR
// one cell of an equivalent key.  Candidates found on the peeled
// statistics are cells of that equivalent key, and Restore maps a
// complete equivalent key back to the last round key.
type Recovery struct {
	// Algorithm is the name of the algorithm.
	Algorithm string

	// Peel maps a ciphertext to the peeled state.  It is nil when the
	// ciphertext needs no peeling.
	Peel func(ct []byte) []byte

	// Restore maps an equivalent key to the last round key, laid out as
	// the round keys returned by the cipher.
	Restore func(eq []byte) cell.Matrix
}

// NewRecovery returns the recovery path of the algorithm f constructs.
//
// AES ends with SubBytes, ShiftRows and AddRoundKey, so every ciphertext
// byte is already a substitution output XOR a key byte.  LED ends with
// ShiftRows and MixColumnsSerial after the substitution, which RMDS and
// the inverse row rotation undo.  PRESENT ends with the bit permutation,
// undone by the inverse permutation.  SKINNY adds the round constants
// and only half of the state is keyed, so it has no recovery path.
func NewRecovery(f api.Factory) (*Recovery, error) {
	t := f.Canonical()

	switch f.Name() {
	case rijndael.Name:
		return &Recovery{
			Algorithm: f.Name(),
			Restore: func(eq []byte) cell.Matrix {
				return cell.MustState(eq).Transpose()
			},
		}, nil
	case led.Name:
		mds, rmds := *t.MDS, *t.RMDS
		return &Recovery{
			Algorithm: f.Name(),
			Peel: func(ct []byte) []byte {
				return rmds.GMul(cell.MustState(ct), cell.Nibble).RRot().Bytes()
			},
			Restore: func(eq []byte) cell.Matrix {
				return mds.GMul(cell.MustState(eq).LRot(), cell.Nibble)
			},
		}, nil
	case present.Name:
		perm := t.Permutation
		return &Recovery{
			Algorithm: f.Name(),
			Peel: func(ct []byte) []byte {
				state := cell.MustState(ct).Transpose()
				bits := cell.GatherBits(cell.ExpandBits(state.Bytes(), cell.Nibble), perm)
				return cell.RestoreData(bits, cell.Nibble)
			},
			Restore: func(eq []byte) cell.Matrix {
				bits := cell.PermuteBits(cell.ExpandBits(eq, cell.Nibble), perm)
				return cell.MustState(cell.RestoreData(bits, cell.Nibble))
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w for %s", ErrNoRecovery, f.Name())
	}
}

// Key returns the last round key when every position has exactly one
// candidate.
func (r *Recovery) Key(cands [api.BlockSize][]byte) (cell.Matrix, bool) {
	var eq [api.BlockSize]byte
	for pos, c := range cands {
		if len(c) != 1 {
			return cell.Matrix{}, false
		}
		eq[pos] = c[0]
	}
	return r.Restore(eq[:]), true
}
