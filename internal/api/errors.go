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

package api

import (
	"errors"
	"fmt"

	"github.com/evadfa/evacrypto/internal/cell"
)

var (
	// ErrInvalidKeySize is the error wrapped by a ConstructionError.
	ErrInvalidKeySize = errors.New("evacrypto: invalid key size")

	// ErrInvalidBlockSize is the error wrapped by an InputLengthError.
	ErrInvalidBlockSize = errors.New("evacrypto: invalid block size")

	// ErrInvalidCell is the error wrapped by a CellRangeError.
	ErrInvalidCell = errors.New("evacrypto: cell value exceeds cell width")
)

// InvariantViolation is the panic value for internal defects.
type InvariantViolation = cell.InvariantViolation

// ConstructionError is returned when no variant of a cipher supports
// the supplied key.
type ConstructionError struct {
	Cipher string
	KeyLen int
	Width  cell.Width
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: unsupported key of %d %s cells: %v", e.Cipher, e.KeyLen, e.Width, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// InputLengthError is returned when a block is not BlockSize cells.
type InputLengthError struct {
	Cipher string
	Op     string
	Len    int
}

func (e *InputLengthError) Error() string {
	return fmt.Sprintf("%s: %s: block is %d cells, need %d", e.Cipher, e.Op, e.Len, BlockSize)
}

func (e *InputLengthError) Unwrap() error {
	return ErrInvalidBlockSize
}

// CellRangeError is returned when a key or block cell does not fit in
// the cipher's cell width.
type CellRangeError struct {
	Cipher string
	Op     string
	Index  int
	Value  byte
	Width  cell.Width
}

func (e *CellRangeError) Error() string {
	return fmt.Sprintf("%s: %s: cell %d (0x%02x) does not fit in %s", e.Cipher, e.Op, e.Index, e.Value, e.Width)
}

func (e *CellRangeError) Unwrap() error {
	return ErrInvalidCell
}

// NewKeySizeError returns the ConstructionError for an unsupported key
// length.
func NewKeySizeError(cipher string, keyLen int, w cell.Width) error {
	return &ConstructionError{Cipher: cipher, KeyLen: keyLen, Width: w, Err: ErrInvalidKeySize}
}

// CheckKey returns a ConstructionError if any key cell is wider than w.
func CheckKey(cipher string, key []byte, w cell.Width) error {
	for i, v := range key {
		if !w.Fits(v) {
			return &ConstructionError{
				Cipher: cipher,
				KeyLen: len(key),
				Width:  w,
				Err:    &CellRangeError{Cipher: cipher, Op: "key", Index: i, Value: v, Width: w},
			}
		}
	}
	return nil
}

// LoadBlock validates src and packs it into a state.
func LoadBlock(cipher, op string, src []byte, w cell.Width) (cell.Matrix, error) {
	state, err := cell.CreateState(src)
	if err != nil {
		return state, &InputLengthError{Cipher: cipher, Op: op, Len: len(src)}
	}
	if idx := state.Overflow(w); idx >= 0 {
		return state, &CellRangeError{Cipher: cipher, Op: op, Index: idx, Value: src[idx], Width: w}
	}
	return state, nil
}
