// Package evacrypto implements the lightweight block ciphers used in
// differential and persistent fault analysis research (LED, PRESENT,
// SKINNY and AES), with the ability to override a single substitution
// table entry to model an injected fault.
//
// Blocks and keys are sequences of cells, one cell per byte.  Ciphers
// with a 64-bit block use 4-bit cells, so a block is always 16 bytes.
package evacrypto

import (
	"errors"
	"fmt"
	"sort"

	"github.com/evadfa/evacrypto/internal/api"
	"github.com/evadfa/evacrypto/internal/cell"
	"github.com/evadfa/evacrypto/internal/fault"
	"github.com/evadfa/evacrypto/internal/led"
	"github.com/evadfa/evacrypto/internal/present"
	"github.com/evadfa/evacrypto/internal/rijndael"
	"github.com/evadfa/evacrypto/internal/skinny"
)

// BlockSize is the size of a block in cells.
const BlockSize = api.BlockSize

const (
	// Nibble is the 4-bit cell width (LED, PRESENT, SKINNY-64).
	Nibble = cell.Nibble

	// Byte is the 8-bit cell width (SKINNY-128, AES).
	Byte = cell.Byte
)

type (
	// Cipher is a keyed block cipher instance.
	Cipher = api.Cipher

	// Factory constructs instances of one algorithm.
	Factory = api.Factory

	// Tables is the constant material of a cipher.
	Tables = api.Tables

	// Matrix is a 4x4 cell state.  Round keys are returned as matrices.
	Matrix = cell.Matrix

	// Width is a cell width in bits.
	Width = cell.Width

	// Fault is a single substitution table entry override.
	Fault = fault.Fault

	// ConstructionError is returned when a key is not supported.
	ConstructionError = api.ConstructionError

	// InputLengthError is returned when a block is not BlockSize cells.
	InputLengthError = api.InputLengthError

	// CellRangeError is returned when a cell does not fit the cipher's
	// cell width.
	CellRangeError = api.CellRangeError

	// InvariantViolation is the panic value for internal defects.
	InvariantViolation = api.InvariantViolation
)

var (
	// ErrInvalidKeySize is wrapped by every ConstructionError caused by
	// the key length.
	ErrInvalidKeySize = api.ErrInvalidKeySize

	// ErrInvalidBlockSize is wrapped by every InputLengthError.
	ErrInvalidBlockSize = api.ErrInvalidBlockSize

	// ErrInvalidCell is wrapped by every CellRangeError.
	ErrInvalidCell = api.ErrInvalidCell

	// ErrUnknownAlgorithm is the error returned when an algorithm name
	// is not registered.
	ErrUnknownAlgorithm = errors.New("evacrypto: unknown algorithm")

	factories = make(map[string]Factory)
)

func register(f Factory) {
	if _, ok := factories[f.Name()]; ok {
		panic("evacrypto: duplicate algorithm " + f.Name())
	}
	factories[f.Name()] = f
}

// Algorithms returns the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory registered under algorithm.
func Lookup(algorithm string) (Factory, error) {
	f, ok := factories[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return f, nil
}

// New creates an instance of the named algorithm.  The variant is
// selected by the key length.
func New(algorithm string, key []byte) (Cipher, error) {
	f, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return f.New(key)
}

// Canonical returns a copy of the named algorithm's constant tables.
func Canonical(algorithm string) (*Tables, error) {
	f, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return f.Canonical(), nil
}

// NewLED creates a LED instance from a 16, 20 or 32 nibble key.
func NewLED(key []byte) (Cipher, error) {
	return led.Factory.New(key)
}

// NewPRESENT creates a PRESENT instance from a 20 or 32 nibble key.
func NewPRESENT(key []byte) (Cipher, error) {
	return present.Factory.New(key)
}

// NewSKINNY creates a SKINNY instance with w-bit cells from a 16, 32 or
// 48 cell key.
func NewSKINNY(key []byte, w Width) (Cipher, error) {
	c, err := skinny.New(key, w)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewAES creates an AES instance from a 16, 24 or 32 byte key.
func NewAES(key []byte) (Cipher, error) {
	return rijndael.Factory.New(key)
}

// ParseFault parses a fault descriptor such as "sbox[0]=0x0d".
func ParseFault(s string) (Fault, error) {
	return fault.Parse(s)
}

func init() {
	for _, f := range []Factory{
		led.Factory,
		present.Factory,
		skinny.Factory64,
		skinny.Factory128,
		rijndael.Factory,
	} {
		register(f)
	}
}
