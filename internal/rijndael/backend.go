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

package rijndael

import (
	"crypto/aes"
	"crypto/cipher"

	"gitlab.com/yawning/bsaes.git"
	"golang.org/x/sys/cpu"
)

// backend is a block cipher implementation used for instances that
// carry the canonical tables.
type backend interface {
	Name() string
	New(key []byte) (cipher.Block, error)
}

type bsaesBackend struct{}

func (b *bsaesBackend) Name() string {
	return "bsaes"
}

func (b *bsaesBackend) New(key []byte) (cipher.Block, error) {
	return bsaes.NewCipher(key)
}

type hardwareBackend struct{}

func (b *hardwareBackend) Name() string {
	return "aesni"
}

func (b *hardwareBackend) New(key []byte) (cipher.Block, error) {
	return aes.NewCipher(key)
}

var (
	bsaesImpl    backend = &bsaesBackend{}
	hardwareImpl backend = &hardwareBackend{}

	impl = bsaesImpl
)

// Backend returns the name of the implementation used for unfaulted
// instances.
func Backend() string {
	return impl.Name()
}

func init() {
	if cpu.X86.HasAES || cpu.ARM64.HasAES {
		impl = hardwareImpl
	}
}
