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

// Package campaign runs persistent fault analysis campaigns: it encrypts
// a deterministic stream of plaintexts under a (usually faulted) cipher
// instance, records the plaintext and ciphertext streams, and collects
// the per position ciphertext statistics used to recover the last round
// key.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evadfa/evacrypto/internal/api"
)

// DefaultBatchSize is the number of blocks drawn from the source and
// written out per batch when Config.BatchSize is zero.
const DefaultBatchSize = 1024

var (
	// ErrNoCipher is returned when a Config has no cipher instance.
	ErrNoCipher = errors.New("campaign: no cipher")

	// ErrNoBlocks is returned when a Config asks for no blocks.
	ErrNoBlocks = errors.New("campaign: block count must be positive")
)

// Config is the configuration of a campaign.
type Config struct {
	// Cipher is the instance to encrypt with.
	Cipher api.Cipher

	// Blocks is the number of plaintexts to encrypt.
	Blocks int

	// Seed keys the plaintext source.
	Seed []byte

	// Workers is the number of concurrent encryption goroutines.  Zero
	// means runtime.NumCPU().
	Workers int

	// BatchSize is the number of blocks per batch.  Zero means
	// DefaultBatchSize.
	BatchSize int

	// Peel, if set, maps every ciphertext before it is counted, for
	// example to undo a final linear layer.  It must not modify its
	// argument.
	Peel func([]byte) []byte
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Cipher == nil:
		return ErrNoCipher
	case cfg.Blocks <= 0:
		return ErrNoBlocks
	case cfg.Workers < 0:
		return fmt.Errorf("campaign: invalid worker count %d", cfg.Workers)
	case cfg.BatchSize < 0:
		return fmt.Errorf("campaign: invalid batch size %d", cfg.BatchSize)
	}
	return nil
}

func (cfg *Config) workers() int {
	if cfg.Workers == 0 {
		return runtime.NumCPU()
	}
	return cfg.Workers
}

func (cfg *Config) batchSize() int {
	if cfg.BatchSize == 0 {
		return DefaultBatchSize
	}
	return cfg.BatchSize
}

// Result is the outcome of a campaign.
type Result struct {
	// Blocks is the number of blocks encrypted.
	Blocks int

	// Histogram holds the ciphertext statistics.
	Histogram *Histogram

	// Elapsed is the wall clock duration of the campaign.
	Elapsed time.Duration
}

// Run executes the campaign.  Plaintexts and ciphertexts are written to
// ptOut and ctOut (either may be nil) as unframed BlockSize byte blocks,
// in source order regardless of the number of workers.  Cancelling ctx
// stops the campaign between batches, and the blocks written so far are
// reported in the partial Result alongside the error.
func Run(ctx context.Context, cfg *Config, ptOut, ctOut io.Writer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Cipher
	src := NewSource(cfg.Seed, c.Width())
	res := &Result{
		Histogram: NewHistogram(c.Width()),
	}
	start := time.Now()

	log.Infof("Starting campaign: %d blocks of %s, %d workers", cfg.Blocks, c.Name(), cfg.workers())

	batch := cfg.batchSize()
	for res.Blocks < cfg.Blocks {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		n := cfg.Blocks - res.Blocks
		if n > batch {
			n = batch
		}

		pts := make([][]byte, n)
		for i := range pts {
			pts[i] = src.Next()
		}
		cts, err := encryptBatch(ctx, c, pts, cfg.workers())
		if err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		for i := range pts {
			if err := writeBlock(ptOut, pts[i], "plaintexts"); err != nil {
				return res, err
			}
			if err := writeBlock(ctOut, cts[i], "ciphertexts"); err != nil {
				return res, err
			}

			ct := cts[i]
			if cfg.Peel != nil {
				ct = cfg.Peel(ct)
			}
			res.Histogram.Add(ct)
		}
		res.Blocks += n

		log.Debugf("Encrypted %d/%d blocks", res.Blocks, cfg.Blocks)
	}
	res.Elapsed = time.Since(start)

	log.Infof("Campaign done in %v, residual entropy %.2f bits", res.Elapsed, res.Histogram.ResidualEntropy())
	log.Tracef("Ciphertext statistics:\n%v", newLogClosure(func() string {
		return res.Histogram.String()
	}))

	return res, nil
}

// encryptBatch encrypts pts on up to workers goroutines, each taking a
// contiguous chunk of the batch.
func encryptBatch(ctx context.Context, c api.Cipher, pts [][]byte, workers int) ([][]byte, error) {
	cts := make([][]byte, len(pts))

	chunk := (len(pts) + workers - 1) / workers
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for lo := 0; lo < len(pts); lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > len(pts) {
			hi = len(pts)
		}
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ct, err := c.Encrypt(pts[i])
				if err != nil {
					return fmt.Errorf("campaign: block %d: %w", i, err)
				}
				cts[i] = ct
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return cts, nil
}

func writeBlock(w io.Writer, block []byte, what string) error {
	if w == nil {
		return nil
	}
	if _, err := w.Write(block); err != nil {
		return fmt.Errorf("campaign: writing %s: %w", what, err)
	}
	return nil
}
