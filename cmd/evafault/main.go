// Command evafault runs a persistent fault analysis campaign against one
// of the evacrypto ciphers and reports the per position ciphertext
// statistics and the resulting last round key candidates.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"

	"github.com/evadfa/evacrypto"
	"github.com/evadfa/evacrypto/campaign"
	"github.com/evadfa/evacrypto/internal/fault"
)

var (
	backendLog = btclog.NewBackend(os.Stderr)

	mainLog = backendLog.Logger("EVAF")
	campLog = backendLog.Logger("CMPN")
)

func setLogLevels(level btclog.Level) {
	mainLog.SetLevel(level)
	campLog.SetLevel(level)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	setLogLevels(cfg.logLevel)
	campaign.UseLogger(campLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		mainLog.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

// run builds the cipher instance described by cfg, runs the campaign
// and writes the report to out.
func run(ctx context.Context, cfg *config, out io.Writer) (err error) {
	f, err := evacrypto.Lookup(cfg.Cipher)
	if err != nil {
		return err
	}
	c, err := f.New(cfg.key)
	if err != nil {
		return err
	}
	canonical := c.Tables()

	fc := c
	if cfg.fault != nil {
		fc = cfg.fault.Apply(c)
		mainLog.Infof("Injected fault %v into %s", cfg.fault, c.Name())
	}

	rec, err := campaign.NewRecovery(f)
	switch {
	case errors.Is(err, campaign.ErrNoRecovery):
		mainLog.Warnf("%v, reporting raw ciphertext statistics", err)
	case err != nil:
		return err
	}

	ptOut, err := createOutput(cfg.Plaintexts)
	if err != nil {
		return err
	}
	defer closeOutput(ptOut, &err)
	ctOut, err := createOutput(cfg.Ciphertexts)
	if err != nil {
		return err
	}
	defer closeOutput(ctOut, &err)

	ccfg := &campaign.Config{
		Cipher:  fc,
		Blocks:  cfg.Blocks,
		Seed:    []byte(cfg.Seed),
		Workers: cfg.Workers,
	}
	if rec != nil {
		ccfg.Peel = rec.Peel
	}
	res, err := campaign.Run(ctx, ccfg, writerOrNil(ptOut), writerOrNil(ctOut))
	if err != nil {
		return err
	}

	if cfg.ShowKeys {
		renderRoundKeys(out, c)
	}
	if rec == nil {
		renderStatistics(out, fc, res)
		return nil
	}

	if sat := res.Histogram.Saturated(); len(sat) > 0 {
		mainLog.Warnf("Every value was observed at positions %v, the fault "+
			"does not persist into the last round", sat)
	}
	removed := fault.Removed(canonical.Sbox, fc.Tables().Sbox)
	cands := campaign.Candidates(res.Histogram, removed)
	rk, ok := rec.Key(cands)
	if ok {
		rks := c.RoundKeys()
		if rk == rks[len(rks)-1] {
			mainLog.Infof("Recovered the last round key of %s", c.Name())
		} else {
			mainLog.Warnf("Recovered key %x is not the last round key", rk.Bytes())
		}
	}
	renderRecovery(out, fc, res, cands, rk, ok)

	return nil
}

func createOutput(path string) (*bufferedFile, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{f: f, w: bufio.NewWriter(f)}, nil
}

// bufferedFile is an output stream file.  Close flushes it.
type bufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (b *bufferedFile) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

func (b *bufferedFile) Close() error {
	if err := b.w.Flush(); err != nil {
		_ = b.f.Close()
		return err
	}
	return b.f.Close()
}

func closeOutput(b *bufferedFile, err *error) {
	if b == nil {
		return
	}
	if cerr := b.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func writerOrNil(b *bufferedFile) io.Writer {
	if b == nil {
		return nil
	}
	return b
}
