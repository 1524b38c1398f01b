package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"

	"github.com/evadfa/evacrypto"
)

const (
	defaultCipher   = "aes"
	defaultBlocks   = 10000
	defaultSeed     = "evafault"
	defaultLogLevel = "info"
)

// config defines the configuration options for evafault.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to an INI configuration file"`

	Cipher string `short:"c" long:"cipher" description:"Cipher to attack" choice:"aes" choice:"led" choice:"present" choice:"skinny64" choice:"skinny128"`
	Key    string `short:"k" long:"key" description:"Key as hex, one byte per cell; defaults to all zero cells of the smallest key size"`
	Fault  string `short:"f" long:"fault" description:"Fault to inject, e.g. sbox[0]=0x0d; no fault if empty"`

	Blocks  int    `short:"n" long:"blocks" description:"Number of plaintexts to encrypt"`
	Seed    string `long:"seed" description:"Seed of the plaintext stream"`
	Workers int    `short:"j" long:"workers" description:"Number of encryption goroutines (0 for one per CPU)"`

	Plaintexts  string `long:"plaintexts" description:"Write the raw plaintext stream to this file"`
	Ciphertexts string `long:"ciphertexts" description:"Write the raw ciphertext stream to this file"`

	ShowKeys bool   `long:"showkeys" description:"Print the round keys of the instance"`
	LogLevel string `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}"`

	// Derived from the above by validateConfig.
	key      []byte
	fault    *evacrypto.Fault
	logLevel btclog.Level
}

func defaultConfig() config {
	return config{
		Cipher:   defaultCipher,
		Blocks:   defaultBlocks,
		Seed:     defaultSeed,
		LogLevel: defaultLogLevel,
	}
}

// loadConfig parses args on top of the defaults, then the optional
// configuration file, then args again so they take precedence.
func loadConfig(args []string) (*config, error) {
	preCfg := defaultConfig()
	if _, err := flags.NewParser(&preCfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := preCfg
	if preCfg.ConfigFile != "" {
		if err := flags.IniParse(preCfg.ConfigFile, &cfg); err != nil {
			return nil, err
		}
		if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *config) error {
	f, err := evacrypto.Lookup(cfg.Cipher)
	if err != nil {
		return err
	}

	if cfg.Key == "" {
		cfg.key = make([]byte, f.KeySizes()[0])
	} else {
		cfg.key, err = hex.DecodeString(strings.Join(strings.Fields(cfg.Key), ""))
		if err != nil {
			return fmt.Errorf("invalid --key: %w", err)
		}
	}

	if cfg.Fault != "" {
		ft, err := evacrypto.ParseFault(cfg.Fault)
		if err != nil {
			return err
		}
		if ft.Index >= f.Width().Size() || !f.Width().Fits(ft.Value) {
			return fmt.Errorf("fault %s does not fit %s with %s cells", ft, cfg.Cipher, f.Width())
		}
		cfg.fault = &ft
	}

	if cfg.Blocks <= 0 {
		return fmt.Errorf("--blocks must be positive, got %d", cfg.Blocks)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must not be negative, got %d", cfg.Workers)
	}

	level, ok := btclog.LevelFromString(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid --loglevel %q", cfg.LogLevel)
	}
	cfg.logLevel = level

	return nil
}
