package main

import (
	"fmt"
	"time"

	"github.com/IvanBrykalov/evictcache/policy"
	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
	"github.com/jessevdk/go-flags"
)

const allPolicies = "all"

// config holds the bench options. Every option can be given on the command
// line or in an ini file passed via --configfile; flags win over the file.
type config struct {
	ConfigFile string `long:"configfile" description:"Path to an ini file with bench options"`

	Policy   string `long:"policy" description:"Eviction policy: fifo | lru | lfu | all"`
	Capacity int    `long:"cap" description:"Cache capacity (entries)"`

	Workers  int           `long:"workers" description:"Number of worker goroutines (0 = 2*GOMAXPROCS)"`
	Duration time.Duration `long:"duration" description:"Run time per policy"`
	ReadPct  int           `long:"reads" description:"Read percentage [0..100]"`

	Keys    int     `long:"keys" description:"Keyspace size"`
	ZipfS   float64 `long:"zipf_s" description:"Zipf s > 1 (skew)"`
	ZipfV   float64 `long:"zipf_v" description:"Zipf v >= 1"`
	Seed    int64   `long:"seed" description:"Random seed (0 = time based)"`
	Preload int     `long:"preload" description:"Preload entries (0 = cap/2)"`

	MetricsAddr string `long:"http" description:"Serve Prometheus metrics at addr; empty = disabled"`
	PprofAddr   string `long:"pprof" description:"Serve pprof at addr (e.g. :6060); empty = disabled"`
	DebugLevel  string `long:"debuglevel" description:"Log level: trace | debug | info | warn | error | critical | off"`

	kinds []policy.Kind
	level btclogv1.Level
}

// defaultConfig returns the options used when neither the command line nor
// the config file sets them.
func defaultConfig() config {
	return config{
		Policy:      allPolicies,
		Capacity:    100_000,
		Duration:    10 * time.Second,
		ReadPct:     80,
		Keys:        1_000_000,
		ZipfS:       1.1,
		ZipfV:       1.0,
		MetricsAddr: ":8080",
		DebugLevel:  "info",
	}
}

// loadConfig builds the config in three steps: start from the defaults,
// apply the ini file named by --configfile if any, then parse the command
// line again so its options take precedence. The result is validated.
func loadConfig(args []string) (*config, error) {
	preCfg := defaultConfig()
	if _, err := flags.ParseArgs(&preCfg, args); err != nil {
		return nil, err
	}

	cfg := preCfg
	if preCfg.ConfigFile != "" {
		if err := flags.IniParse(preCfg.ConfigFile, &cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", preCfg.ConfigFile, err)
		}
	}
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks ranges and resolves derived fields.
func (c *config) validate() error {
	if err := policy.CheckCapacity(c.Capacity); err != nil {
		return err
	}

	if c.Policy == allPolicies {
		c.kinds = policy.Kinds()
	} else {
		k, err := policy.ParseKind(c.Policy)
		if err != nil {
			return err
		}
		c.kinds = []policy.Kind{k}
	}

	switch {
	case c.ReadPct < 0 || c.ReadPct > 100:
		return fmt.Errorf("reads must be in [0..100], got %d", c.ReadPct)
	case c.Keys < 1:
		return fmt.Errorf("keys must be > 0, got %d", c.Keys)
	case c.ZipfS <= 1:
		return fmt.Errorf("zipf_s must be > 1, got %v", c.ZipfS)
	case c.ZipfV < 1:
		return fmt.Errorf("zipf_v must be >= 1, got %v", c.ZipfV)
	case c.Duration <= 0:
		return fmt.Errorf("duration must be > 0, got %v", c.Duration)
	}

	lvl, ok := btclog.LevelFromString(c.DebugLevel)
	if !ok {
		return fmt.Errorf("invalid debuglevel %q", c.DebugLevel)
	}
	c.level = lvl

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Preload == 0 {
		c.Preload = c.Capacity / 2
	}
	return nil
}
