package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IvanBrykalov/evictcache/policy"
	btclogv1 "github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	require.Equal(t, policy.Kinds(), cfg.kinds)
	require.Equal(t, 100000, cfg.Capacity)
	require.Equal(t, 50000, cfg.Preload)
	require.Equal(t, 10*time.Second, cfg.Duration)
	require.Equal(t, btclogv1.LevelInfo, cfg.level)
	require.NotZero(t, cfg.Seed)
}

func TestLoadConfig_SinglePolicy(t *testing.T) {
	cfg, err := loadConfig([]string{"--policy=LFU", "--cap=10", "--seed=7"})
	require.NoError(t, err)

	require.Equal(t, []policy.Kind{policy.LFU}, cfg.kinds)
	require.Equal(t, 5, cfg.Preload)
	require.EqualValues(t, 7, cfg.Seed)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := [][]string{
		{"--cap=0"},
		{"--policy=mru"},
		{"--reads=101"},
		{"--keys=0"},
		{"--zipf_s=1"},
		{"--zipf_v=0.5"},
		{"--duration=0s"},
		{"--debuglevel=loud"},
	}
	for _, args := range cases {
		_, err := loadConfig(args)
		require.Error(t, err, args)
	}
}

// Flags given on the command line override the ini file.
func TestLoadConfig_IniFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.conf")
	ini := "[Application Options]\npolicy=fifo\ncap=64\nreads=50\n"
	require.NoError(t, os.WriteFile(path, []byte(ini), 0o600))

	cfg, err := loadConfig([]string{"--configfile=" + path, "--cap=128"})
	require.NoError(t, err)

	require.Equal(t, []policy.Kind{policy.FIFO}, cfg.kinds)
	require.Equal(t, 128, cfg.Capacity)
	require.Equal(t, 50, cfg.ReadPct)
}
