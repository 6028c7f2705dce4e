package party_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := party.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.Authority)
	require.Equal(t, "party_snapshots", cfg.SnapshotBucket)
}

func TestTestConfigIsValid(t *testing.T) {
	cfg := party.TestConfig()
	require.NoError(t, cfg.Validate())
}

func TestSetDefaultsFillsZeroFields(t *testing.T) {
	var cfg party.Config
	party.SetDefaults(&cfg)

	require.Equal(t, "party_snapshots", cfg.SnapshotBucket)
	require.Equal(t, 5*time.Minute, cfg.SnapshotTTL)
	require.Equal(t, 30*time.Second, cfg.ResolveTimeout)
	require.Equal(t, 10, cfg.DefaultMaxCapacity)
	require.NoError(t, cfg.Validate())

	// Booleans keep their zero value.
	require.False(t, cfg.Authority)
	require.False(t, cfg.AllowMultiMembership)
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := party.Config{
		SnapshotBucket:     "custom",
		DefaultMaxCapacity: 4,
	}
	party.SetDefaults(&cfg)

	require.Equal(t, "custom", cfg.SnapshotBucket)
	require.Equal(t, 4, cfg.DefaultMaxCapacity)
}

func TestConfigValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*party.Config)
	}{
		{"empty bucket", func(c *party.Config) { c.SnapshotBucket = "" }},
		{"zero snapshot ttl", func(c *party.Config) { c.SnapshotTTL = 0 }},
		{"zero resolve timeout", func(c *party.Config) { c.ResolveTimeout = 0 }},
		{"ttl below resolve window", func(c *party.Config) {
			c.SnapshotTTL = time.Second
			c.ResolveTimeout = time.Minute
		}},
		{"zero operation timeout", func(c *party.Config) { c.OperationTimeout = 0 }},
		{"zero capacity", func(c *party.Config) { c.DefaultMaxCapacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := party.DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
