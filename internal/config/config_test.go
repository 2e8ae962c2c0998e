package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  bidding_port: 9090
lock:
  ttl: 3s
  acquire_timeout: 1s
events:
  driver: kafka
kafka:
  brokers: ["k1:9092", "k2:9092"]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.BiddingPort)
	assert.Equal(t, 8081, cfg.Server.ItemsPort)
	assert.Equal(t, 3*time.Second, cfg.Lock.TTL)
	assert.Equal(t, time.Second, cfg.Lock.AcquireTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Lock.RetryDelay)
	assert.Equal(t, EventsDriverKafka, cfg.Events.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Bidding.HistoryPageSize)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Lock:    LockConfig{TTL: 2 * time.Second, AcquireTimeout: time.Second},
			Bidding: BiddingConfig{HistoryPageSize: 10, HistoryMaxPageSize: 100},
			Events:  EventsConfig{Driver: EventsDriverRedis},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults_ok", mutate: func(c *Config) {}},
		{name: "zero_ttl", mutate: func(c *Config) { c.Lock.TTL = 0 }, wantErr: true},
		{name: "renew_not_shorter_than_ttl", mutate: func(c *Config) { c.Lock.RenewInterval = 2 * time.Second }, wantErr: true},
		{name: "zero_acquire_timeout", mutate: func(c *Config) { c.Lock.AcquireTimeout = 0 }, wantErr: true},
		{name: "max_page_below_default", mutate: func(c *Config) { c.Bidding.HistoryMaxPageSize = 5 }, wantErr: true},
		{name: "unknown_driver", mutate: func(c *Config) { c.Events.Driver = "nats" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
