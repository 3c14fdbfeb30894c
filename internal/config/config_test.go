package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIndexerConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *IndexerConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
marketplace_registry_path: "config/marketplaces.mainnet.json"
worker:
  pool_size: 10
  queue_size: 500
database:
  host: localhost
  port: 5432
  read_host: replica
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
  max_open_conns: 30
  conn_max_lifetime: "1h"
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  subject_prefix: "test"
  max_reconnects: 5
  reconnect_wait: "5s"
aptos:
  rpc_url: "https://fullnode.mainnet.aptoslabs.com/v1"
  api_key: "secret"
  timeout: "10s"
  max_retries: 3
stream:
  starting_version: 1000
  ending_version: 2000
  batch_size: 50
  channel_size: 4
server:
  port: 9090
`,
			validate: func(t *testing.T, cfg *IndexerConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "config/marketplaces.mainnet.json", cfg.MarketplaceRegistryPath)
				assert.Equal(t, 10, cfg.Worker.WorkerPoolSize)
				assert.Equal(t, 500, cfg.Worker.WorkerQueueSize)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "replica", cfg.Database.ReadHost)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 30, cfg.Database.MaxOpenConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, "test", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, "https://fullnode.mainnet.aptoslabs.com/v1", cfg.Aptos.RPCURL)
				assert.Equal(t, "secret", cfg.Aptos.APIKey)
				assert.Equal(t, 10*time.Second, cfg.Aptos.Timeout)
				assert.Equal(t, 3, cfg.Aptos.MaxRetries)
				assert.Equal(t, uint64(1000), cfg.Stream.StartingVersion)
				assert.Equal(t, uint64(2000), cfg.Stream.EndingVersion)
				assert.Equal(t, 50, cfg.Stream.BatchSize)
				assert.Equal(t, 4, cfg.Stream.ChannelSize)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
aptos:
  rpc_url: "https://fullnode.mainnet.aptoslabs.com/v1"
`,
			validate: func(t *testing.T, cfg *IndexerConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Empty(t, cfg.NATS.URL)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, "MARKETPLACE_ACTIVITIES", cfg.NATS.StreamName)
				assert.Equal(t, "marketplace", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 30*time.Second, cfg.Aptos.Timeout)
				assert.Equal(t, 5, cfg.Aptos.MaxRetries)
				assert.Equal(t, 2*time.Second, cfg.Aptos.PollInterval)
				assert.Equal(t, uint64(0), cfg.Stream.StartingVersion)
				assert.Equal(t, uint64(0), cfg.Stream.EndingVersion)
				assert.Equal(t, 100, cfg.Stream.BatchSize)
				assert.Equal(t, 16, cfg.Stream.ChannelSize)
				assert.Equal(t, 8, cfg.Worker.WorkerPoolSize)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "config/marketplaces.json", cfg.MarketplaceRegistryPath)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name:        "missing config file",
			configFile:  "",
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				database:
				  host: localhost
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			var configFile string

			if tt.configFile != "" {
				configFile = filepath.Join(tmpDir, "config.yaml")
				err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
				require.NoError(t, err)
			} else {
				configFile = filepath.Join(tmpDir, "nonexistent.yaml")
			}

			cfg, err := LoadIndexerConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestIndexerConfig_Validate(t *testing.T) {
	cfg := &IndexerConfig{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aptos.rpc_url is required")
	assert.Contains(t, err.Error(), "marketplace_registry_path is required")

	cfg = &IndexerConfig{
		Aptos:                   AptosConfig{RPCURL: "http://localhost:8080/v1"},
		MarketplaceRegistryPath: "marketplaces.json",
		Stream:                  StreamConfig{StartingVersion: 10, EndingVersion: 5},
	}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream.ending_version 5 is before stream.starting_version 10")

	cfg.Stream.EndingVersion = 0
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfig_ReadDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "primary",
		Port:     5432,
		ReadHost: "replica",
		User:     "user",
		Password: "pass",
		DBName:   "db",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=replica port=5432 user=user password=pass dbname=db sslmode=disable", cfg.ReadDSN())

	cfg.ReadPort = 6432
	assert.Equal(t, "host=replica port=6432 user=user password=pass dbname=db sslmode=disable", cfg.ReadDSN())
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// Viper uses FF_MARKETPLACE_ prefix, so env vars need the prefix
	envFile := filepath.Join(envDir, ".env")
	envContent := `FF_MARKETPLACE_DEBUG=true
FF_MARKETPLACE_DATABASE_HOST=env-host
FF_MARKETPLACE_DATABASE_PORT=6543
FF_MARKETPLACE_APTOS_RPC_URL=https://env.example/v1
FF_MARKETPLACE_STREAM_STARTING_VERSION=42
`
	err = os.WriteFile(envFile, []byte(envContent), 0600)
	require.NoError(t, err)

	// godotenv.Overload sets real process variables
	t.Cleanup(func() {
		for _, k := range []string{
			"FF_MARKETPLACE_DEBUG",
			"FF_MARKETPLACE_DATABASE_HOST",
			"FF_MARKETPLACE_DATABASE_PORT",
			"FF_MARKETPLACE_APTOS_RPC_URL",
			"FF_MARKETPLACE_STREAM_STARTING_VERSION",
		} {
			_ = os.Unsetenv(k)
		}
	})

	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
aptos:
  rpc_url: "https://file.example/v1"
`
	err = os.WriteFile(configPath, []byte(configFile), 0600)
	require.NoError(t, err)

	cfg, err := LoadIndexerConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "https://env.example/v1", cfg.Aptos.RPCURL)
	assert.Equal(t, uint64(42), cfg.Stream.StartingVersion)
}
