package vaultbridge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "token auth",
			cfg:  Config{Address: "https://vault.example.com:8200", Token: "hvs.token"},
		},
		{
			name: "approle auth",
			cfg:  Config{Address: "https://vault.example.com:8200", RoleID: "role", SecretID: "secret"},
		},
		{
			name:    "missing address",
			cfg:     Config{Token: "hvs.token"},
			wantErr: true,
		},
		{
			name:    "no auth method",
			cfg:     Config{Address: "https://vault.example.com:8200"},
			wantErr: true,
		},
		{
			name:    "role id without secret id",
			cfg:     Config{Address: "https://vault.example.com:8200", RoleID: "role"},
			wantErr: true,
		},
		{
			name:    "unknown store driver",
			cfg:     Config{StoreDriver: "etcd"},
			wantErr: true,
		},
		{
			name: "awssm driver needs no vault settings",
			cfg:  Config{StoreDriver: StoreDriverAWSSM},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigValidateAppliesDefaults(t *testing.T) {
	cfg := Config{Address: "https://vault.example.com:8200", Token: "hvs.token"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultMount, cfg.Mount)
	assert.Equal(t, DefaultStoreDriver, cfg.StoreDriver)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultClientTimeout, cfg.ClientTimeout)
	assert.Equal(t, DefaultRenewThreshold, cfg.RenewThreshold)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, cfg.ClientTimeout+DefaultWriteTimeoutHeadroom, cfg.WriteTimeout)
	assert.Equal(t, DefaultIdleTimeout, cfg.IdleTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestConfigValidateDerivesWriteTimeoutFromClientTimeout(t *testing.T) {
	cfg := Config{
		Address:       "https://vault.example.com:8200",
		Token:         "hvs.token",
		ClientTimeout: 20 * time.Second,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20*time.Second+DefaultWriteTimeoutHeadroom, cfg.WriteTimeout)

	// An explicit value is never overridden.
	cfg = Config{
		Address:      "https://vault.example.com:8200",
		Token:        "hvs.token",
		WriteTimeout: 2 * time.Second,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
}

func TestConfigValidateAggregatesErrors(t *testing.T) {
	// A doubly broken config reports both problems at once.
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
	assert.Contains(t, err.Error(), "auth")
}

func TestConfigValidateMissingCACert(t *testing.T) {
	cfg := Config{
		Address: "https://vault.example.com:8200",
		Token:   "hvs.token",
		CACert:  "/nonexistent/ca.pem",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ca_cert")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Run("full configuration", func(t *testing.T) {
		t.Setenv(EnvVaultAddr, "https://vault.example.com:8200")
		t.Setenv(EnvVaultToken, "hvs.token")
		t.Setenv(EnvMount, "kv")
		t.Setenv(EnvClientTimeout, "2s")
		t.Setenv(EnvRenewThreshold, "30s")
		t.Setenv(EnvReadTimeout, "3s")
		t.Setenv(EnvWriteTimeout, "8s")
		t.Setenv(EnvIdleTimeout, "90s")
		t.Setenv(EnvLogPretty, "true")

		cfg, err := LoadConfigFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "https://vault.example.com:8200", cfg.Address)
		assert.Equal(t, "hvs.token", cfg.Token)
		assert.Equal(t, "kv", cfg.Mount)
		assert.Equal(t, 2*time.Second, cfg.ClientTimeout)
		assert.Equal(t, 30*time.Second, cfg.RenewThreshold)
		assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 8*time.Second, cfg.WriteTimeout)
		assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
		assert.True(t, cfg.LogPretty)
	})

	t.Run("missing address fails validation", func(t *testing.T) {
		t.Setenv(EnvVaultAddr, "")
		t.Setenv(EnvVaultToken, "hvs.token")

		_, err := LoadConfigFromEnvironment()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "address")
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv(EnvVaultAddr, "https://vault.example.com:8200")
		t.Setenv(EnvVaultToken, "hvs.token")
		t.Setenv(EnvClientTimeout, "five seconds")

		_, err := LoadConfigFromEnvironment()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
address: https://vault.example.com:8200
token: hvs.token
mount: kv
client_timeout: 3s
listen_addr: ":9000"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "kv", cfg.Mount)
		assert.Equal(t, 3*time.Second, cfg.ClientTimeout)
		assert.Equal(t, ":9000", cfg.ListenAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile("/nonexistent/config.yaml")
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("address: [broken"), 0o600))

		_, err := LoadConfigFromFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}
