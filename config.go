package vaultbridge

import (
	"fmt"
	"os"
	"time"

	"github.com/hengadev/errsx"
)

// Config holds the complete configuration for the secrets-access layer.
//
// This struct contains only data, no behavior. Configuration can be loaded
// from any source (environment variables, a YAML file, code) and passed
// explicitly to the store and gateway constructors. It is immutable after
// construction: nothing in the library mutates it once a store has been
// built from it.
//
// Required fields for the Vault driver:
//   - Address: the Vault server URI
//   - One authentication method: Token, or RoleID+SecretID
//
// Optional fields (defaults are applied by Validate if empty):
//   - Mount: KV mount point (default: secret)
//   - StoreDriver: store implementation (default: vault)
//   - ListenAddr: gateway listen address (default: :8080)
//   - ClientTimeout, RenewThreshold: transport timing
//   - ReadTimeout, WriteTimeout, IdleTimeout: gateway server timing
type Config struct {
	// Address is the secrets server URI, e.g. "https://vault.example.com:8200".
	// Required when StoreDriver is "vault".
	Address string `yaml:"address"`

	// Mount is the KV mount (backend) under which secrets are organized.
	Mount string `yaml:"mount"`

	// Namespace is the Vault namespace for Enterprise / HCP Vault.
	// Optional.
	Namespace string `yaml:"namespace"`

	// Token is a direct Vault token. When set it takes priority over
	// AppRole credentials. Held in process memory only; never persisted
	// and never logged.
	Token string `yaml:"token"`

	// RoleID and SecretID are AppRole credentials. Both must be set
	// together.
	RoleID   string `yaml:"role_id"`
	SecretID string `yaml:"secret_id"`

	// CACert is the path to a PEM-encoded CA certificate used as the
	// trust anchor for the server's TLS identity. When empty the system
	// pool is used. Verification is strict either way: an expired
	// certificate, mismatched host, or untrusted CA fails the request.
	CACert string `yaml:"ca_cert"`

	// TLSServerName overrides the SNI/verification name when the server
	// is reached through an address that does not match its certificate.
	TLSServerName string `yaml:"tls_server_name"`

	// InsecureSkipVerify disables TLS verification. For development
	// against a throwaway server only; there is no implicit fallback to
	// it on verification failure.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// ClientTimeout bounds every outbound call to the secrets server.
	ClientTimeout time.Duration `yaml:"client_timeout"`

	// RenewThreshold is the remaining token lifetime below which the
	// transport re-authenticates before issuing a request.
	RenewThreshold time.Duration `yaml:"renew_threshold"`

	// StoreDriver selects the store implementation: "vault" or "awssm".
	StoreDriver string `yaml:"store_driver"`

	// AWSRegion is the region for the Secrets Manager store. When empty
	// the AWS SDK's own resolution applies.
	AWSRegion string `yaml:"aws_region"`

	// ListenAddr is the gateway listen address.
	ListenAddr string `yaml:"listen_addr"`

	// ReadTimeout, WriteTimeout, and IdleTimeout bound the gateway's HTTP
	// server. The write timeout default leaves headroom above ClientTimeout
	// so an upstream call can complete before the response is cut off.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`

	// LogPretty switches to human-readable console output.
	LogPretty bool `yaml:"log_pretty"`
}

// Validate checks that the configuration is coherent and applies defaults to
// optional fields. Validation failures are aggregated so a misconfigured
// deployment reports everything wrong at once rather than one field per
// restart.
func (c *Config) Validate() error {
	if c.Mount == "" {
		c.Mount = DefaultMount
	}
	if c.StoreDriver == "" {
		c.StoreDriver = DefaultStoreDriver
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = DefaultClientTimeout
	}
	if c.RenewThreshold <= 0 {
		c.RenewThreshold = DefaultRenewThreshold
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = c.ClientTimeout + DefaultWriteTimeoutHeadroom
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	var errs errsx.Map

	switch c.StoreDriver {
	case StoreDriverVault:
		if c.Address == "" {
			errs.Set("address", fmt.Errorf("%w: server address is required", ErrInvalidConfiguration))
		}
		if c.Token == "" && (c.RoleID == "" || c.SecretID == "") {
			errs.Set("auth", fmt.Errorf("%w: no authentication method configured (set %s or %s+%s)",
				ErrInvalidConfiguration, EnvVaultToken, EnvVaultRoleID, EnvVaultSecretID))
		}
		if (c.RoleID == "") != (c.SecretID == "") {
			errs.Set("approle", fmt.Errorf("%w: role_id and secret_id must be set together", ErrInvalidConfiguration))
		}
	case StoreDriverAWSSM:
		// Region is optional; the SDK resolves it from the environment.
	default:
		errs.Set("store_driver", fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfiguration, c.StoreDriver))
	}

	if c.CACert != "" {
		if _, err := os.Stat(c.CACert); err != nil {
			errs.Set("ca_cert", fmt.Errorf("%w: CA certificate not readable at %s: %w", ErrInvalidConfiguration, c.CACert, err))
		}
	}

	return errs.AsError()
}
