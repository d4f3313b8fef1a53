package vaultbridge

import "time"

// Environment variable names
const (
	// EnvVaultAddr is the environment variable name for the Vault server
	// address. This mirrors the conventional name used by the Vault CLI.
	// Example: "https://vault.example.com:8200"
	EnvVaultAddr = "VAULT_ADDR"

	// EnvVaultToken is the environment variable name for a direct Vault
	// token. When set, token authentication is used and AppRole variables
	// are ignored.
	EnvVaultToken = "VAULT_TOKEN"

	// EnvVaultRoleID and EnvVaultSecretID are the environment variable
	// names for AppRole authentication. Both must be set together.
	EnvVaultRoleID   = "VAULT_ROLE_ID"
	EnvVaultSecretID = "VAULT_SECRET_ID"

	// EnvVaultNamespace is the environment variable name for the Vault
	// namespace (Vault Enterprise / HCP Vault).
	EnvVaultNamespace = "VAULT_NAMESPACE"

	// EnvVaultCACert is the environment variable name for the path to the
	// PEM-encoded CA certificate used to verify the server's TLS identity.
	EnvVaultCACert = "VAULT_CACERT"

	// EnvMount is the environment variable name for the KV mount (backend)
	// under which secrets are organized. Default: secret
	EnvMount = "VAULTBRIDGE_MOUNT"

	// EnvStoreDriver selects the secrets store implementation.
	// Accepted values: "vault" (default), "awssm".
	EnvStoreDriver = "VAULTBRIDGE_STORE"

	// EnvAWSRegion is the environment variable name for the AWS region
	// used by the Secrets Manager store. Falls back to the AWS SDK's own
	// resolution when unset.
	EnvAWSRegion = "VAULTBRIDGE_AWS_REGION"

	// EnvListenAddr is the environment variable name for the gateway
	// listen address. Default: :8080
	EnvListenAddr = "VAULTBRIDGE_LISTEN_ADDR"

	// EnvClientTimeout is the environment variable name for the per-request
	// timeout against the secrets server, in Go duration syntax ("5s").
	EnvClientTimeout = "VAULTBRIDGE_CLIENT_TIMEOUT"

	// EnvRenewThreshold is the environment variable name for the token
	// renewal threshold: when the token's remaining lifetime drops below
	// this duration, the client re-authenticates before the next request.
	EnvRenewThreshold = "VAULTBRIDGE_RENEW_THRESHOLD"

	// EnvReadTimeout, EnvWriteTimeout, and EnvIdleTimeout set the gateway
	// HTTP server timeouts, in Go duration syntax ("10s").
	EnvReadTimeout  = "VAULTBRIDGE_READ_TIMEOUT"
	EnvWriteTimeout = "VAULTBRIDGE_WRITE_TIMEOUT"
	EnvIdleTimeout  = "VAULTBRIDGE_IDLE_TIMEOUT"

	// EnvLogLevel and EnvLogPretty configure logging output.
	EnvLogLevel  = "VAULTBRIDGE_LOG_LEVEL"
	EnvLogPretty = "VAULTBRIDGE_LOG_PRETTY"
)

// Default values
const (
	// DefaultMount is the default KV mount point.
	DefaultMount = "secret"

	// DefaultStoreDriver is the default secrets store implementation.
	DefaultStoreDriver = "vault"

	// DefaultListenAddr is the default gateway listen address.
	DefaultListenAddr = ":8080"

	// DefaultClientTimeout bounds every outbound call to the secrets
	// server. A call that exceeds it fails with ErrTimeout rather than
	// hanging the caller.
	DefaultClientTimeout = 5 * time.Second

	// DefaultRenewThreshold is the remaining token lifetime below which
	// the transport re-authenticates.
	DefaultRenewThreshold = 60 * time.Second

	// DefaultReadTimeout bounds reading a request, header included.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeoutHeadroom is added to ClientTimeout to form the
	// default write timeout, so the upstream call can run to its own
	// deadline before the response write is cut off.
	DefaultWriteTimeoutHeadroom = 5 * time.Second

	// DefaultIdleTimeout bounds keep-alive connections between requests.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "info"
)

// Store driver names accepted by Config.StoreDriver.
const (
	StoreDriverVault = "vault"
	StoreDriverAWSSM = "awssm"
)
