package vaultbridge

import "context"

// SecretStore defines the contract for typed access to a key-value secrets
// namespace.
//
// Implementations own their transport (connection, TLS material, credential
// lifecycle) and are safe for concurrent use by multiple callers sharing one
// instance. Every method honors the deadline on ctx; no call blocks
// indefinitely.
//
// Errors returned by a SecretStore belong to the closed taxonomy in this
// package: ErrSecretNotFound, ErrFieldNotFound, ErrAuthenticationFailed,
// ErrTransportFailure, ErrTimeout. Callers branch with errors.Is or the
// Is* helpers rather than inspecting messages.
//
// Implementations:
//   - HashiCorp Vault KV: github.com/khalilou88/vaultbridge/providers/vault.Store
//   - AWS Secrets Manager: github.com/khalilou88/vaultbridge/providers/awssm.Store
type SecretStore interface {
	// Read fetches the latest version of the secret at path.
	// Returns ErrSecretNotFound if the path does not exist.
	Read(ctx context.Context, path string) (*Secret, error)

	// Write stores data as a new version of the secret at path. The write
	// is atomic from the caller's point of view: either the whole mapping
	// is stored or none of it is. Returns the stored version when the
	// store reports one.
	Write(ctx context.Context, path string, data map[string]any) (int, error)

	// ReadField fetches one field of the secret at path. Secret-not-present
	// (ErrSecretNotFound) and field-not-present (ErrFieldNotFound) are
	// distinct conditions and are never conflated. A field that is present
	// but empty is returned as an empty value with a nil error.
	ReadField(ctx context.Context, path, key string) (any, error)

	// LegacyRead fetches the secret at path from the store's
	// non-versioned namespace. It is a distinct operation, not a mode of
	// Read, so versioned and non-versioned semantics cannot be mixed by
	// accident.
	LegacyRead(ctx context.Context, path string) (*Secret, error)

	// Delete removes the latest version of the secret at path. Deleting
	// an absent path is not an error.
	Delete(ctx context.Context, path string) error

	// List returns the secret names directly under prefix.
	// Returns ErrSecretNotFound if the prefix does not exist.
	List(ctx context.Context, prefix string) ([]string, error)

	// Health probes the server. It never returns an error: any probe
	// failure degrades to an unhealthy status.
	Health(ctx context.Context) HealthStatus

	// Close releases the transport and stops any background credential
	// renewal.
	Close() error
}
