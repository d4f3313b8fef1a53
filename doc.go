// Package vaultbridge is a secrets-access layer over a HashiCorp Vault
// key-value store, with an AWS Secrets Manager alternative.
//
// It has three parts:
//
//   - A transport client owning the authenticated channel to the secrets
//     server: TLS trust anchor, credential exchange (token or AppRole), and
//     a mutex-guarded session token renewed before expiry.
//   - A secret accessor exposing typed operations over the versioned KV
//     namespace: Read, Write, ReadField, LegacyRead (KV v1), Delete, List.
//   - An HTTP gateway (internal/gateway) translating requests to accessor
//     calls and accessor errors to status codes.
//
// # Quick start
//
//	cfg, err := vaultbridge.LoadConfigFromEnvironment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := vault.New(ctx, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if _, err := store.Write(ctx, "app/config", map[string]any{"name": "demo"}); err != nil {
//	    log.Fatal(err)
//	}
//	secret, err := store.Read(ctx, "app/config")
//
// # Error handling
//
// Store operations return errors from a closed taxonomy so callers can branch
// on cause instead of parsing messages:
//
//	secret, err := store.Read(ctx, path)
//	switch {
//	case errors.Is(err, vaultbridge.ErrSecretNotFound):
//	    // expected absence, not a failure
//	case vaultbridge.IsTimeout(err):
//	    // slow server, distinct from a down one
//	case err != nil:
//	    // transport or auth failure
//	}
//
// Absence is always typed: a missing path is ErrSecretNotFound, a missing
// field within an existing secret is ErrFieldNotFound, and a field that is
// present but empty is a successful read of an empty value.
//
// # Configuration
//
// All configuration is externally supplied (environment or YAML file); see
// Config, LoadConfigFromEnvironment, and LoadConfigFromFile. The conventional
// VAULT_* variables are honored.
package vaultbridge
