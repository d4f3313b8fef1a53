package vaultbridge

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// This follows the 12-factor methodology: all knobs are read from the
// environment and the returned Config is already validated with defaults
// applied. The conventional Vault CLI variables (VAULT_ADDR, VAULT_TOKEN,
// VAULT_ROLE_ID, VAULT_SECRET_ID, VAULT_NAMESPACE, VAULT_CACERT) are honored
// so a deployment configured for the Vault CLI works unchanged; gateway
// specifics use the VAULTBRIDGE_ prefix.
//
// Example:
//
//	// export VAULT_ADDR="https://vault.example.com:8200"
//	// export VAULT_TOKEN="hvs...."
//	cfg, err := vaultbridge.LoadConfigFromEnvironment()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnvironment() (Config, error) {
	cfg := Config{
		Address:     os.Getenv(EnvVaultAddr),
		Mount:       getEnvOrDefault(EnvMount, DefaultMount),
		Namespace:   os.Getenv(EnvVaultNamespace),
		Token:       os.Getenv(EnvVaultToken),
		RoleID:      os.Getenv(EnvVaultRoleID),
		SecretID:    os.Getenv(EnvVaultSecretID),
		CACert:      os.Getenv(EnvVaultCACert),
		StoreDriver: getEnvOrDefault(EnvStoreDriver, DefaultStoreDriver),
		AWSRegion:   os.Getenv(EnvAWSRegion),
		ListenAddr:  getEnvOrDefault(EnvListenAddr, DefaultListenAddr),
		LogLevel:    getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
	}

	var err error
	if cfg.ClientTimeout, err = getEnvDuration(EnvClientTimeout, DefaultClientTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RenewThreshold, err = getEnvDuration(EnvRenewThreshold, DefaultRenewThreshold); err != nil {
		return Config{}, err
	}
	// Zero means unset; Validate applies the defaults, including the
	// write timeout derived from ClientTimeout.
	if cfg.ReadTimeout, err = getEnvDuration(EnvReadTimeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvDuration(EnvWriteTimeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.IdleTimeout, err = getEnvDuration(EnvIdleTimeout, 0); err != nil {
		return Config{}, err
	}
	if pretty := os.Getenv(EnvLogPretty); pretty != "" {
		cfg.LogPretty, err = strconv.ParseBool(pretty)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidConfiguration, EnvLogPretty, pretty)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile loads configuration from a YAML file, then validates it
// and applies defaults. Environment variables are not consulted; callers that
// want file-over-environment layering load both and merge explicitly.
func LoadConfigFromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse config file %s: %w", ErrInvalidConfiguration, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable, or a default
// value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a duration like \"5s\", got %q", ErrInvalidConfiguration, key, v)
	}
	return d, nil
}
