// Package vault implements vaultbridge.SecretStore against a HashiCorp Vault
// server: KV v2 for the versioned namespace, KV v1 for the legacy one.
//
// The store owns the authenticated channel. TLS identity is verified against
// the configured trust anchor with no silent downgrade, the session token is
// held in a single mutex-guarded slot, and every outbound call carries the
// configured timeout.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/rs/zerolog"

	"github.com/khalilou88/vaultbridge"
)

// Store implements vaultbridge.SecretStore using the Vault HTTP API.
//
// A single Store is safe for concurrent use. The only mutable state is the
// session token and its expiry, guarded by mu; token mutation happens in
// login and nowhere else.
type Store struct {
	client *api.Client
	cfg    vaultbridge.Config
	log    zerolog.Logger

	// mu guards the token slot and cancelRenew below, and serializes
	// re-authentication so at most one login is in flight at a time.
	mu          sync.Mutex
	tokenExpiry time.Time
	cancelRenew context.CancelFunc
}

// New creates a Store and performs the initial authentication.
//
// The client is configured from cfg only; environment is not consulted here
// so a Store's behavior is fixed at construction. Retries inside the Vault
// HTTP client are disabled: the single re-authentication-and-retry on an
// authorization failure is the only retry this layer performs.
func New(ctx context.Context, cfg vaultbridge.Config, logger zerolog.Logger) (*Store, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Timeout = cfg.ClientTimeout
	apiCfg.MaxRetries = 0

	tls := &api.TLSConfig{
		CACert:        cfg.CACert,
		TLSServerName: cfg.TLSServerName,
		Insecure:      cfg.InsecureSkipVerify,
	}
	if err := apiCfg.ConfigureTLS(tls); err != nil {
		return nil, fmt.Errorf("%w: configure TLS: %w", vaultbridge.ErrInvalidConfiguration, err)
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %w", vaultbridge.ErrTransportFailure, err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}
	client.SetClientTimeout(cfg.ClientTimeout)

	s := &Store{
		client: client,
		cfg:    cfg,
		log:    logger.With().Str("component", "vault-store").Logger(),
	}

	if err := s.login(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// login exchanges the configured credential material for a session token and
// installs it on the client. Callers must hold mu or be the constructor.
//
// Token priority follows the conventional client behavior: a direct token
// wins over AppRole credentials.
func (s *Store) login(ctx context.Context) error {
	if s.cfg.Token != "" {
		// A static token cannot be re-acquired; treat it as non-expiring
		// and let the server reject it when it lapses.
		s.client.SetToken(s.cfg.Token)
		s.tokenExpiry = time.Time{}
		return nil
	}

	auth, err := approle.NewAppRoleAuth(s.cfg.RoleID, &approle.SecretID{FromString: s.cfg.SecretID})
	if err != nil {
		return fmt.Errorf("%w: create AppRole auth: %w", vaultbridge.ErrInvalidConfiguration, err)
	}

	secret, err := s.client.Auth().Login(ctx, auth)
	if err != nil {
		return fmt.Errorf("%w: AppRole login: %w", vaultbridge.ErrAuthenticationFailed, err)
	}
	if secret == nil || secret.Auth == nil {
		return fmt.Errorf("%w: no auth info returned from AppRole login", vaultbridge.ErrAuthenticationFailed)
	}

	s.client.SetToken(secret.Auth.ClientToken)
	s.tokenExpiry = time.Now().Add(time.Duration(secret.Auth.LeaseDuration) * time.Second)
	s.log.Debug().
		Str("token_accessor", secret.Auth.Accessor).
		Int("lease_seconds", secret.Auth.LeaseDuration).
		Msg("authenticated with AppRole")
	return nil
}

// renewIfNeeded re-authenticates when the token's remaining lifetime is below
// the configured threshold. It is called before each request and by the
// background renewal loop.
//
// The check is double-checked under mu: concurrent callers that observe an
// expiring token queue on the mutex, and all but the first find a fresh
// expiry and return without a second login.
func (s *Store) renewIfNeeded(ctx context.Context) error {
	if s.cfg.Token != "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Until(s.tokenExpiry) > s.cfg.RenewThreshold {
		return nil
	}
	s.log.Debug().Time("expiry", s.tokenExpiry).Msg("token near expiry, re-authenticating")
	return s.login(ctx)
}

// reauthenticate forces a fresh login after the server rejected the current
// token mid-request.
func (s *Store) reauthenticate(ctx context.Context) error {
	if s.cfg.Token != "" {
		// Nothing to re-acquire; surface the rejection.
		return fmt.Errorf("%w: static token rejected by server", vaultbridge.ErrAuthenticationFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx)
}

// do runs one logical operation with the per-request timeout and the token
// lifecycle applied. On an authorization failure it performs exactly one
// re-authentication and retry; every other failure propagates immediately.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.renewIfNeeded(ctx); err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	err := fn(reqCtx)
	if err == nil {
		return nil
	}

	if isPermissionDenied(err) {
		s.log.Warn().Str("op", op).Msg("request rejected as unauthorized, re-authenticating once")
		if authErr := s.reauthenticate(ctx); authErr != nil {
			return authErr
		}

		retryCtx, retryCancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
		defer retryCancel()
		if err = fn(retryCtx); err == nil {
			return nil
		}
	}

	return classify(op, err)
}

// Start launches the optional background renewal loop. It wakes at half the
// renewal threshold and re-authenticates when due, so tokens stay fresh even
// while no requests arrive. Stop it with Close.
func (s *Store) Start(ctx context.Context) {
	if s.cfg.Token != "" {
		return
	}

	renewCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancelRenew = cancel
	s.mu.Unlock()

	interval := s.cfg.RenewThreshold / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-renewCtx.Done():
				return
			case <-ticker.C:
				if err := s.renewIfNeeded(renewCtx); err != nil {
					s.log.Error().Err(err).Msg("background token renewal failed")
				}
			}
		}
	}()
}

// Close stops the background renewal loop. The session token is process
// memory only; nothing is persisted, so there is nothing else to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelRenew != nil {
		s.cancelRenew()
		s.cancelRenew = nil
	}
	return nil
}

// isPermissionDenied reports whether the server rejected the request token.
func isPermissionDenied(err error) bool {
	var respErr *api.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == 403
}

// classify maps a raw client error into the vaultbridge taxonomy, preserving
// the cause in the chain for logs while keeping the sentinel on top for
// errors.Is.
func classify(op string, err error) error {
	switch {
	case vaultbridge.IsNotFound(err), vaultbridge.IsAuthError(err):
		// Already tagged by the accessor layer. Wrapping again would
		// make an absent secret satisfy IsTransportError too.
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrTimeout, op, err)
	case vaultbridge.IsTimeout(err):
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrTimeout, op, err)
	case isPermissionDenied(err):
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrAuthenticationFailed, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrTransportFailure, op, err)
	}
}
