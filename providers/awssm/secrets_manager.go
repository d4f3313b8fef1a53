// Package awssm implements vaultbridge.SecretStore using AWS Secrets Manager.
//
// The mapping for each secret is stored as a JSON object in SecretString.
// Secrets Manager versions every write on its own, but has no separate
// non-versioned namespace, so LegacyRead reads the same store as Read.
package awssm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/rs/zerolog"

	"github.com/khalilou88/vaultbridge"
)

// smClient is the subset of the Secrets Manager API the store uses. Declared
// locally so tests can substitute a mock.
type smClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// Store implements vaultbridge.SecretStore backed by AWS Secrets Manager.
// Credential lifecycle (signing, refresh) is owned by the AWS SDK's
// credential chain; this layer adds only path mapping and the error taxonomy.
type Store struct {
	client smClient
	cfg    vaultbridge.Config
	log    zerolog.Logger
}

// New creates a Store using the default AWS credential chain, honoring
// cfg.AWSRegion when set.
func New(ctx context.Context, cfg vaultbridge.Config, logger zerolog.Logger) (*Store, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		opts = append(opts, config.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load AWS config: %w", vaultbridge.ErrInvalidConfiguration, err)
	}

	return &Store{
		client: secretsmanager.NewFromConfig(awsCfg),
		cfg:    cfg,
		log:    logger.With().Str("component", "awssm-store").Logger(),
	}, nil
}

// Read fetches the current version of the secret at path.
func (s *Store) Read(ctx context.Context, path string) (*vaultbridge.Secret, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.name(path)),
	})
	if err != nil {
		return nil, classify("read "+path, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("%w: %s has no string value", vaultbridge.ErrTransportFailure, path)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &data); err != nil {
		return nil, fmt.Errorf("%w: %s payload is not a JSON object: %w", vaultbridge.ErrTransportFailure, path, err)
	}

	secret := &vaultbridge.Secret{Path: path, Data: data}
	if out.CreatedDate != nil {
		secret.CreatedAt = *out.CreatedDate
	}
	return secret, nil
}

// Write stores data as the new current version, creating the secret on first
// write. Secrets Manager's version identifiers are opaque strings, so the
// returned numeric version is always zero.
func (s *Store) Write(ctx context.Context, path string, data map[string]any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: encode mapping for %s: %w", vaultbridge.ErrInvalidConfiguration, path, err)
	}

	name := s.name(path)
	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(string(payload)),
	})
	if err == nil {
		return 0, nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return 0, classify("write "+path, err)
	}

	_, err = s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(string(payload)),
	})
	if err != nil {
		return 0, classify("create "+path, err)
	}
	return 0, nil
}

// ReadField fetches one field of the secret at path, with absent-secret and
// absent-field kept distinct.
func (s *Store) ReadField(ctx context.Context, path, key string) (any, error) {
	secret, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	value, ok := secret.Data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", vaultbridge.ErrFieldNotFound, key, path)
	}
	return value, nil
}

// LegacyRead delegates to Read: Secrets Manager has no non-versioned
// namespace variant to distinguish.
func (s *Store) LegacyRead(ctx context.Context, path string) (*vaultbridge.Secret, error) {
	return s.Read(ctx, path)
}

// Delete schedules the secret for deletion. An absent path is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId: aws.String(s.name(path)),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return classify("delete "+path, err)
	}
	return nil
}

// List returns the secret names under prefix, with the mount segment
// stripped so results are addressable through Read.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	filter := s.name(prefix)
	var names []string
	var nextToken *string
	for {
		out, err := s.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
			Filters: []types.Filter{{
				Key:    types.FilterNameStringTypeName,
				Values: []string{filter},
			}},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, classify("list "+prefix, err)
		}
		for _, entry := range out.SecretList {
			if entry.Name != nil {
				names = append(names, trimMount(*entry.Name, s.cfg.Mount))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", vaultbridge.ErrSecretNotFound, prefix)
	}
	return names, nil
}

// Health reports reachability of the Secrets Manager endpoint. The service
// has no seal/standby notions; a successful call maps to a fully healthy
// status and any failure degrades to unreachable, never an error.
func (s *Store) Health(ctx context.Context) vaultbridge.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	_, err := s.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("health probe failed")
		return vaultbridge.HealthStatus{}
	}
	return vaultbridge.HealthStatus{Initialized: true, Reachable: true}
}

// Close is a no-op: the SDK client holds no resources needing release.
func (s *Store) Close() error { return nil }

// name maps a hierarchical secret path into this deployment's namespace,
// mirroring the mount concept of the Vault store.
func (s *Store) name(path string) string {
	return s.cfg.Mount + "/" + path
}

func trimMount(name, mount string) string {
	prefix := mount + "/"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}

// classify maps SDK errors into the vaultbridge taxonomy.
func classify(op string, err error) error {
	var notFound *types.ResourceNotFoundException
	switch {
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %s", vaultbridge.ErrSecretNotFound, op)
	case errors.Is(err, context.DeadlineExceeded) || vaultbridge.IsTimeout(err):
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrTimeout, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", vaultbridge.ErrTransportFailure, op, err)
	}
}
