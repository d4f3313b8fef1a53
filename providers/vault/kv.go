package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/khalilou88/vaultbridge"
)

// Read fetches the latest version of the secret at path from the KV v2
// namespace.
//
// KV v2 reads go through "{mount}/data/{path}" and wrap the stored mapping in
// a "data" envelope next to version metadata. A nil response is the server's
// "not found" convention and maps to ErrSecretNotFound.
func (s *Store) Read(ctx context.Context, path string) (*vaultbridge.Secret, error) {
	var out *vaultbridge.Secret
	err := s.do(ctx, "read "+path, func(ctx context.Context) error {
		resp, err := s.client.Logical().ReadWithContext(ctx, s.dataPath(path))
		if err != nil {
			return err
		}
		if resp == nil || resp.Data == nil {
			return fmt.Errorf("%w: %s", vaultbridge.ErrSecretNotFound, path)
		}

		secret, err := unwrapKVv2(path, resp)
		if err != nil {
			return err
		}
		out = secret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores data as a new version of the secret at path. Atomicity is the
// server's: either the whole mapping becomes the new version or nothing does.
// Returns the version the server assigned.
func (s *Store) Write(ctx context.Context, path string, data map[string]any) (int, error) {
	var version int
	err := s.do(ctx, "write "+path, func(ctx context.Context) error {
		payload := map[string]any{"data": data}
		resp, err := s.client.Logical().WriteWithContext(ctx, s.dataPath(path), payload)
		if err != nil {
			return err
		}
		if resp != nil {
			version = jsonInt(resp.Data["version"])
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// ReadField fetches one field of the secret at path.
//
// An absent secret surfaces as ErrSecretNotFound and an absent field within
// an existing secret as ErrFieldNotFound; the two are never conflated. A
// field present with an empty value is a successful read.
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

// LegacyRead fetches the secret at path from the non-versioned KV v1
// namespace, kept for migration compatibility. KV v1 reads the path directly
// under the mount with no envelope and no version metadata.
func (s *Store) LegacyRead(ctx context.Context, path string) (*vaultbridge.Secret, error) {
	var out *vaultbridge.Secret
	err := s.do(ctx, "legacy read "+path, func(ctx context.Context) error {
		resp, err := s.client.Logical().ReadWithContext(ctx, s.cfg.Mount+"/"+path)
		if err != nil {
			return err
		}
		if resp == nil || resp.Data == nil {
			return fmt.Errorf("%w: %s", vaultbridge.ErrSecretNotFound, path)
		}
		out = &vaultbridge.Secret{Path: path, Data: resp.Data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes the latest version of the secret at path. Vault treats
// deleting an absent path as success, and so does this layer.
func (s *Store) Delete(ctx context.Context, path string) error {
	return s.do(ctx, "delete "+path, func(ctx context.Context) error {
		_, err := s.client.Logical().DeleteWithContext(ctx, s.dataPath(path))
		return err
	})
}

// List returns the secret names directly under prefix, via the KV v2
// metadata endpoint.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := s.do(ctx, "list "+prefix, func(ctx context.Context) error {
		resp, err := s.client.Logical().ListWithContext(ctx, s.cfg.Mount+"/metadata/"+prefix)
		if err != nil {
			return err
		}
		if resp == nil || resp.Data == nil {
			return fmt.Errorf("%w: %s", vaultbridge.ErrSecretNotFound, prefix)
		}

		raw, ok := resp.Data["keys"].([]any)
		if !ok {
			return fmt.Errorf("unexpected list response shape for %s", prefix)
		}
		for _, k := range raw {
			if name, ok := k.(string); ok {
				out = append(out, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) dataPath(path string) string {
	return s.cfg.Mount + "/data/" + path
}

// unwrapKVv2 peels the KV v2 envelope off a raw response.
func unwrapKVv2(path string, resp *api.Secret) (*vaultbridge.Secret, error) {
	data, ok := resp.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid KV v2 secret format at %s", path)
	}

	secret := &vaultbridge.Secret{Path: path, Data: data}
	if meta, ok := resp.Data["metadata"].(map[string]any); ok {
		secret.Version = jsonInt(meta["version"])
		if created, ok := meta["created_time"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
				secret.CreatedAt = t
			}
		}
	}
	return secret, nil
}

// jsonInt converts the json.Number values the API decodes into plain ints,
// tolerating absent or oddly typed metadata.
func jsonInt(v any) int {
	switch n := v.(type) {
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
