package vaultbridge

import "time"

// Secret is a named, versioned mapping of key/value pairs stored server-side.
//
// A Secret is a snapshot of the latest (or requested) version at read time.
// The accessor never caches secrets across calls; every read hits the server.
type Secret struct {
	// Path is the hierarchical location of the secret under the mount,
	// e.g. "app/config".
	Path string `json:"path"`

	// Data holds the key/value mapping. Values are strings or primitives
	// as stored; nested structures are preserved as decoded JSON.
	Data map[string]any `json:"data"`

	// Version is the server-assigned version number of this snapshot.
	// Zero for stores without a version model (KV v1, Secrets Manager
	// secrets read without a version stage).
	Version int `json:"version,omitempty"`

	// CreatedAt is the server-side creation time of this version, when
	// the store reports one.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HealthStatus is a transient snapshot of the secrets server's health. It
// carries no invariants beyond reflecting the server's most recent response.
type HealthStatus struct {
	Initialized bool `json:"initialized"`
	Sealed      bool `json:"sealed"`
	Standby     bool `json:"standby"`

	// Reachable is false when the health probe itself failed. A probe
	// failure is reported here, never as an error.
	Reachable bool `json:"reachable"`
}

// Healthy reports whether the server is ready to serve requests: reachable,
// initialized, unsealed, and active.
func (h HealthStatus) Healthy() bool {
	return h.Reachable && h.Initialized && !h.Sealed && !h.Standby
}
