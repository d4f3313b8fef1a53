package vault

import (
	"context"

	"github.com/khalilou88/vaultbridge"
)

// Health probes the server's sys/health endpoint.
//
// Health never returns an error: a failed probe degrades to an unreachable
// status so health reporting can never itself fail the caller. The health
// endpoint answers on non-200 codes for sealed, standby, and uninitialized
// servers; the client surfaces those as a populated response, not a failure.
func (s *Store) Health(ctx context.Context) vaultbridge.HealthStatus {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ClientTimeout)
	defer cancel()

	resp, err := s.client.Sys().HealthWithContext(probeCtx)
	if err != nil || resp == nil {
		s.log.Debug().Err(err).Msg("health probe failed")
		return vaultbridge.HealthStatus{}
	}

	return vaultbridge.HealthStatus{
		Initialized: resp.Initialized,
		Sealed:      resp.Sealed,
		Standby:     resp.Standby,
		Reachable:   true,
	}
}
