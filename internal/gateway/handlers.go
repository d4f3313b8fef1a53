package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/khalilou88/vaultbridge"
)

// handleHealth reports the secrets server's health. It always answers 200:
// probe failures degrade to DOWN, never to a 5xx, so health reporting cannot
// itself fail the caller.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.store.Health(r.Context())
	healthy := status.Healthy()

	body := map[string]any{
		"healthy": healthy,
		"status":  "UP",
	}
	if !healthy {
		body["status"] = "DOWN"
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleReadSecret(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	secret, err := s.store.Read(r.Context(), path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"path": path,
		"data": secret.Data,
	})
}

func (s *Server) handleWriteSecret(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid request",
			"message": "request body must be a JSON object",
		})
		return
	}

	if _, err := s.store.Write(r.Context(), path, data); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "secret written successfully",
		"path":    path,
	})
}

func (s *Server) handleDeleteSecret(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	if err := s.store.Delete(r.Context(), path); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "secret deleted successfully",
		"path":    path,
	})
}

func (s *Server) handleReadField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	path, key := vars["path"], vars["key"]

	value, err := s.store.ReadField(r.Context(), path, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"path":  path,
		"key":   key,
		"value": value,
	})
}

func (s *Server) handleListSecrets(w http.ResponseWriter, r *http.Request) {
	prefix := mux.Vars(r)["prefix"]

	keys, err := s.store.List(r.Context(), prefix)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prefix": prefix,
		"keys":   keys,
	})
}

// handleConfig echoes the non-sensitive parts of the running configuration.
// Credential material and TLS paths stay out of the response.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	authMethod := "none"
	switch {
	case s.cfg.StoreDriver == vaultbridge.StoreDriverAWSSM:
		authMethod = "aws-sdk"
	case s.cfg.Token != "":
		authMethod = "token"
	case s.cfg.RoleID != "":
		authMethod = "approle"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"store_driver": s.cfg.StoreDriver,
		"address":      s.cfg.Address,
		"mount":        s.cfg.Mount,
		"namespace":    s.cfg.Namespace,
		"auth_method":  authMethod,
		"version":      vaultbridge.VersionInfo(),
	})
}

// writeError converts a store error into a response. Not-found is the
// expected-absence outcome; timeouts answer 504 so a slow server stays
// distinguishable from a down one; everything else collapses to a generic
// 500. Messages come from PublicMessage and never carry credentials or
// secret values.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	label := "request failed"
	switch {
	case vaultbridge.IsNotFound(err):
		status = http.StatusNotFound
		label = "not found"
		s.log.Debug().Str("path", r.URL.Path).Msg("secret or field not found")
	case vaultbridge.IsTimeout(err):
		status = http.StatusGatewayTimeout
		label = "timeout"
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("secrets server timeout")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("secrets server request failed")
	}

	writeJSON(w, status, map[string]any{
		"error":   label,
		"message": vaultbridge.PublicMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
