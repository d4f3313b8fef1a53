package vaultbridge

import (
	"context"
	"errors"
	"net"
)

var (
	// Lookup errors
	ErrSecretNotFound = errors.New("secret not found")
	ErrFieldNotFound  = errors.New("field not found in secret")

	// Transport errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTransportFailure     = errors.New("transport failure")
	ErrTimeout              = errors.New("request timed out")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsNotFound returns true if the error represents an absent secret or an
// absent field. Use errors.Is with the individual sentinels to tell the two
// apart.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSecretNotFound) ||
		errors.Is(err, ErrFieldNotFound)
}

// IsAuthError returns true if the error represents an authentication problem.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsTimeout returns true if the error represents an exceeded deadline, so
// callers can distinguish a slow server from a down one.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransportError returns true if the error represents a network, TLS, or
// server-side failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}

// IsConfigurationError returns true if the error represents a configuration
// problem.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// PublicMessage returns a message safe to expose to callers across a trust
// boundary. It names the error class only; credential material and raw secret
// values never appear in it.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrSecretNotFound):
		return "secret not found"
	case errors.Is(err, ErrFieldNotFound):
		return "field not found in secret"
	case IsTimeout(err):
		return "request to secrets server timed out"
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication with secrets server failed"
	case errors.Is(err, ErrInvalidConfiguration):
		return "service is misconfigured"
	default:
		return "secrets server request failed"
	}
}
