package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Connection and catalog errors
	ErrConnectorMismatch = errors.New("connector_mismatch")
	ErrNotActive         = errors.New("connection_not_active")
	ErrUnknownEndpoint   = errors.New("unknown_endpoint")

	// OAuth flow errors
	ErrUnsupportedAuthType   = errors.New("unsupported_auth_type")
	ErrProviderNotConfigured = errors.New("provider_not_configured")
	ErrInvalidState          = errors.New("invalid_state")
	ErrExchangeFailed        = errors.New("exchange_failed")

	// Credential errors
	ErrNoCredential      = errors.New("no_credential")
	ErrCredentialExpired = errors.New("credential_expired")

	// Proxy errors
	ErrUpstreamUnreachable = errors.New("upstream_unreachable")
)

// ParameterViolation names one endpoint parameter that failed validation.
type ParameterViolation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// InvalidParametersError reports every parameter violation found in a proxy
// request at once, so callers can fix their request in a single round trip.
type InvalidParametersError struct {
	Violations []ParameterViolation
}

func (e *InvalidParametersError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Name, v.Reason))
	}
	return "invalid_parameters: " + strings.Join(parts, "; ")
}
