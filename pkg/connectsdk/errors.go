package connectsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/patchbay-dev/patchbay/pkg/httpx"
)

// Platform error codes. Stable across releases; clients switch on these
// rather than on detail strings.
const (
	ErrorCodeNotFound             = "not_found"
	ErrorCodeAlreadyExists        = "already_exists"
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidParameters    = "invalid_parameters"
	ErrorCodeConnectorMismatch    = "connector_mismatch"
	ErrorCodeConnectionNotActive  = "connection_not_active"
	ErrorCodeUnknownEndpoint      = "unknown_endpoint"
	ErrorCodeUnsupportedAuthType  = "unsupported_auth_type"
	ErrorCodeProviderUnconfigured = "provider_not_configured"
	ErrorCodeInvalidState         = "invalid_state"
	ErrorCodeExchangeFailed       = "exchange_failed"
	ErrorCodeNoCredential         = "no_credential"
	ErrorCodeCredentialExpired    = "credential_expired"
	ErrorCodeUpstreamUnreachable  = "upstream_unreachable"
	ErrorCodeServerError          = "server_error"
)

// APIError is the platform's uniform error payload. It implements the error
// interface and is used by both the server handlers (to write responses)
// and the SDK client (to surface them).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the stable platform error code
	Code string `json:"error"`

	// Detail is a human-readable description
	Detail string `json:"detail"`

	// Violations lists per-parameter problems for invalid_parameters errors
	Violations []ParameterViolation `json:"violations,omitempty"`
}

// ParameterViolation names one endpoint parameter that failed validation.
type ParameterViolation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// parseErrorResponse turns a non-2xx platform response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Detail = fmt.Sprintf("unexpected response (status %d)", resp.StatusCode)
	}
	return apiErr
}
