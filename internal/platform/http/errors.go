package http

import (
	"errors"
	"net/http"

	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
)

// apiError maps a service-layer error onto the platform's uniform error
// payload. Unrecognized errors become opaque 500s so internals never leak.
func apiError(err error) *connectsdk.APIError {
	var invalid *service.InvalidParametersError
	if errors.As(err, &invalid) {
		violations := make([]connectsdk.ParameterViolation, len(invalid.Violations))
		for i, v := range invalid.Violations {
			violations[i] = connectsdk.ParameterViolation{Name: v.Name, Reason: v.Reason}
		}
		return &connectsdk.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       connectsdk.ErrorCodeInvalidParameters,
			Detail:     "one or more parameters failed validation",
			Violations: violations,
		}
	}

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, registry.ErrNotFound):
		return &connectsdk.APIError{
			StatusCode: http.StatusNotFound,
			Code:       connectsdk.ErrorCodeNotFound,
			Detail:     "the requested resource does not exist",
		}
	case errors.Is(err, store.ErrAlreadyExists):
		return &connectsdk.APIError{
			StatusCode: http.StatusConflict,
			Code:       connectsdk.ErrorCodeAlreadyExists,
			Detail:     "the resource already exists",
		}
	case errors.Is(err, service.ErrConnectorMismatch):
		return &connectsdk.APIError{
			StatusCode: http.StatusBadRequest,
			Code:       connectsdk.ErrorCodeConnectorMismatch,
			Detail:     "the connection belongs to a different connector",
		}
	case errors.Is(err, service.ErrNotActive):
		return &connectsdk.APIError{
			StatusCode: http.StatusConflict,
			Code:       connectsdk.ErrorCodeConnectionNotActive,
			Detail:     "the connection is not in a usable state",
		}
	case errors.Is(err, service.ErrUnknownEndpoint):
		return &connectsdk.APIError{
			StatusCode: http.StatusNotFound,
			Code:       connectsdk.ErrorCodeUnknownEndpoint,
			Detail:     "the connector does not declare this endpoint",
		}
	case errors.Is(err, service.ErrUnsupportedAuthType):
		return &connectsdk.APIError{
			StatusCode: http.StatusBadRequest,
			Code:       connectsdk.ErrorCodeUnsupportedAuthType,
			Detail:     "the connector does not use OAuth authorization",
		}
	case errors.Is(err, service.ErrProviderNotConfigured):
		return &connectsdk.APIError{
			StatusCode: http.StatusServiceUnavailable,
			Code:       connectsdk.ErrorCodeProviderUnconfigured,
			Detail:     "provider client credentials are not configured",
		}
	case errors.Is(err, service.ErrInvalidState):
		return &connectsdk.APIError{
			StatusCode: http.StatusBadRequest,
			Code:       connectsdk.ErrorCodeInvalidState,
			Detail:     "the authorization state is unknown, expired or already used",
		}
	case errors.Is(err, service.ErrExchangeFailed):
		return &connectsdk.APIError{
			StatusCode: http.StatusBadGateway,
			Code:       connectsdk.ErrorCodeExchangeFailed,
			Detail:     "the provider rejected the authorization code",
		}
	case errors.Is(err, service.ErrNoCredential):
		return &connectsdk.APIError{
			StatusCode: http.StatusConflict,
			Code:       connectsdk.ErrorCodeNoCredential,
			Detail:     "the connection has no stored credential",
		}
	case errors.Is(err, service.ErrCredentialExpired):
		return &connectsdk.APIError{
			StatusCode: http.StatusConflict,
			Code:       connectsdk.ErrorCodeCredentialExpired,
			Detail:     "the credential has expired and cannot be refreshed; re-authorize the connection",
		}
	case errors.Is(err, service.ErrUpstreamUnreachable):
		return &connectsdk.APIError{
			StatusCode: http.StatusBadGateway,
			Code:       connectsdk.ErrorCodeUpstreamUnreachable,
			Detail:     "the upstream service could not be reached",
		}
	}

	return &connectsdk.APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       connectsdk.ErrorCodeServerError,
		Detail:     "an internal error occurred",
	}
}

// badRequest builds an invalid_request error with a specific detail.
func badRequest(detail string) *connectsdk.APIError {
	return &connectsdk.APIError{
		StatusCode: http.StatusBadRequest,
		Code:       connectsdk.ErrorCodeInvalidRequest,
		Detail:     detail,
	}
}

// firstNonEmpty picks the first populated value; request fields with legacy
// aliases are folded through it before validation.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
