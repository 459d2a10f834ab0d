package handler

import (
	"errors"

	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/models"
)

var (
	errInvalidEnvelope     = errors.New("malformed request envelope")
	errUnknownEnvelopeType = errors.New("unknown envelope type")
)

// wireErrorFrom maps transport-level decode failures onto the wire error
// taxonomy and defers everything else to the service-layer mapping.
func wireErrorFrom(err error) *models.WireError {
	switch {
	case errors.Is(err, errInvalidEnvelope), errors.Is(err, errUnknownEnvelopeType):
		return &models.WireError{Code: service.CodeBadRequest, Message: err.Error()}
	default:
		return service.WireErrorFrom(err)
	}
}
