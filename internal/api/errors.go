package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
)

// problem maps scanner errors to HTTP problem responses
func problem(err error) error {
	var invalid *scan.ConfigInvalidError

	switch {
	case errors.As(err, &invalid):
		details := make([]error, len(invalid.Fields))
		for i, f := range invalid.Fields {
			details[i] = &huma.ErrorDetail{
				Message:  f.Reason,
				Location: "body." + f.Field,
			}
		}
		return huma.Error422UnprocessableEntity(scan.ErrConfigInvalid.Error(), details...)
	case errors.Is(err, scan.ErrScanInProgress):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, scan.ErrResultNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}
