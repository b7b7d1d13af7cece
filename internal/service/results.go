package service

import (
	"github.com/noah-isme/teaching-load-api/internal/dto"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

// toItemError renders err as the machine-readable failure of one bulk item.
func toItemError(err error) *dto.ItemError {
	if err == nil {
		return nil
	}
	e := appErrors.FromError(err)
	return &dto.ItemError{Code: e.Code, Message: e.Message}
}

// isRejection reports whether err is a per-candidate validation outcome rather than an
// infrastructure failure.
func isRejection(err error) bool {
	e := appErrors.FromError(err)
	return e != nil && e.Status < 500
}
