package services

import (
	stderrors "errors"

	apperrors "github.com/pharmafind/backend/pkg/errors"
)

// asUnavailable passes typed domain errors through untouched and wraps
// everything else as a storage availability failure.
func asUnavailable(err error, message string) error {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return apperrors.NewUnavailableError(message, err)
}
