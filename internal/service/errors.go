package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// mapStoreError converts repository sentinels into domain errors for the named resource.
func mapStoreError(err error, resource string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrStatusConflict):
		return apperrors.NewInvalidState(resource+" status changed concurrently", map[string]any{"id": id})
	default:
		return err
	}
}
