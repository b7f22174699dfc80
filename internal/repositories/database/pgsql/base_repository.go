package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// exec runs a statement that returns no rows, wrapping failures with the operation name.
func (r *BaseRepository) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.Pool.Exec(ctx, query, args...); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to "+op, err)
	}
	return nil
}
