package repository

import (
	"errors"

	"studio-booking/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// wrapQueryErr maps driver errors onto repository error kinds so the usecase
// layer never inspects pg error codes itself.
func wrapQueryErr(msg string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return infra.WrapRepoErr(infra.KindNotFound, msg, err)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				return infra.WrapRepoErr(infra.KindDuplicateKey, msg, err)
			case pgErrCodeForeignKeyViolation:
				return infra.WrapRepoErr(infra.KindForeignKeyViolated, msg, err)
			}
		}
		return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
	}
}
