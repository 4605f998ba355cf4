package repository

import (
	"errors"

	"heavyhub/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeExclusionViolation  = "23P01"
)

// kindForPgErr maps constraint violations onto repository error kinds
// so the usecase layer can react without knowing Postgres error codes.
func kindForPgErr(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return infra.KindDBFailure
	}

	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return infra.KindDuplicateKey
	case pgErrCodeExclusionViolation:
		return infra.KindConflict
	case pgErrCodeForeignKeyViolation:
		return infra.KindForeignKeyViolated
	default:
		return infra.KindDBFailure
	}
}
