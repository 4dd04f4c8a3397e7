package repository

import (
	"errors"
	"strings"

	"scribe/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes classified by translateWriteError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateWriteError maps constraint violations to client errors. Anything
// else is an internal error.
func translateWriteError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewConflictError(uniqueMessage(resource, pgErr.ConstraintName))
		case pgForeignKeyViolation:
			return &models.AppError{Kind: models.KindValidation, Message: foreignKeyMessage(pgErr.ConstraintName), Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return models.NewConflictError(uniqueMessage(resource, msg))
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(msg, "foreign key constraint"):
		return &models.AppError{Kind: models.KindValidation, Message: foreignKeyMessage(msg), Err: err}
	}

	return models.NewInternalError(err)
}

// uniqueMessage names the offending column when the constraint or driver
// message reveals it. Both idx_users_username and "users.username" match.
func uniqueMessage(resource, hint string) string {
	switch {
	case strings.Contains(hint, "username"):
		return "Username already taken"
	case strings.Contains(hint, "email"):
		return "Email already registered"
	default:
		return resource + " already exists"
	}
}

// foreignKeyMessage reads the constraint name, fk_<table>_<parent>.
func foreignKeyMessage(hint string) string {
	switch {
	case strings.HasSuffix(hint, "_post"):
		return "Referenced post does not exist"
	case strings.HasSuffix(hint, "_user"):
		return "Referenced user does not exist"
	default:
		return "Referenced record does not exist"
	}
}
