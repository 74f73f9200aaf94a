package storeerr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrStoreFailure is any persistence failure not classified below.
	ErrStoreFailure = errors.New("store failure")
	// ErrStoreNotInitialized means the schema has not been migrated.
	ErrStoreNotInitialized = errors.New("store not initialized")
	// ErrNotFound is a lookup miss.
	ErrNotFound = errors.New("record not found")
)

// MapError classifies err for callers that only branch with errors.Is. The
// original error stays in the chain.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreFailure) || errors.Is(err, ErrStoreNotInitialized) || errors.Is(err, ErrNotFound) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrNotFound, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreFailure, err))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "42P01", "3F000": // undefined_table, invalid_schema_name
			return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreNotInitialized, err))
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such table") || (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreNotInitialized, err))
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreFailure, err))
}
