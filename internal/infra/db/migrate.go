package db

import (
	"studio-booking/internal/pkg/errs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending migration from dir against the database.
func Migrate(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return errs.Wrap(err, "failed to open database for migration")
	}
	defer sqlDB.Close()

	if err := goose.Up(sqlDB, dir); err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}
	return nil
}
