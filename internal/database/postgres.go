package database

import (
	"database/sql"
	"embed"
	"fmt"

	"eng-analytics-service/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var EmbedMigrations embed.FS

// NewWarehouseDB открывает соединение с аналитическим хранилищем.
// Один handle на процесс, переиспользуется всеми запросами.
func NewWarehouseDB(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		cfg.WarehouseUser, cfg.WarehousePassword, cfg.WarehouseHost,
		cfg.WarehousePort, cfg.WarehouseDB, cfg.WarehouseSchema,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("warehouse ping failed: %w", err)
	}

	if cfg.WarehouseRole != "" {
		if _, err = db.Exec(fmt.Sprintf("SET ROLE %q", cfg.WarehouseRole)); err != nil {
			return nil, fmt.Errorf("failed to set role: %w", err)
		}
	}

	if err = MigrateDB(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateDB накатывает DDL витрин для dev/test окружений.
// В проде витрины наполняются выше по пайплайну (dbt).
func MigrateDB(db *sql.DB) error {
	goose.SetBaseFS(EmbedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}

	return nil
}
