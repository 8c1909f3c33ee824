package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL applied at startup. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		code        CHAR(6)      NOT NULL,
		full_name   VARCHAR(255) NOT NULL,
		phone       VARCHAR(32)  NOT NULL,
		notes       TEXT         NOT NULL,
		res_date    CHAR(10)     NOT NULL,
		res_time    CHAR(5)      NOT NULL,
		end_time    CHAR(5)      NOT NULL,
		guests      INT          NOT NULL,
		child_count INT          NOT NULL DEFAULT 0,
		status      VARCHAR(16)  NOT NULL DEFAULT 'active',
		salon       VARCHAR(64)  NOT NULL DEFAULT '',
		masa        VARCHAR(32)  NOT NULL DEFAULT '',
		created_at  DATETIME(3)  NOT NULL,
		updated_at  DATETIME(3)  NOT NULL,
		updated_by  VARCHAR(255) NOT NULL DEFAULT '',
		update_type VARCHAR(16)  NOT NULL DEFAULT '',
		history     JSON         NOT NULL,
		UNIQUE KEY uq_reservations_code (code),
		KEY idx_reservations_table_date (salon, masa, res_date, status),
		KEY idx_reservations_date (res_date, res_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables the service needs when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
