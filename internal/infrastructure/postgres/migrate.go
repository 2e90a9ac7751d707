package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las tablas si no existen. Idempotente; pensado para
// despliegues de una sola instancia que migran al arrancar.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS user_account (
		id             UUID PRIMARY KEY,
		employee_id    TEXT NOT NULL UNIQUE,
		fullname       TEXT NOT NULL,
		role           TEXT NOT NULL,
		temp_pwd       TEXT NOT NULL,
		last_chat_id   TEXT,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		is_pwd_expired BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_user_account_chat ON user_account (last_chat_id) WHERE last_chat_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS attendance (
		id            BIGSERIAL PRIMARY KEY,
		user_id       UUID NOT NULL REFERENCES user_account (id),
		selfie        JSONB,
		selfie_time   TIMESTAMPTZ,
		location_lat  NUMERIC(9, 6),
		location_lon  NUMERIC(9, 6),
		location_time TIMESTAMPTZ,
		CHECK (selfie_time IS NOT NULL OR location_time IS NOT NULL),
		CHECK ((selfie IS NULL) = (selfie_time IS NULL)),
		CHECK ((location_lat IS NULL) = (location_time IS NULL)),
		CHECK ((location_lon IS NULL) = (location_time IS NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_user_selfie ON attendance (user_id, selfie_time);
	CREATE INDEX IF NOT EXISTS idx_attendance_user_location ON attendance (user_id, location_time);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
