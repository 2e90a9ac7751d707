package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/attendance"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
)

var _ attendance.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL serializada
// por usuario.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunForUser inicia una transacción, toma un advisory lock por usuario y
// ejecuta fn con un repo atado a la tx; Commit o Rollback según el resultado.
//
// El lock serializa los eventos del mismo usuario: leer el candidato del día
// y escribir el resultado no son atómicos como unidad, y sin esto dos eventos
// concurrentes producen dos registros abiertos o pierden una actualización.
// pg_advisory_xact_lock se libera solo al terminar la transacción.
func (r *TxRunner) RunForUser(ctx context.Context, userID string, fn func(repo repository.AttendanceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(NewAttendanceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
