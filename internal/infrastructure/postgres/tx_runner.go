package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pdv-sync/internal/application/ingest"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
)

var _ ingest.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta la ingesta bulk dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBulk inicia la transacción del lote, ejecuta fn con el scope atado a ella
// y confirma solo si fn pide commit. Si el contexto se cancela a mitad del
// lote, el defer revierte todo lo no confirmado.
func (r *TxRunner) RunBulk(ctx context.Context, fn func(tx ingest.BulkTx) (commit bool, err error)) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	commit, err := fn(&bulkTx{tx: tx})
	if err != nil {
		return err
	}
	if !commit {
		if err := tx.Rollback(ctx); err != nil {
			return fmt.Errorf("rollback transaction: %w", err)
		}
		return nil
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// bulkTx implementa ingest.BulkTx sobre una pgx.Tx.
type bulkTx struct {
	tx pgx.Tx
}

// Atomic ejecuta fn en un savepoint (transacción anidada de pgx): una falla
// revierte solo los efectos de ese registro y el lote sigue procesable.
func (b *bulkTx) Atomic(ctx context.Context, fn func(restocks repository.RestockRepository, products repository.ProductRepository, users repository.UserRepository) error) error {
	sub, err := b.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	defer func() { _ = sub.Rollback(ctx) }()

	if err := fn(NewRestockRepository(sub), NewProductRepository(sub), NewUserRepository(sub)); err != nil {
		return err
	}
	if err := sub.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
