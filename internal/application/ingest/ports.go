package ingest

import (
	"context"

	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD que dura todo el lote.
// fn decide el destino: si devuelve commit=true (y sin error) se confirma;
// en cualquier otro caso se revierte. Un lote compuesto solo de duplicados o
// de conflictos no deja escrituras durables.
type TxRunner interface {
	RunBulk(ctx context.Context, fn func(tx BulkTx) (commit bool, err error)) error
}

// BulkTx expone el scope transaccional del lote. Atomic ejecuta fn dentro de
// un savepoint con los repositorios atados a él: si fn falla se revierte solo
// ese tramo y la transacción del lote sigue utilizable para el resto de
// registros.
type BulkTx interface {
	Atomic(ctx context.Context, fn func(restocks repository.RestockRepository, products repository.ProductRepository, users repository.UserRepository) error) error
}
