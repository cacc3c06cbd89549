package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
)

// DuplicateKey es la clave compuesta determinística con la que se detecta el
// reenvío de un mismo evento lógico. Solo aplica cuando el PDV reclama el
// timestamp original (CreatedAt); la comparación numérica es exacta.
type DuplicateKey struct {
	ProductID string
	UserID    *string // nil = "sin operador", que también cuenta como valor
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	CreatedAt time.Time
}

// RestockFilter filtros del histórico de abastecimientos.
// Los punteros en nil significan "sin filtro"; From/To son inclusivos.
type RestockFilter struct {
	ProductID *string
	UserID    *string
	From      *time.Time
	To        *time.Time
	Ascending bool
	Limit     int
	Offset    int
}

// RestockHistoryRow fila del histórico con los campos de presentación
// resueltos en lectura (nombre/código de producto, nombre de operador).
type RestockHistoryRow struct {
	Restock     entity.Restock
	ProductName string
	ProductCode string
	UserName    *string
}

// RestockRepository define el puerto de persistencia del libro mayor de
// abastecimientos.
type RestockRepository interface {
	Create(ctx context.Context, restock *entity.Restock) error
	// SetCreatedAt ajusta created_at de una fila recién insertada al timestamp
	// original reclamado por el PDV (misma transacción que el insert).
	SetCreatedAt(ctx context.Context, id string, createdAt time.Time) error
	// FindDuplicate devuelve el ID de una fila que coincida exactamente con la
	// clave compuesta, o "" si no existe.
	FindDuplicate(ctx context.Context, key DuplicateKey) (string, error)
	List(ctx context.Context, filter RestockFilter) ([]RestockHistoryRow, error)
}
