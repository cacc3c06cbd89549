package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restock representa un abastecimiento aplicado: una entrada de mercadería
// registrada en el libro mayor. Las filas son inmutables una vez confirmadas,
// salvo el ajuste de CreatedAt al timestamp original del evento, que ocurre
// dentro de la misma transacción de inserción.
type Restock struct {
	ID        string
	ProductID string
	UserID    *string // nil = sin operador asociado
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Total     decimal.Decimal // siempre Quantity * UnitCost
	TotalCost decimal.Decimal // puede diferir de Total si el cliente lo envía
	Note      string
	CreatedAt time.Time // timestamp original del evento si el PDV lo reclama; si no, hora de ingesta
}
