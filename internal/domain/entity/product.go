package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo central.
// Stock es la existencia acumulada: la suma de las cantidades de todos los
// abastecimientos aplicados desde la creación del producto. UpdatedAt se
// refresca en cada mutación de stock para que los PDV detecten el cambio
// vía pull y actualicen su copia local.
type Product struct {
	ID        string
	Code      string // código legible único (lo que escanea/teclea el PDV)
	Name      string
	Stock     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
