package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// AddStock suma qty (puede ser negativa) al stock del producto y refresca
	// updated_at en una sola sentencia atómica. Seguro bajo read committed
	// frente a lotes concurrentes sobre el mismo producto.
	AddStock(ctx context.Context, productID string, qty decimal.Decimal) error
	Create(ctx context.Context, product *entity.Product) error
}
