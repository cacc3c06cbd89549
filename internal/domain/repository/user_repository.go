package repository

import (
	"context"

	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
)

// UserRepository define el puerto del directorio de operadores.
// GetByID devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
