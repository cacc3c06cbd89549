package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/tu-usuario/pdv-sync/internal/application/dto"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
)

// resolveProduct resuelve la referencia de producto de un registro contra el
// catálogo. El ID tiene prioridad; un ID malformado no es error, degrada a la
// búsqueda por código. Devuelve (nil, nil) si no resuelve por ninguna vía.
func resolveProduct(ctx context.Context, products repository.ProductRepository, item dto.RestockItemRequest) (*entity.Product, error) {
	if item.ProductID != "" {
		if _, err := uuid.Parse(item.ProductID); err == nil {
			p, err := products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				return p, nil
			}
		}
	}
	if item.ProductCode != "" {
		return products.GetByCode(ctx, item.ProductCode)
	}
	return nil, nil
}

// resolveUser resuelve la atribución opcional del registro contra el
// directorio de operadores. Un UUID válido que no figura en el directorio
// degrada a "sin operador" igual que uno malformado: el operador es solo
// atribución, nunca bloquea la carga.
func resolveUser(ctx context.Context, users repository.UserRepository, raw string) (*string, error) {
	id := normalizeUserID(raw)
	if id == nil {
		return nil, nil
	}
	u, err := users.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return id, nil
}

// normalizeUserID valida el user_id opcional. Vacío o malformado se trata como
// "sin operador" (NULL), igual que el backend original: el operador no es un
// dato de carga, solo de atribución.
func normalizeUserID(raw string) *string {
	if raw == "" {
		return nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return nil
	}
	id := raw
	return &id
}
