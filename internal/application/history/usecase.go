package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pdv-sync/internal/application/dto"
	"github.com/tu-usuario/pdv-sync/internal/domain"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
)

// Ordenaciones aceptadas por el histórico.
const (
	OrderCreatedAtDesc = "created_at_desc"
	OrderCreatedAtAsc  = "created_at_asc"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Query parámetros del histórico tal como llegan del handler (sin validar).
type Query struct {
	DateFrom  string // YYYY-MM-DD o RFC3339, inclusivo
	DateTo    string
	ProductID string
	UserID    string
	Page      int // 1-based
	Limit     int
	Order     string
}

// UseCase consulta paginada del libro mayor de abastecimientos (lado de
// lectura: composición de filtros sobre lo que escribe el motor de ingesta).
type UseCase struct {
	restockRepo repository.RestockRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(restockRepo repository.RestockRepository) *UseCase {
	return &UseCase{restockRepo: restockRepo}
}

// GetHistory valida los filtros y devuelve una página del histórico.
// Valores malformados devuelven domain.ErrInvalidInput (falla del cliente,
// nunca se ignoran en silencio); se pide limit+1 filas para calcular has_next.
func (uc *UseCase) GetHistory(ctx context.Context, q Query) (*dto.RestockHistoryResponse, error) {
	filter, page, limit, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.restockRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("consultar histórico: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	items := make([]dto.RestockHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.RestockHistoryItem{
			ID:          row.Restock.ID,
			ProductID:   row.Restock.ProductID,
			ProductName: row.ProductName,
			ProductCode: row.ProductCode,
			Quantity:    row.Restock.Quantity,
			UnitCost:    row.Restock.UnitCost,
			TotalCost:   row.Restock.TotalCost,
			UserID:      row.Restock.UserID,
			UserName:    row.UserName,
			CreatedAt:   row.Restock.CreatedAt,
			Note:        row.Restock.Note,
		})
	}

	return &dto.RestockHistoryResponse{
		Items:   items,
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
	}, nil
}

// buildFilter traduce la Query cruda en un RestockFilter validado.
func buildFilter(q Query) (repository.RestockFilter, int, int, error) {
	var filter repository.RestockFilter

	if q.DateFrom != "" {
		t, err := parseDate(q.DateFrom)
		if err != nil {
			return filter, 0, 0, fmt.Errorf("%w: date_from malformada", domain.ErrInvalidInput)
		}
		filter.From = &t
	}
	if q.DateTo != "" {
		t, err := parseDate(q.DateTo)
		if err != nil {
			return filter, 0, 0, fmt.Errorf("%w: date_to malformada", domain.ErrInvalidInput)
		}
		filter.To = &t
	}
	if q.ProductID != "" {
		if _, err := uuid.Parse(q.ProductID); err != nil {
			return filter, 0, 0, fmt.Errorf("%w: product_id malformado", domain.ErrInvalidInput)
		}
		pid := q.ProductID
		filter.ProductID = &pid
	}
	if q.UserID != "" {
		if _, err := uuid.Parse(q.UserID); err != nil {
			return filter, 0, 0, fmt.Errorf("%w: user_id malformado", domain.ErrInvalidInput)
		}
		uid := q.UserID
		filter.UserID = &uid
	}

	switch q.Order {
	case "", OrderCreatedAtDesc:
		filter.Ascending = false
	case OrderCreatedAtAsc:
		filter.Ascending = true
	default:
		return filter, 0, 0, fmt.Errorf("%w: ordenación desconocida %q", domain.ErrInvalidInput, q.Order)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		return filter, 0, 0, fmt.Errorf("%w: limit máximo %d", domain.ErrInvalidInput, maxLimit)
	}

	filter.Offset = (page - 1) * limit
	filter.Limit = limit + 1 // una fila extra para has_next
	return filter, page, limit, nil
}

// parseDate acepta fecha simple (YYYY-MM-DD) o timestamp RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
