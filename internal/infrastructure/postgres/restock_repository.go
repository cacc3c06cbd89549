package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pdv-sync/internal/domain"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
)

var _ repository.RestockRepository = (*RestockRepo)(nil)

// RestockRepo implementación del libro mayor de abastecimientos sobre PostgreSQL (usable con pool o tx).
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

// Create persiste un abastecimiento. Una violación del índice único de dedup
// (restocks_dedup_key) se mapea a domain.ErrDuplicate: el motor la trata como
// reenvío idempotente, no como falla.
func (r *RestockRepo) Create(ctx context.Context, restock *entity.Restock) error {
	if restock.ID == "" {
		restock.ID = uuid.New().String()
	}
	query := `
		INSERT INTO restocks (id, product_id, user_id, quantity, unit_cost, total, total_cost, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		restock.ID, restock.ProductID, restock.UserID,
		restock.Quantity, restock.UnitCost, restock.Total, restock.TotalCost,
		restock.Note, restock.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert restock: %w", err)
	}
	return nil
}

// SetCreatedAt ajusta created_at al timestamp original reclamado por el PDV.
// También aquí un 23505 del índice de dedup significa reenvío, no falla.
func (r *RestockRepo) SetCreatedAt(ctx context.Context, id string, createdAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE restocks SET created_at = $2 WHERE id = $1`,
		id, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set restock created_at: %w", err)
	}
	return nil
}

// FindDuplicate busca una fila que coincida exactamente con la clave compuesta.
// Devuelve "" si no hay coincidencia. La igualdad es numérica exacta (NUMERIC).
func (r *RestockRepo) FindDuplicate(ctx context.Context, key repository.DuplicateKey) (string, error) {
	query := `
		SELECT id FROM restocks
		WHERE product_id = $1
		  AND quantity = $2
		  AND unit_cost = $3
		  AND total_cost = $4
		  AND created_at = $5`
	args := []any{key.ProductID, key.Quantity, key.UnitCost, key.TotalCost, key.CreatedAt}
	if key.UserID == nil {
		query += " AND user_id IS NULL"
	} else {
		query += " AND user_id = $6"
		args = append(args, *key.UserID)
	}
	query += " LIMIT 1"

	var id string
	err := r.q.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find duplicate restock: %w", err)
	}
	return id, nil
}

// List devuelve el histórico con filtros opcionales, orden por created_at y
// paginación por offset. Los nombres de producto y operador se resuelven en
// lectura (LEFT JOIN: un operador borrado no oculta la fila).
func (r *RestockRepo) List(ctx context.Context, filter repository.RestockFilter) ([]repository.RestockHistoryRow, error) {
	query := `
		SELECT r.id, r.product_id, r.user_id, r.quantity, r.unit_cost, r.total, r.total_cost, r.note, r.created_at,
		       p.name, p.code, u.name
		FROM restocks r
		JOIN products p ON p.id = r.product_id
		LEFT JOIN users u ON u.id = r.user_id
		WHERE 1=1`
	var args []any
	pos := 1
	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND r.product_id = $%d", pos)
		args = append(args, *filter.ProductID)
		pos++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(" AND r.user_id = $%d", pos)
		args = append(args, *filter.UserID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND r.created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND r.created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Ascending {
		query += " ORDER BY r.created_at ASC"
	} else {
		query += " ORDER BY r.created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restocks: %w", err)
	}
	defer rows.Close()

	var list []repository.RestockHistoryRow
	for rows.Next() {
		var row repository.RestockHistoryRow
		var note *string
		if err := rows.Scan(
			&row.Restock.ID, &row.Restock.ProductID, &row.Restock.UserID,
			&row.Restock.Quantity, &row.Restock.UnitCost, &row.Restock.Total, &row.Restock.TotalCost,
			&note, &row.Restock.CreatedAt,
			&row.ProductName, &row.ProductCode, &row.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan restock: %w", err)
		}
		if note != nil {
			row.Restock.Note = *note
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
