package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pdv-sync/internal/application/dto"
	"github.com/tu-usuario/pdv-sync/internal/domain"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
	"github.com/tu-usuario/pdv-sync/pkg/logger"
)

// errDedupLookup señala que la consulta de duplicados falló. La deduplicación
// es best-effort: ante este error el registro se reintenta una vez sin el
// chequeo, y el índice único del libro mayor respalda la garantía.
var errDedupLookup = errors.New("consulta de duplicados fallida")

// BulkIngestUseCase es el motor de ingesta idempotente: procesa el lote
// registro a registro (resolver → dedup → escribir) dentro de una única
// transacción, acumula resultados por registro y confirma solo si hubo al
// menos una inserción.
type BulkIngestUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewBulkIngestUseCase construye el caso de uso.
func NewBulkIngestUseCase(tx TxRunner, log *logger.Logger) *BulkIngestUseCase {
	return &BulkIngestUseCase{tx: tx, log: log}
}

type itemStatus int

const (
	statusInserted itemStatus = iota
	statusDuplicate
	statusConflict
)

// itemOutcome variante etiquetada del resultado de un registro (nada de mapas
// sueltos: insertado, duplicado aceptado o conflicto con razón).
type itemOutcome struct {
	status   itemStatus
	localID  string
	conflict dto.RestockConflict
}

// Ingest procesa el lote completo. Ningún registro individual aborta el lote:
// sus fallas se convierten en conflictos estructurados. Solo una falla de la
// propia transacción (begin/commit/rollback) se propaga al caller.
func (uc *BulkIngestUseCase) Ingest(ctx context.Context, req dto.BulkRestockRequest) (*dto.BulkRestockResult, error) {
	res := &dto.BulkRestockResult{Accepted: []string{}, Conflicts: []dto.RestockConflict{}}

	err := uc.tx.RunBulk(ctx, func(btx BulkTx) (bool, error) {
		var lastAssigned time.Time
		for _, item := range req.Items {
			// Timestamp de ingesta estrictamente creciente dentro del lote:
			// dos registros sin timestamp reclamado nunca comparten clave en
			// el índice de dedup aunque lleguen en el mismo microsegundo.
			assignedAt := time.Now()
			if !assignedAt.After(lastAssigned) {
				assignedAt = lastAssigned.Add(time.Microsecond)
			}
			lastAssigned = assignedAt

			out := uc.processItem(ctx, btx, item, assignedAt)
			switch out.status {
			case statusInserted:
				res.Inserted++
				if out.localID != "" {
					res.Accepted = append(res.Accepted, out.localID)
				}
			case statusDuplicate:
				if out.localID != "" {
					res.Accepted = append(res.Accepted, out.localID)
				}
			case statusConflict:
				res.Conflicts = append(res.Conflicts, out.conflict)
			}
		}
		return res.Inserted > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// processItem corre el pipeline de un registro. Si la consulta de duplicados
// falla, reintenta una única vez saltando el chequeo (flujo normal de
// inserción); cualquier otra falla se vuelve conflicto internal_error.
func (uc *BulkIngestUseCase) processItem(ctx context.Context, btx BulkTx, item dto.RestockItemRequest, assignedAt time.Time) itemOutcome {
	out, err := uc.tryItem(ctx, btx, item, assignedAt, false)
	if errors.Is(err, errDedupLookup) {
		uc.log.Warn().
			Str("product_id", item.ProductID).
			Str("product_code", item.ProductCode).
			Str("local_id", item.LocalID).
			Err(err).
			Msg("dedup fallido, se reintenta el registro sin chequeo")
		out, err = uc.tryItem(ctx, btx, item, assignedAt, true)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// El índice único del libro mayor atrapó un reenvío que el
			// chequeo no vio: idempotente, se acepta sin insertar.
			return itemOutcome{status: statusDuplicate, localID: item.LocalID}
		}
		return itemOutcome{
			status: statusConflict,
			conflict: dto.RestockConflict{
				Reason:      dto.ConflictInternalError,
				ProductID:   item.ProductID,
				ProductCode: item.ProductCode,
				LocalID:     item.LocalID,
				Message:     err.Error(),
			},
		}
	}
	return out
}

// tryItem ejecuta resolver → dedup → escritura dentro de un savepoint, de modo
// que los efectos del registro se aplican juntos o no se aplican en absoluto.
func (uc *BulkIngestUseCase) tryItem(ctx context.Context, btx BulkTx, item dto.RestockItemRequest, assignedAt time.Time, skipDedup bool) (itemOutcome, error) {
	var out itemOutcome
	err := btx.Atomic(ctx, func(restocks repository.RestockRepository, products repository.ProductRepository, users repository.UserRepository) error {
		product, err := resolveProduct(ctx, products, item)
		if err != nil {
			return err
		}
		if product == nil {
			out = itemOutcome{
				status: statusConflict,
				conflict: dto.RestockConflict{
					Reason:      dto.ConflictProductNotFound,
					ProductID:   item.ProductID,
					ProductCode: item.ProductCode,
					LocalID:     item.LocalID,
				},
			}
			return nil
		}

		userID, err := resolveUser(ctx, users, item.UserID)
		if err != nil {
			return err
		}
		total := item.Quantity.Mul(item.UnitCost)
		totalCost := total
		if item.TotalCost != nil {
			totalCost = *item.TotalCost
		}

		if !skipDedup && item.CreatedAt != nil {
			dupID, err := restocks.FindDuplicate(ctx, repository.DuplicateKey{
				ProductID: product.ID,
				UserID:    userID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
				TotalCost: totalCost,
				CreatedAt: *item.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("%w: %v", errDedupLookup, err)
			}
			if dupID != "" {
				out = itemOutcome{status: statusDuplicate, localID: item.LocalID}
				return nil
			}
		}

		restock := &entity.Restock{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    userID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Total:     total,
			TotalCost: totalCost,
			Note:      item.Note,
			CreatedAt: assignedAt,
		}
		if err := restocks.Create(ctx, restock); err != nil {
			return err
		}
		// Cantidad negativa permitida: el PDV la usa como corrección.
		if err := products.AddStock(ctx, product.ID, item.Quantity); err != nil {
			return err
		}
		// Ajuste al timestamp original reclamado, dentro del mismo savepoint,
		// para que el histórico refleje la hora real del evento.
		if item.CreatedAt != nil {
			if err := restocks.SetCreatedAt(ctx, restock.ID, *item.CreatedAt); err != nil {
				return err
			}
		}
		out = itemOutcome{status: statusInserted, localID: item.LocalID}
		return nil
	})
	if err != nil {
		return itemOutcome{}, err
	}
	return out, nil
}
