package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de conflicto por registro en la ingesta bulk.
const (
	ConflictProductNotFound = "product_not_found"
	ConflictInternalError   = "internal_error"
)

// RestockItemRequest un registro del lote enviado por el PDV.
// LocalID es el identificador del SQLite local del terminal: sirve solo para
// correlacionar la respuesta, no es único globalmente. ProductID o ProductCode
// debe resolver (el ID manda; si falta o está malformado se intenta el código).
// CreatedAt es el timestamp original del evento; si falta, el servidor asigna
// la hora de ingesta y no se deduplica ese registro.
type RestockItemRequest struct {
	LocalID     string           `json:"local_id,omitempty"`
	ProductID   string           `json:"product_id,omitempty"`
	ProductCode string           `json:"product_code,omitempty"`
	UserID      string           `json:"user_id,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
}

// BulkRestockRequest body de POST /api/restocks/bulk.
type BulkRestockRequest struct {
	Items []RestockItemRequest `json:"items"`
}

// RestockConflict entrada estructurada por registro fallido.
type RestockConflict struct {
	Reason      string `json:"reason"`
	ProductID   string `json:"product_id,omitempty"`
	ProductCode string `json:"product_code,omitempty"`
	LocalID     string `json:"local_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BulkRestockResult resultado de la ingesta: cuántas filas nuevas se
// insertaron, qué local_ids quedaron resueltos (inserciones y duplicados
// detectados por igual, el PDV no debe distinguirlos) y los conflictos.
type BulkRestockResult struct {
	Inserted  int               `json:"inserted"`
	Accepted  []string          `json:"accepted"`
	Conflicts []RestockConflict `json:"conflicts"`
}

// RestockHistoryItem fila serializada del histórico.
type RestockHistoryItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	UserID      *string         `json:"user_id"`
	UserName    *string         `json:"user_name"`
	CreatedAt   time.Time       `json:"created_at"`
	Note        string          `json:"note,omitempty"`
}

// RestockHistoryResponse página del histórico. HasNext se calcula pidiendo
// limit+1 filas, sin COUNT global.
type RestockHistoryResponse struct {
	Items   []RestockHistoryItem `json:"items"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	HasNext bool                 `json:"has_next"`
}
