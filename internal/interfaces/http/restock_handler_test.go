package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pdv-sync/internal/application/dto"
	"github.com/tu-usuario/pdv-sync/internal/application/history"
	"github.com/tu-usuario/pdv-sync/internal/application/ingest"
	"github.com/tu-usuario/pdv-sync/internal/domain/entity"
	"github.com/tu-usuario/pdv-sync/internal/domain/repository"
	apphttp "github.com/tu-usuario/pdv-sync/internal/interfaces/http"
	"github.com/tu-usuario/pdv-sync/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos: transacción y libro mayor en memoria (sin fallas inyectadas)
// ──────────────────────────────────────────────────────────────────────────────

const testProductID = "11111111-1111-1111-1111-111111111111"

type memStore struct {
	products map[string]*entity.Product
	byCode   map[string]string
	users    map[string]*entity.User
	restocks []*entity.Restock
}

type memRestockRepo struct{ s *memStore }

func (m *memRestockRepo) Create(_ context.Context, r *entity.Restock) error {
	cp := *r
	m.s.restocks = append(m.s.restocks, &cp)
	return nil
}

func (m *memRestockRepo) SetCreatedAt(_ context.Context, id string, createdAt time.Time) error {
	for _, r := range m.s.restocks {
		if r.ID == id {
			r.CreatedAt = createdAt
		}
	}
	return nil
}

func (m *memRestockRepo) FindDuplicate(_ context.Context, key repository.DuplicateKey) (string, error) {
	for _, r := range m.s.restocks {
		if r.ProductID == key.ProductID && r.Quantity.Equal(key.Quantity) &&
			r.UnitCost.Equal(key.UnitCost) && r.TotalCost.Equal(key.TotalCost) &&
			r.CreatedAt.Equal(key.CreatedAt) {
			return r.ID, nil
		}
	}
	return "", nil
}

func (m *memRestockRepo) List(_ context.Context, filter repository.RestockFilter) ([]repository.RestockHistoryRow, error) {
	var rows []repository.RestockHistoryRow
	for _, r := range m.s.restocks {
		rows = append(rows, repository.RestockHistoryRow{
			Restock:     *r,
			ProductName: m.s.products[r.ProductID].Name,
			ProductCode: m.s.products[r.ProductID].Code,
		})
	}
	if len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

type memProductRepo struct{ s *memStore }

func (m *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *memProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	id, ok := m.s.byCode[code]
	if !ok {
		return nil, nil
	}
	return m.s.products[id], nil
}

func (m *memProductRepo) AddStock(_ context.Context, productID string, qty decimal.Decimal) error {
	m.s.products[productID].Stock = m.s.products[productID].Stock.Add(qty)
	return nil
}

func (m *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	m.s.products[p.ID] = p
	m.s.byCode[p.Code] = p.ID
	return nil
}

type memUserRepo struct{ s *memStore }

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

type memBulkTx struct{ s *memStore }

func (t *memBulkTx) Atomic(_ context.Context, fn func(restocks repository.RestockRepository, products repository.ProductRepository, users repository.UserRepository) error) error {
	return fn(&memRestockRepo{t.s}, &memProductRepo{t.s}, &memUserRepo{t.s})
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) RunBulk(_ context.Context, fn func(tx ingest.BulkTx) (bool, error)) error {
	_, err := fn(&memBulkTx{r.s})
	return err
}

// buildTestApp levanta la app Fiber con las rutas reales sobre el store en memoria.
func buildTestApp() (*fiber.App, *memStore) {
	store := &memStore{
		products: map[string]*entity.Product{},
		byCode:   map[string]string{},
		users:    map[string]*entity.User{},
	}
	repo := &memProductRepo{store}
	_ = repo.Create(context.Background(), &entity.Product{
		ID: testProductID, Code: "SKU1", Name: "Café molido", Stock: decimal.Zero,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		BulkIngest: ingest.NewBulkIngestUseCase(&memTxRunner{store}, logger.Nop()),
		History:    history.NewUseCase(&memRestockRepo{store}),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/restocks/bulk
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkCreate_Exitoso(t *testing.T) {
	app, store := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/restocks/bulk", fiber.Map{
		"items": []fiber.Map{
			{"local_id": "l-1", "product_code": "SKU1", "quantity": 10, "unit_cost": 2.5},
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.BulkRestockResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, []string{"l-1"}, res.Accepted)
	assert.Empty(t, res.Conflicts)
	assert.True(t, store.products[testProductID].Stock.Equal(decimal.NewFromInt(10)))
}

// Los conflictos viajan en la respuesta 200: el lote nunca aborta por un registro.
func TestBulkCreate_ConflictoEnRespuestaCompleta(t *testing.T) {
	app, _ := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/restocks/bulk", fiber.Map{
		"items": []fiber.Map{
			{"local_id": "l-1", "product_code": "NO-EXISTE", "quantity": 1, "unit_cost": 1},
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "los conflictos de negocio no son error HTTP")

	var res dto.BulkRestockResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 0, res.Inserted)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, dto.ConflictProductNotFound, res.Conflicts[0].Reason)
	assert.Equal(t, "l-1", res.Conflicts[0].LocalID)
}

func TestBulkCreate_CuerpoInvalido(t *testing.T) {
	app, _ := buildTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/restocks/bulk", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/restocks/history
// ──────────────────────────────────────────────────────────────────────────────

func TestGetHistory_Exitoso(t *testing.T) {
	app, _ := buildTestApp()

	// Sembrar una fila vía la propia API.
	resp := doJSON(t, app, http.MethodPost, "/api/restocks/bulk", fiber.Map{
		"items": []fiber.Map{
			{"product_code": "SKU1", "quantity": 5, "unit_cost": 2},
		},
	})
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/restocks/history?limit=10", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.RestockHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "SKU1", res.Items[0].ProductCode)
	assert.Equal(t, "Café molido", res.Items[0].ProductName)
	assert.False(t, res.HasNext)
}

// Filtros malformados: 400 con código VALIDATION, nunca 500.
func TestGetHistory_FiltroInvalido(t *testing.T) {
	app, _ := buildTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/restocks/history?product_id=no-es-uuid", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestGetHistory_OrdenacionInvalida(t *testing.T) {
	app, _ := buildTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/restocks/history?order=unit_cost_desc", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
