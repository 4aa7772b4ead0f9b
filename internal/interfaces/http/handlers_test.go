package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/orders"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Panaderia-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Panaderia-api/pkg/jwt"
)

type fixture struct {
	store *memory.Store
	app   *fiber.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	s.AddItem(entity.Item{ID: "croissant", Kind: entity.ItemKindProduct, Name: "Croissant", MinStockLevel: 5, IsActive: true})
	s.AddItem(entity.Item{ID: "baguette", Kind: entity.ItemKindProduct, Name: "Baguette", IsActive: true})
	s.AddItem(entity.Item{ID: "harina", Kind: entity.ItemKindSupply, Name: "Harina de trigo", IsActive: true})

	log := zerolog.Nop()
	eng := inventory.NewStockEngine(inventory.EngineConfig{})
	sale := inventory.NewSaleUseCase(s, s.Items(), eng, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AdjustStock:      inventory.NewAdjustStockUseCase(s, s.Items(), eng, log),
		Sale:             sale,
		StockQuery:       inventory.NewStockQueryUseCase(s.Items(), s.Stock(), s.Movements(), "", log),
		SalesStatus:      orders.NewSalesStatusUseCase(s, s.SalesOrders(), sale, log),
		ProductionStatus: orders.NewProductionStatusUseCase(s, s.ProductionOrders(), eng, log),
		JWTSecret:        testJWTSecret,
		HistoryLimit:     inventory.DefaultHistoryLimit,
	})
	return &fixture{store: s, app: app}
}

func (f *fixture) do(t *testing.T, method, path string, body any, role string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestAdjustProduct(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.ItemKindProduct, "croissant", 100)

	resp, raw := f.do(t, http.MethodPut, "/api/inventory/croissant",
		map[string]any{"quantity": 80, "movementType": "ajuste", "reason": "cycle count", "userId": "otro"}, pkgjwt.RoleStock)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out dto.AdjustStockResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Success)
	assert.Equal(t, 100, out.Data.PreviousQuantity)
	assert.Equal(t, 80, out.Data.NewQuantity)
	assert.Equal(t, -20, out.Data.QuantityChange)
	assert.Equal(t, "adjustment", out.Data.MovementType)

	ledger := f.store.Ledger(entity.ItemKindProduct, "croissant")
	require.Len(t, ledger, 1)
	require.NotNil(t, ledger[0].UserID)
	assert.Equal(t, testUserID, *ledger[0].UserID, "el usuario del token prevalece sobre el del body")
}

func TestAdjustProduct_Errores(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"sin cantidad", "/api/inventory/croissant", map[string]any{"reason": "x"}, http.StatusBadRequest, "VALIDATION"},
		{"no numérica", "/api/inventory/croissant", map[string]any{"quantity": "muchos"}, http.StatusBadRequest, "VALIDATION"},
		{"tipo desconocido", "/api/inventory/croissant", map[string]any{"quantity": 3, "movementType": "merma"}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", "/api/inventory/nope", map[string]any{"quantity": 3}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := f.do(t, http.MethodPut, tc.path, tc.body, pkgjwt.RoleStock)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, string(raw), tc.code)
		})
	}
	assert.Empty(t, f.store.Ledger(entity.ItemKindProduct, "croissant"))
}

func TestAdjustProduct_FalloDeTransaccion(t *testing.T) {
	f := newFixture(t)
	f.store.FailMovement = func(*entity.MovementRecord) error { return errors.New("disk full") }

	resp, raw := f.do(t, http.MethodPut, "/api/inventory/croissant", map[string]any{"quantity": 3}, pkgjwt.RoleStock)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ADJUSTMENT_FAILED", out.Code)
	assert.Contains(t, out.Detail, "disk full")
	assert.False(t, f.store.HasStockRecord(entity.ItemKindProduct, "croissant"))
}

func TestAdjustProduct_ConflictoDeEscritura(t *testing.T) {
	f := newFixture(t)
	f.store.FailMovement = func(*entity.MovementRecord) error {
		return fmt.Errorf("create movement: %w", domain.ErrConflict)
	}

	resp, raw := f.do(t, http.MethodPut, "/api/inventory/croissant", map[string]any{"quantity": 4}, pkgjwt.RoleStock)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "CONFLICT")
	assert.Equal(t, 0, f.store.Quantity(entity.ItemKindProduct, "croissant"))
}

func TestAdjustProduct_TipoIncoherente(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.ItemKindProduct, "croissant", 10)

	resp, raw := f.do(t, http.MethodPut, "/api/inventory/croissant", map[string]any{"quantity": 4, "movementType": "entrada"}, pkgjwt.RoleStock)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")
	assert.Equal(t, 10, f.store.Quantity(entity.ItemKindProduct, "croissant"))
}

func TestAdjustSupply_YConsulta(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, http.MethodPatch, "/api/supplies/harina/stock", map[string]any{"stock_quantity": "25"}, pkgjwt.RoleBaker)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, 25, f.store.Quantity(entity.ItemKindSupply, "harina"))

	resp, raw = f.do(t, http.MethodGet, "/api/supplies/harina/stock", nil, pkgjwt.RoleBaker)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.StockRecordResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 25, out.Data.Quantity)
	assert.Equal(t, "Harina de trigo", out.Data.Name)
	assert.Equal(t, entity.DefaultWarehouseLocation, out.Data.WarehouseLocation)
}

func TestGetProductStock_SinRegistro(t *testing.T) {
	f := newFixture(t)
	resp, raw := f.do(t, http.MethodGet, "/api/inventory/croissant", nil, pkgjwt.RoleCashier)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockRecordResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 0, out.Data.Quantity)
	assert.True(t, out.Data.LowStock)
}

func TestProcessSale(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.ItemKindProduct, "croissant", 12)
	f.store.SeedStock(entity.ItemKindProduct, "baguette", 6)

	resp, raw := f.do(t, http.MethodPost, "/api/inventory/process-sale", map[string]any{
		"cart": []map[string]any{
			{"id": "croissant", "name": "Croissant", "quantity": 2},
			{"id": "baguette", "name": "Baguette", "quantity": "1"},
		},
		"invoiceNumber": "F-77",
		"invoiceDate":   "2026-10-16",
	}, pkgjwt.RoleCashier)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out dto.ProcessSaleResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Success)
	require.Len(t, out.UpdatedProducts, 2)
	assert.Equal(t, 10, out.UpdatedProducts[0].NewQuantity)
	assert.Equal(t, 5, out.UpdatedProducts[1].NewQuantity)
	assert.Equal(t, "Venta factura F-77", f.store.Ledger(entity.ItemKindProduct, "croissant")[0].Reason)
}

func TestProcessSale_Errores(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.ItemKindProduct, "croissant", 1)

	resp, raw := f.do(t, http.MethodPost, "/api/inventory/process-sale", map[string]any{"cart": []any{}}, pkgjwt.RoleCashier)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodPost, "/api/inventory/process-sale", map[string]any{
		"cart": []map[string]any{{"id": "croissant", "quantity": 3}},
	}, pkgjwt.RoleCashier)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")
	assert.Equal(t, 1, f.store.Quantity(entity.ItemKindProduct, "croissant"))
}

func TestSalesOrderStatus(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.ItemKindProduct, "croissant", 10)
	f.store.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderReady},
		entity.SalesOrderLineItem{ProductID: "croissant", Quantity: 3})

	resp, raw := f.do(t, http.MethodPatch, "/api/sales-orders/o1/status", map[string]any{"status": "delivered"}, pkgjwt.RoleCashier)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.StatusResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.InventoryUpdated)
	assert.Equal(t, "o1", out.ID)
	assert.Equal(t, "delivered", out.Status)

	resp, raw = f.do(t, http.MethodPatch, "/api/sales-orders/o1/status", map[string]any{"status": "delivered"}, pkgjwt.RoleCashier)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.False(t, out.InventoryUpdated)
	assert.Equal(t, 7, f.store.Quantity(entity.ItemKindProduct, "croissant"))

	resp, _ = f.do(t, http.MethodPatch, "/api/sales-orders/o1/status", map[string]any{"status": "shipped"}, pkgjwt.RoleCashier)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPatch, "/api/sales-orders/o9/status", map[string]any{"status": "delivered"}, pkgjwt.RoleCashier)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductionOrder(t *testing.T) {
	f := newFixture(t)
	f.store.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "baguette", Quantity: 40, Status: entity.ProductionInProgress},
		entity.ProductionOrderInsumo{ID: "i1", SupplyID: "harina"})

	resp, raw := f.do(t, http.MethodPatch, "/api/production-orders/po1/status", map[string]any{"status": "completed"}, pkgjwt.RoleBaker)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"inventoryUpdated":true`)
	assert.Equal(t, 40, f.store.Quantity(entity.ItemKindProduct, "baguette"))

	resp, raw = f.do(t, http.MethodGet, "/api/production-orders/po1", nil, pkgjwt.RoleBaker)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ProductionOrderResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "completed", out.Status)
	assert.NotNil(t, out.FulfilledAt)
	require.Len(t, out.Insumos, 1)
	assert.Equal(t, "harina", out.Insumos[0].SupplyID)
}

func TestHistoryYPurga(t *testing.T) {
	f := newFixture(t)
	for _, q := range []int{4, 9, 2} {
		resp, raw := f.do(t, http.MethodPut, "/api/inventory/croissant", map[string]any{"quantity": q}, pkgjwt.RoleStock)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	}

	resp, raw := f.do(t, http.MethodGet, "/api/inventory/history/croissant?limit=2", nil, pkgjwt.RoleStock)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.HistoryResponse
	require.NoError(t, json.Unmarshal(raw, &hist))
	assert.Equal(t, 2, hist.Count)
	assert.Equal(t, 2, hist.Data[0].NewQuantity)
	assert.Equal(t, 9, hist.Data[1].NewQuantity)

	resp, _ = f.do(t, http.MethodGet, "/api/inventory/history/croissant?limit=abc", nil, pkgjwt.RoleStock)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/inventory/history/clear/all", nil, pkgjwt.RoleStock)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo admin purga el historial")

	resp, raw = f.do(t, http.MethodDelete, "/api/inventory/history/clear/all", nil, pkgjwt.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cleared dto.ClearHistoryResponse
	require.NoError(t, json.Unmarshal(raw, &cleared))
	assert.EqualValues(t, 3, cleared.DeletedCount)
	assert.Equal(t, 2, f.store.Quantity(entity.ItemKindProduct, "croissant"), "la purga no toca la existencia")
}

func TestHealthYRutasProtegidas(t *testing.T) {
	f := newFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/croissant", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
