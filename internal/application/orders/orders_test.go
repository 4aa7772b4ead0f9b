package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/orders"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Store, *orders.SalesStatusUseCase, *orders.ProductionStatusUseCase) {
	t.Helper()
	s := memory.New()
	for _, id := range []string{"p1", "p2"} {
		s.AddItem(entity.Item{ID: id, Kind: entity.ItemKindProduct, Name: "Producto " + id, IsActive: true})
	}
	eng := inventory.NewStockEngine(inventory.EngineConfig{})
	sale := inventory.NewSaleUseCase(s, s.Items(), eng, zerolog.Nop())
	return s,
		orders.NewSalesStatusUseCase(s, s.SalesOrders(), sale, zerolog.Nop()),
		orders.NewProductionStatusUseCase(s, s.ProductionOrders(), eng, zerolog.Nop())
}

func TestSalesStatus_EntregaDescuentaUnaSolaVez(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 10)
	s.SeedStock(entity.ItemKindProduct, "p2", 5)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderReady},
		entity.SalesOrderLineItem{ID: "l1", ProductID: "p1", Quantity: 3},
		entity.SalesOrderLineItem{ID: "l2", ProductID: "p2", Quantity: 5},
	)
	ctx := context.Background()

	res, err := uc.UpdateStatus(ctx, "o1", "delivered", nil)
	require.NoError(t, err)
	assert.True(t, res.InventoryUpdated)
	assert.Equal(t, "delivered", res.Status)
	assert.Equal(t, 7, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Equal(t, 0, s.Quantity(entity.ItemKindProduct, "p2"))

	l1 := s.Ledger(entity.ItemKindProduct, "p1")
	require.Len(t, l1, 1)
	assert.Equal(t, entity.MovementOutflow, l1[0].Type)
	assert.Equal(t, -3, l1[0].QuantityChange)
	assert.Equal(t, "Pedido de venta o1", l1[0].Reason)

	order := s.SalesOrder("o1")
	assert.Equal(t, entity.SalesOrderDelivered, order.Status)
	require.NotNil(t, order.FulfilledAt)

	// Reenvío del mismo estado y luego completed: ninguno vuelve a descontar.
	for _, st := range []string{"delivered", "completed"} {
		res, err = uc.UpdateStatus(ctx, "o1", st, nil)
		require.NoError(t, err)
		assert.False(t, res.InventoryUpdated, st)
	}
	assert.Equal(t, 7, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Len(t, s.Ledger(entity.ItemKindProduct, "p1"), 1)
	assert.Equal(t, entity.SalesOrderCompleted, s.SalesOrder("o1").Status)
}

func TestSalesStatus_SinCumplimientoNoMueveStock(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 10)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderPending},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 3})

	res, err := uc.UpdateStatus(context.Background(), "o1", "preparing", nil)
	require.NoError(t, err)
	assert.False(t, res.InventoryUpdated)
	assert.Equal(t, entity.SalesOrderPreparing, s.SalesOrder("o1").Status)
	assert.Empty(t, s.Ledger(entity.ItemKindProduct, "p1"))
}

func TestSalesStatus_CicloDeEstadosNoDuplica(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 10)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderReady},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 4})
	ctx := context.Background()

	for _, st := range []string{"delivered", "ready", "delivered", "cancelled", "completed"} {
		_, err := uc.UpdateStatus(ctx, "o1", st, nil)
		require.NoError(t, err, st)
	}
	assert.Equal(t, 6, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Len(t, s.Ledger(entity.ItemKindProduct, "p1"), 1)
}

func TestSalesStatus_FalloAlGuardarEstadoRevierteStock(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 10)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderReady},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 4})
	s.FailStatus = func(string) error { return errors.New("update sales_orders falló") }

	_, err := uc.UpdateStatus(context.Background(), "o1", "delivered", nil)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)
	assert.Equal(t, 10, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Empty(t, s.Ledger(entity.ItemKindProduct, "p1"))
	assert.Equal(t, entity.SalesOrderReady, s.SalesOrder("o1").Status)
	assert.Nil(t, s.SalesOrder("o1").FulfilledAt)

	// Al recuperarse el almacenamiento, el pedido se puede entregar normalmente.
	s.FailStatus = nil
	res, err := uc.UpdateStatus(context.Background(), "o1", "delivered", nil)
	require.NoError(t, err)
	assert.True(t, res.InventoryUpdated)
	assert.Equal(t, 6, s.Quantity(entity.ItemKindProduct, "p1"))
}

func TestSalesStatus_StockInsuficienteDejaPedidoIntacto(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 1)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderReady},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 4})

	_, err := uc.UpdateStatus(context.Background(), "o1", "completed", nil)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.SalesOrderReady, s.SalesOrder("o1").Status)
	assert.Equal(t, 1, s.Quantity(entity.ItemKindProduct, "p1"))
}

func TestSalesStatus_Errores(t *testing.T) {
	s, uc, _ := setup(t)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderPending})
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, "o1", "shipped", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStatus(ctx, "nope", "delivered", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductionStatus_CompletarIngresaProducto(t *testing.T) {
	s, _, uc := setup(t)
	s.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "p1", Quantity: 50, Status: entity.ProductionInProgress},
		entity.ProductionOrderInsumo{SupplyID: "harina", Quantity: decimal.RequireFromString("12.5")})
	ctx := context.Background()

	res, err := uc.UpdateStatus(ctx, "po1", "completed", nil)
	require.NoError(t, err)
	assert.True(t, res.InventoryUpdated)
	assert.Equal(t, 50, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Equal(t, 50, s.Mirror(entity.ItemKindProduct, "p1"))

	ledger := s.Ledger(entity.ItemKindProduct, "p1")
	require.Len(t, ledger, 1)
	assert.Equal(t, entity.MovementInflow, ledger[0].Type)
	assert.Equal(t, 0, ledger[0].PreviousQuantity)
	assert.Equal(t, 50, ledger[0].QuantityChange)
	assert.Equal(t, "Orden de producción po1 completada", ledger[0].Reason)
	assert.Empty(t, s.Ledger(entity.ItemKindSupply, "harina"), "los insumos no se consumen")

	res, err = uc.UpdateStatus(ctx, "po1", "completed", nil)
	require.NoError(t, err)
	assert.False(t, res.InventoryUpdated)
	assert.Equal(t, 50, s.Quantity(entity.ItemKindProduct, "p1"))

	detail, err := uc.Get(ctx, "po1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionCompleted, detail.Order.Status)
	require.Len(t, detail.Insumos, 1)
	assert.Equal(t, "harina", detail.Insumos[0].SupplyID)
	assert.Equal(t, "12.5", detail.Insumos[0].Quantity.String())
}

func TestProductionStatus_OtrosEstados(t *testing.T) {
	s, _, uc := setup(t)
	s.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "p1", Quantity: 5, Status: entity.ProductionPending})
	ctx := context.Background()

	res, err := uc.UpdateStatus(ctx, "po1", "in_progress", nil)
	require.NoError(t, err)
	assert.False(t, res.InventoryUpdated)
	assert.Equal(t, entity.ProductionInProgress, s.ProductionOrder("po1").Status)

	_, err = uc.UpdateStatus(ctx, "po1", "archived", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStatus(ctx, "po9", "completed", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Get(ctx, "po9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductionStatus_FalloRevierteIngreso(t *testing.T) {
	s, _, uc := setup(t)
	s.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "p1", Quantity: 5, Status: entity.ProductionInProgress})
	s.FailStatus = func(string) error { return errors.New("timeout") }

	_, err := uc.UpdateStatus(context.Background(), "po1", "completed", nil)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)
	assert.False(t, s.HasStockRecord(entity.ItemKindProduct, "p1"))
	assert.Equal(t, entity.ProductionInProgress, s.ProductionOrder("po1").Status)
}

func TestSalesStatus_PedidoConDosLineasDesdePending(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 10)
	s.SeedStock(entity.ItemKindProduct, "p2", 10)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderPending},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 3},
		entity.SalesOrderLineItem{ProductID: "p2", Quantity: 5},
	)

	res, err := uc.UpdateStatus(context.Background(), "o1", "delivered", nil)
	require.NoError(t, err)
	assert.True(t, res.InventoryUpdated)
	assert.Equal(t, 7, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Equal(t, 5, s.Quantity(entity.ItemKindProduct, "p2"))
	for _, id := range []string{"p1", "p2"} {
		ledger := s.Ledger(entity.ItemKindProduct, id)
		require.Len(t, ledger, 1, id)
		assert.Equal(t, entity.MovementOutflow, ledger[0].Type)
	}
}

func TestSalesStatus_YaEntregadoSinMarcaNoDescuenta(t *testing.T) {
	s, uc, _ := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 7)
	s.AddSalesOrder(entity.SalesOrder{ID: "o1", Status: entity.SalesOrderDelivered},
		entity.SalesOrderLineItem{ProductID: "p1", Quantity: 3})
	ctx := context.Background()

	for _, st := range []string{"delivered", "completed", "ready", "delivered"} {
		res, err := uc.UpdateStatus(ctx, "o1", st, nil)
		require.NoError(t, err, st)
		assert.False(t, res.InventoryUpdated, st)
	}
	assert.Equal(t, 7, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Empty(t, s.Ledger(entity.ItemKindProduct, "p1"))
	assert.NotNil(t, s.SalesOrder("o1").FulfilledAt)
}

func TestProductionStatus_CompletarSobreExistenciaPrevia(t *testing.T) {
	s, _, uc := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 20)
	s.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "p1", Quantity: 50, Status: entity.ProductionPending})
	ctx := context.Background()

	res, err := uc.UpdateStatus(ctx, "po1", "completed", nil)
	require.NoError(t, err)
	assert.True(t, res.InventoryUpdated)
	assert.Equal(t, 70, s.Quantity(entity.ItemKindProduct, "p1"))
	ledger := s.Ledger(entity.ItemKindProduct, "p1")
	require.Len(t, ledger, 1)
	assert.Equal(t, entity.MovementInflow, ledger[0].Type)
	assert.Equal(t, 50, ledger[0].QuantityChange)

	res, err = uc.UpdateStatus(ctx, "po1", "completed", nil)
	require.NoError(t, err)
	assert.False(t, res.InventoryUpdated)
	assert.Equal(t, 70, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Len(t, s.Ledger(entity.ItemKindProduct, "p1"), 1)
}

func TestProductionStatus_YaCompletadaSinMarcaNoIngresa(t *testing.T) {
	s, _, uc := setup(t)
	s.SeedStock(entity.ItemKindProduct, "p1", 70)
	s.AddProductionOrder(entity.ProductionOrder{ID: "po1", ProductID: "p1", Quantity: 50, Status: entity.ProductionCompleted})

	res, err := uc.UpdateStatus(context.Background(), "po1", "completed", nil)
	require.NoError(t, err)
	assert.False(t, res.InventoryUpdated)
	assert.Equal(t, 70, s.Quantity(entity.ItemKindProduct, "p1"))
	assert.Empty(t, s.Ledger(entity.ItemKindProduct, "p1"))
	assert.NotNil(t, s.ProductionOrder("po1").FulfilledAt)
}
