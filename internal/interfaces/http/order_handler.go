package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/orders"
)

// OrderHandler estados de pedidos de venta y órdenes de producción (protegido).
type OrderHandler struct {
	sales      *orders.SalesStatusUseCase
	production *orders.ProductionStatusUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(sales *orders.SalesStatusUseCase, production *orders.ProductionStatusUseCase) *OrderHandler {
	return &OrderHandler{sales: sales, production: production}
}

// UpdateSalesOrderStatus godoc
// @Summary      Cambiar estado de un pedido de venta
// @Description  Al pasar por primera vez a delivered o completed descuenta las líneas del inventario.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200  {object}  dto.StatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/status [patch]
func (h *OrderHandler) UpdateSalesOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.sales.UpdateStatus(c.UserContext(), c.Params("id"), in.Status, actingUser(c, in.UserID))
	if err != nil {
		return writeError(c, err, "pedido no encontrado")
	}
	return c.JSON(dto.StatusResponse{
		Message:          "estado del pedido actualizado",
		ID:               res.ID,
		Status:           res.Status,
		InventoryUpdated: res.InventoryUpdated,
	})
}

// UpdateProductionOrderStatus godoc
// @Summary      Cambiar estado de una orden de producción
// @Description  Al completarse por primera vez ingresa la cantidad producida al inventario del producto.
// @Tags         production-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200  {object}  dto.StatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/status [patch]
func (h *OrderHandler) UpdateProductionOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.production.UpdateStatus(c.UserContext(), c.Params("id"), in.Status, actingUser(c, in.UserID))
	if err != nil {
		return writeError(c, err, "orden de producción no encontrada")
	}
	return c.JSON(dto.StatusResponse{
		Message:          "estado de la orden de producción actualizado",
		ID:               res.ID,
		Status:           res.Status,
		InventoryUpdated: res.InventoryUpdated,
	})
}

// GetProductionOrder godoc
// @Summary      Orden de producción con sus insumos
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [get]
func (h *OrderHandler) GetProductionOrder(c *fiber.Ctx) error {
	d, err := h.production.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "orden de producción no encontrada")
	}
	o := d.Order
	out := dto.ProductionOrderResponse{
		ID:          o.ID,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		Status:      string(o.Status),
		Notes:       o.Notes,
		FulfilledAt: o.FulfilledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Insumos:     make([]dto.ProductionInsumoDTO, 0, len(d.Insumos)),
	}
	for _, in := range d.Insumos {
		out.Insumos = append(out.Insumos, dto.ProductionInsumoDTO{ID: in.ID, SupplyID: in.SupplyID, Quantity: in.Quantity})
	}
	return c.JSON(out)
}
