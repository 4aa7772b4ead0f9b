package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// InventoryHandler existencias, ajustes, venta de mostrador e historial de productos e insumos (protegido).
type InventoryHandler struct {
	adjust       *inventory.AdjustStockUseCase
	sale         *inventory.SaleUseCase
	query        *inventory.StockQueryUseCase
	historyLimit int
}

// NewInventoryHandler construye el handler. historyLimit es el límite por defecto del historial.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, sale *inventory.SaleUseCase, query *inventory.StockQueryUseCase, historyLimit int) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, sale: sale, query: query, historyLimit: historyLimit}
}

// AdjustProduct godoc
// @Summary      Ajustar existencia de un producto
// @Description  Fija la existencia a una cantidad absoluta y registra el movimiento en el libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.AdjustStockRequest  true  "quantity, movementType, reason, notes"
// @Success      200  {object}  dto.AdjustStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId} [put]
func (h *InventoryHandler) AdjustProduct(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.doAdjust(c, inventory.AdjustInput{
		Kind:         entity.ItemKindProduct,
		ItemID:       c.Params("productId"),
		Quantity:     in.Quantity,
		MovementType: in.MovementType,
		Reason:       in.Reason,
		Notes:        in.Notes,
		UserID:       actingUser(c, in.UserID),
	}, "producto no encontrado")
}

// AdjustSupply godoc
// @Summary      Ajustar existencia de un insumo
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del insumo"
// @Param        body  body  dto.AdjustSupplyStockRequest  true  "stock_quantity, movementType, reason, notes"
// @Success      200  {object}  dto.AdjustStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/stock [patch]
func (h *InventoryHandler) AdjustSupply(c *fiber.Ctx) error {
	var in dto.AdjustSupplyStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.doAdjust(c, inventory.AdjustInput{
		Kind:         entity.ItemKindSupply,
		ItemID:       c.Params("id"),
		Quantity:     in.StockQuantity,
		MovementType: in.MovementType,
		Reason:       in.Reason,
		Notes:        in.Notes,
		UserID:       actingUser(c, in.UserID),
	}, "insumo no encontrado")
}

func (h *InventoryHandler) doAdjust(c *fiber.Ctx, in inventory.AdjustInput, notFoundMsg string) error {
	change, err := h.adjust.Adjust(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, notFoundMsg)
	}
	return c.JSON(dto.AdjustStockResponse{
		Success: true,
		Message: "inventario actualizado",
		Data: dto.StockChangeDTO{
			ItemID:            change.ItemID,
			WarehouseLocation: change.WarehouseLocation,
			PreviousQuantity:  change.PreviousQuantity,
			NewQuantity:       change.NewQuantity,
			QuantityChange:    change.QuantityChange,
			MovementType:      string(change.MovementType),
			MovementID:        change.MovementID,
		},
	})
}

// GetProductStock godoc
// @Summary      Existencia actual de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId} [get]
func (h *InventoryHandler) GetProductStock(c *fiber.Ctx) error {
	return h.getStock(c, entity.ItemKindProduct, c.Params("productId"), "producto no encontrado")
}

// GetSupplyStock godoc
// @Summary      Existencia actual de un insumo
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/stock [get]
func (h *InventoryHandler) GetSupplyStock(c *fiber.Ctx) error {
	return h.getStock(c, entity.ItemKindSupply, c.Params("id"), "insumo no encontrado")
}

func (h *InventoryHandler) getStock(c *fiber.Ctx, kind entity.ItemKind, id, notFoundMsg string) error {
	item, rec, err := h.query.Current(c.UserContext(), kind, id)
	if err != nil {
		return writeError(c, err, notFoundMsg)
	}
	out := dto.StockRecordDTO{
		ItemID:            item.ID,
		Name:              item.Name,
		SKU:               item.SKU,
		WarehouseLocation: rec.WarehouseLocation,
		Quantity:          rec.Quantity,
		MinStockLevel:     item.MinStockLevel,
		MaxStockLevel:     item.MaxStockLevel,
		LowStock:          rec.Quantity <= item.MinStockLevel,
	}
	if !rec.LastUpdated.IsZero() {
		t := rec.LastUpdated
		out.LastUpdated = &t
	}
	return c.JSON(dto.StockRecordResponse{Success: true, Data: out})
}

// ProcessSale godoc
// @Summary      Descontar inventario por venta de mostrador
// @Description  Descuenta todas las líneas del carrito en una sola transacción: o se aplican todas o ninguna.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessSaleRequest  true  "cart, invoiceNumber, invoiceDate"
// @Success      200  {object}  dto.ProcessSaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/process-sale [post]
func (h *InventoryHandler) ProcessSale(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cart := make([]inventory.CartItem, 0, len(in.Cart))
	for _, ci := range in.Cart {
		cart = append(cart, inventory.CartItem{ID: ci.ID, Name: ci.Name, Quantity: ci.Quantity})
	}
	sold, err := h.sale.ProcessSale(c.UserContext(), inventory.ProcessSaleInput{
		Cart:          cart,
		InvoiceNumber: in.InvoiceNumber,
		InvoiceDate:   in.InvoiceDate,
		UserID:        actingUser(c, in.UserID),
	})
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	out := make([]dto.SoldItemDTO, 0, len(sold))
	for _, s := range sold {
		out = append(out, dto.SoldItemDTO{
			ID:               s.ItemID,
			Name:             s.Name,
			PreviousQuantity: s.PreviousQuantity,
			SoldQuantity:     s.SoldQuantity,
			NewQuantity:      s.NewQuantity,
		})
	}
	return c.JSON(dto.ProcessSaleResponse{Success: true, Message: "inventario actualizado por venta", UpdatedProducts: out})
}

// ProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Máximo de movimientos (por defecto 50, máximo 500)"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/{productId} [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	return h.history(c, entity.ItemKindProduct, c.Params("productId"), "producto no encontrado")
}

// SupplyHistory godoc
// @Summary      Historial de movimientos de un insumo
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del insumo"
// @Param        limit  query  int     false  "Máximo de movimientos (por defecto 50, máximo 500)"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/history/{id} [get]
func (h *InventoryHandler) SupplyHistory(c *fiber.Ctx) error {
	return h.history(c, entity.ItemKindSupply, c.Params("id"), "insumo no encontrado")
}

func (h *InventoryHandler) history(c *fiber.Ctx, kind entity.ItemKind, id, notFoundMsg string) error {
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit debe ser un entero positivo"})
		}
		limit = n
	}
	list, err := h.query.History(c.UserContext(), kind, id, limit)
	if err != nil {
		return writeError(c, err, notFoundMsg)
	}
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementDTO{
			ID:               m.ID,
			ItemID:           m.ItemID,
			MovementType:     string(m.Type),
			QuantityChange:   m.QuantityChange,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Reason:           m.Reason,
			Notes:            m.Notes,
			UserID:           m.UserID,
			CreatedAt:        m.CreatedAt,
		})
	}
	return c.JSON(dto.HistoryResponse{Success: true, Data: out, Count: len(out)})
}

// ClearProductHistory godoc
// @Summary      Purgar el historial de movimientos de productos
// @Description  Borra todo el libro de productos. No modifica existencias. Solo admin.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearHistoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/clear/all [delete]
func (h *InventoryHandler) ClearProductHistory(c *fiber.Ctx) error {
	return h.clear(c, entity.ItemKindProduct)
}

// ClearSupplyHistory godoc
// @Summary      Purgar el historial de movimientos de insumos
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearHistoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/supplies/history/clear/all [delete]
func (h *InventoryHandler) ClearSupplyHistory(c *fiber.Ctx) error {
	return h.clear(c, entity.ItemKindSupply)
}

func (h *InventoryHandler) clear(c *fiber.Ctx, kind entity.ItemKind) error {
	n, err := h.query.ClearHistory(c.UserContext(), kind, GetUserID(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.ClearHistoryResponse{Success: true, Message: "historial eliminado", DeletedCount: n})
}
