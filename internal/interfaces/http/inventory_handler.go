package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
)

// inventoryViews lecturas derivadas del kardex.
type inventoryViews interface {
	GetOnHand(ctx context.Context, in dto.OnHandQuery) (*dto.OnHandListResponse, error)
	GetLedger(ctx context.Context, in dto.LedgerQuery) (*dto.LedgerListResponse, error)
	GetLowStockAlerts(ctx context.Context, in dto.LowStockQuery) ([]dto.LowStockAlertDTO, error)
}

// InventoryHandler maneja las consultas de inventario (protegido).
type InventoryHandler struct {
	views inventoryViews
	errs  errorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(views inventoryViews, errs errorWriter) *InventoryHandler {
	return &InventoryHandler{views: views, errs: errs}
}

// GetOnHand godoc
// @Summary      Existencias por bodega y producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID)"
// @Param        product_id    query  string  false  "Filtrar por producto (UUID)"
// @Param        include_zero  query  bool    false  "Incluir saldos en cero"
// @Success      200  {object}  dto.OnHandListResponse
// @Router       /api/inventory/on-hand [get]
func (h *InventoryHandler) GetOnHand(c *fiber.Ctx) error {
	var q dto.OnHandQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.views.GetOnHand(c.Context(), q)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// GetLedger godoc
// @Summary      Kardex con saldo acumulado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.LedgerListResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) GetLedger(c *fiber.Ctx) error {
	var q dto.LedgerQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.views.GetLedger(c.Context(), q)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// GetLowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Por defecto solo low y out_of_stock, con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID)"
// @Param        include_ok    query  bool    false  "Incluir también los saldos ok"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	var q dto.LowStockQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	list, err := h.views.GetLowStockAlerts(c.Context(), q)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}
