package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/dto"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// InventoryHandler expone las operaciones del motor de inventario y las
// consultas del libro de movimientos (protegido).
type InventoryHandler struct {
	engine    *inventory.Engine
	stockRepo repository.StockRecordRepository
	movRepo   repository.MovementRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.Engine, stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) *InventoryHandler {
	return &InventoryHandler{engine: engine, stockRepo: stockRepo, movRepo: movRepo}
}

// EnsureStock godoc
// @Summary      Crear registro de stock en cero (idempotente)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id y warehouse_id"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [post]
func (h *InventoryHandler) EnsureStock(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.EnsureExists(c.Context(), in.ProductID, in.WarehouseID); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "registro de stock disponible"})
}

// Inbound godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id, warehouse_id, qty, reference"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/inbound [post]
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.Inbound(c.Context(), in.ProductID, in.WarehouseID, in.Qty, in.Reference); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "entrada registrada"})
}

// Outbound godoc
// @Summary      Registrar salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id, warehouse_id, qty, reference"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/outbound [post]
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.Outbound(c.Context(), in.ProductID, in.WarehouseID, in.Qty, in.Reference); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "salida registrada"})
}

// Adjust godoc
// @Summary      Ajustar stock (qty con signo)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id, warehouse_id, qty (con signo), reference"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.Adjustment(c.Context(), in.ProductID, in.WarehouseID, in.Qty, in.Reference); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ajuste registrado"})
}

// Reserve godoc
// @Summary      Reservar stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id, warehouse_id, qty, ttl_seconds opcional"
// @Success      201   {object}  dto.ReserveResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.engine.Reserve(c.Context(), in.ProductID, in.WarehouseID, in.Qty, in.Reference, int64(in.TTLSeconds))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReserveResponse{ReservationToken: token, Reserved: true})
}

// Release godoc
// @Summary      Liberar stock reservado
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOpRequest  true  "product_id, warehouse_id, qty"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.StockOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.Release(c.Context(), in.ProductID, in.WarehouseID, in.Qty); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// Transfer godoc
// @Summary      Transferir stock entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, qty"
// @Success      201   {object}  map[string]string
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.Transfer(c.Context(), in.ProductID, in.FromWarehouseID, in.ToWarehouseID, in.Qty, in.Reference); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "transferencia registrada"})
}

// SmartReserve godoc
// @Summary      Reserva inteligente con fallback entre bodegas y backorder
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SmartReserveRequest  true  "product_id, preferred_warehouse_id, qty"
// @Success      201   {object}  dto.ReserveResponse
// @Failure      409   {object}  dto.ReserveResponse  "stock global insuficiente; incluye backorder_id"
// @Router       /api/inventory/smart-reserve [post]
func (h *InventoryHandler) SmartReserve(c *fiber.Ctx) error {
	var in dto.SmartReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.SmartReserve(c.Context(), in.ProductID, in.PreferredWarehouseID, in.Qty, in.Reference)
	if err != nil {
		if backorderID := inventory.BackorderID(err); backorderID != "" {
			return c.Status(fiber.StatusConflict).JSON(dto.ReserveResponse{Reserved: false, BackorderID: backorderID})
		}
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReserveResponse{Reserved: true})
}

// Available godoc
// @Summary      Consultar disponibilidad
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.AvailableResponse
// @Router       /api/inventory/available [get]
func (h *InventoryHandler) Available(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	available, err := h.engine.Available(c.Context(), productID, warehouseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.AvailableResponse{ProductID: productID, WarehouseID: warehouseID, Available: available})
}

// ListStock godoc
// @Summary      Listar registros de stock de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	limit, offset := pageParams(c)
	records, err := h.stockRepo.ListByWarehouse(c.Context(), warehouseID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toStockRecordResponse(r))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	limit, offset := pageParams(c)
	movements, err := h.movRepo.ListByProduct(c.Context(), productID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			StockRecordID: m.StockRecordID,
			Type:          m.Type,
			Qty:           m.Qty,
			Reference:     m.Reference,
			OccurredAt:    m.OccurredAt,
		})
	}
	return c.JSON(out)
}

func toStockRecordResponse(r *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		QtyOnHand:   r.QtyOnHand,
		QtyReserved: r.QtyReserved,
		Available:   r.Available(),
		UpdatedAt:   r.UpdatedAt,
	}
}
