package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/dto"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/fulfillment"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// OrderHandler maneja las peticiones HTTP de pedidos de venta (protegido).
type OrderHandler struct {
	uc *fulfillment.SalesOrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *fulfillment.SalesOrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido de venta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "client_id, warehouse_id y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id, warehouse_id y lines son requeridos"})
	}
	input := fulfillment.CreateOrderInput{
		ClientID:    in.ClientID,
		WarehouseID: in.WarehouseID,
	}
	for _, line := range in.Lines {
		input.Lines = append(input.Lines, fulfillment.OrderLineInput{
			ProductID:  line.ProductID,
			QtyOrdered: line.Qty,
		})
	}
	result, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(result.Order, result.Warnings))
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	order, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order, nil))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Filtrar por estado"
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	filter := repository.SalesOrderFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
	}
	orders, err := h.uc.List(c.Context(), filter, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o, nil))
	}
	return c.JSON(dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// AddLine godoc
// @Summary      Agregar línea a un pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.OrderLineRequest  true  "product_id y qty"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines [post]
func (h *OrderHandler) AddLine(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.OrderLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.AddLine(c.Context(), id, fulfillment.OrderLineInput{
		ProductID:  in.ProductID,
		QtyOrdered: in.Qty,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order, nil))
}

// UpdateStatus godoc
// @Summary      Transicionar el estado del pedido (reservar, liberar, cancelar)
// @Description  CREATED→RESERVED dispara el smart-reserve por línea; las líneas
//
//	sin stock generan warnings y el pedido conserva CREATED si alguna falló.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toOrderResponse(result.Order, result.Warnings))
}

// Ship godoc
// @Summary      Expedir el pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	result, err := h.uc.Ship(c.Context(), id, c.Query("tracking_ref"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toOrderResponse(result.Order, result.Warnings))
}

// Delete godoc
// @Summary      Eliminar pedido
// @Description  No libera stock; cancelar primero si el pedido estaba RESERVED.
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toOrderResponse(order *entity.SalesOrder, warnings []string) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:          order.ID,
		ClientID:    order.ClientID,
		WarehouseID: order.WarehouseID,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		Warnings:    warnings,
	}
	for _, line := range order.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			QtyOrdered:  line.QtyOrdered,
			QtyReserved: line.QtyReserved,
			Price:       line.Price,
		})
	}
	return out
}
