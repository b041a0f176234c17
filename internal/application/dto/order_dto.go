package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de un pedido de venta.
type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear un pedido de venta.
type CreateOrderRequest struct {
	ClientID    string             `json:"client_id" validate:"required,uuid"`
	WarehouseID string             `json:"warehouse_id" validate:"required,uuid"`
	Lines       []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest entrada para transicionar el estado del pedido.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED RESERVED SHIPPED CANCELED"`
}

// OrderLineResponse línea de pedido en respuestas.
type OrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	QtyOrdered  int             `json:"qty_ordered"`
	QtyReserved int             `json:"qty_reserved"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse salida de un pedido de venta. Warnings recoge incidencias
// no fatales (reservas parciales, backorders, envíos recortados).
type OrderResponse struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"client_id"`
	WarehouseID string              `json:"warehouse_id"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	Lines       []OrderLineResponse `json:"lines"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
