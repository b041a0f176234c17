package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido de venta.
// CREATED → RESERVED → SHIPPED; CREATED/RESERVED → CANCELED;
// RESERVED → CREATED (liberación explícita de reservas).
const (
	OrderStatusCreated  = "CREATED"
	OrderStatusReserved = "RESERVED"
	OrderStatusShipped  = "SHIPPED"
	OrderStatusCanceled = "CANCELED"
)

// ValidOrderStatus indica si s es un estado reconocido del pedido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusReserved, OrderStatusShipped, OrderStatusCanceled:
		return true
	}
	return false
}

// SalesOrder representa un pedido de venta de un cliente contra una bodega.
// Todas las líneas se sirven desde la bodega del pedido.
type SalesOrder struct {
	ID          string
	ClientID    string
	WarehouseID string
	Status      string
	CreatedAt   time.Time
	Lines       []*SalesOrderLine
}

// SalesOrderLine es una línea de producto dentro de un pedido.
// QtyReserved nunca supera QtyOrdered y refleja lo retenido contra stock.
type SalesOrderLine struct {
	ID           string
	SalesOrderID string
	ProductID    string
	QtyOrdered   int
	QtyReserved  int
	Price        decimal.Decimal // precio final de la línea (unitario * cantidad)
}
