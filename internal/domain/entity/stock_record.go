package entity

import "time"

// StockRecord representa el estado de cantidades de un producto en una bodega.
// Exactamente un registro por (ProductID, WarehouseID); se muta solo a través
// del motor de inventario bajo bloqueo de fila.
//
// Invariante tras cada operación confirmada: 0 <= QtyReserved <= QtyOnHand.
type StockRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	QtyOnHand   int
	QtyReserved int
	UpdatedAt   time.Time
}

// Available devuelve la cantidad disponible (onHand - reservado).
func (s *StockRecord) Available() int {
	return s.QtyOnHand - s.QtyReserved
}
