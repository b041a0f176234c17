package dto

import "time"

// StockOpRequest body común de las operaciones de stock
// (inbound, outbound, adjust, reserve, release).
type StockOpRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Qty         int    `json:"qty" validate:"required"`
	Reference   string `json:"reference" validate:"omitempty,max=200"`
	TTLSeconds  int    `json:"ttl_seconds" validate:"omitempty,min=0"`
}

// TransferRequest body para mover stock entre bodegas.
type TransferRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required,uuid"`
	Qty             int    `json:"qty" validate:"required,min=1"`
	Reference       string `json:"reference" validate:"omitempty,max=200"`
}

// SmartReserveRequest body para la reserva inteligente con fallback.
type SmartReserveRequest struct {
	ProductID            string `json:"product_id" validate:"required,uuid"`
	PreferredWarehouseID string `json:"preferred_warehouse_id" validate:"required,uuid"`
	Qty                  int    `json:"qty" validate:"required,min=1"`
	Reference            string `json:"reference" validate:"omitempty,max=200"`
}

// StockRecordResponse estado de cantidades de un producto en una bodega.
type StockRecordResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	QtyOnHand   int       `json:"qty_on_hand"`
	QtyReserved int       `json:"qty_reserved"`
	Available   int       `json:"available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReserveResponse salida de reserve/smart-reserve.
type ReserveResponse struct {
	ReservationToken string `json:"reservation_token,omitempty"`
	Reserved         bool   `json:"reserved"`
	BackorderID      string `json:"backorder_id,omitempty"`
}

// AvailableResponse salida de la consulta de disponibilidad.
type AvailableResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Available   int    `json:"available"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	StockRecordID string    `json:"stock_record_id"`
	Type          string    `json:"type"`
	Qty           int       `json:"qty"`
	Reference     string    `json:"reference,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
