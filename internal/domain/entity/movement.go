package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeInbound    = "INBOUND"
	MovementTypeOutbound   = "OUTBOUND"
	MovementTypeAdjustment = "ADJUSTMENT"
)

// Movement es una entrada inmutable del libro de movimientos (append-only).
// Se crea en la misma transacción que la mutación del StockRecord que describe
// y nunca se actualiza ni se borra.
type Movement struct {
	ID            string
	StockRecordID string
	Type          string // INBOUND, OUTBOUND, ADJUSTMENT
	Qty           int    // con signo en ADJUSTMENT; positivo en INBOUND/OUTBOUND
	OccurredAt    time.Time
	Reference     string // correlación: "SO:<id>", "PO:<id>:LINE:<id>", nota, etc.
}
