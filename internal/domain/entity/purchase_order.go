package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. CREATED → APPROVED → RECEIVED.
const (
	POStatusCreated  = "CREATED"
	POStatusApproved = "APPROVED"
	POStatusReceived = "RECEIVED"
)

// PurchaseOrder representa una orden de compra contra un proveedor.
// El fallback de smart-reserve crea una en estado CREATED (backorder).
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Status     string
	CreatedAt  time.Time
	Lines      []*POLine
}

// POLine es una línea de una orden de compra.
type POLine struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Qty             int
	Price           decimal.Decimal // precio unitario
}
