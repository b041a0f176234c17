package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// OriginalPrice es el precio de referencia de compra; Profit el margen que se
// suma al calcular el precio de venta de una línea de pedido.
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	CategoryID    string
	OriginalPrice decimal.Decimal
	Profit        decimal.Decimal
	Unit          string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
