package entity

import "time"

// DefaultSupplierName nombre del proveedor por defecto que crea el fallback de
// aprovisionamiento cuando no existe ninguno.
const DefaultSupplierName = "UNKNOWN_SUPPLIER"

// Supplier representa un proveedor contra el que se emiten órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Contact   string
	CreatedAt time.Time
}
