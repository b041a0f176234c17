package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// POLineRequest línea de una orden de compra.
type POLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int             `json:"qty" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// CreatePORequest entrada para crear una orden de compra.
type CreatePORequest struct {
	SupplierID string          `json:"supplier_id" validate:"required,uuid"`
	Lines      []POLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceivePORequest entrada para recibir una orden de compra en una bodega.
type ReceivePORequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
}

// POLineResponse línea de orden de compra en respuestas.
type POLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

// POResponse salida de una orden de compra.
type POResponse struct {
	ID         string           `json:"id"`
	SupplierID string           `json:"supplier_id"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	Lines      []POLineResponse `json:"lines"`
}

// POListResponse lista paginada de órdenes de compra.
type POListResponse struct {
	Items []POResponse `json:"items"`
	Page  PageResponse `json:"page"`
}
