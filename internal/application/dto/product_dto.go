package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	CategoryID    string          `json:"category_id" validate:"omitempty,max=100"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Profit        decimal.Decimal `json:"profit"`
	Unit          string          `json:"unit" validate:"omitempty,max=20"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID    *string          `json:"category_id"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Profit        *decimal.Decimal `json:"profit"`
	Unit          *string          `json:"unit"`
	Active        *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Profit        decimal.Decimal `json:"profit"`
	Unit          string          `json:"unit,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
