package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera de la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, supplier_id, status, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, po.ID, po.SupplierID, po.Status, po.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, line := range po.Lines {
		if err := r.AddLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// AddLine persiste una línea de la orden.
func (r *PurchaseOrderRepo) AddLine(ctx context.Context, line *entity.POLine) error {
	query := `
		INSERT INTO po_lines (id, purchase_order_id, product_id, qty, price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.PurchaseOrderID, line.ProductID, line.Qty, line.Price,
	)
	if err != nil {
		return fmt.Errorf("insert po line: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT id, supplier_id, status, created_at FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&po.ID, &po.SupplierID, &po.Status, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	lines, err := r.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return &po, nil
}

func (r *PurchaseOrderRepo) linesByOrder(ctx context.Context, poID string) ([]*entity.POLine, error) {
	query := `
		SELECT id, purchase_order_id, product_id, qty, price
		FROM po_lines WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list po lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.POLine
	for rows.Next() {
		var l entity.POLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ProductID, &l.Qty, &l.Price); err != nil {
			return nil, fmt.Errorf("scan po line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// List lista órdenes de compra con sus líneas.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT id, supplier_id, status, created_at FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var orders []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.SupplierID, &po.Status, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, &po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range orders {
		lines, err := r.linesByOrder(ctx, po.ID)
		if err != nil {
			return nil, err
		}
		po.Lines = lines
	}
	return orders, nil
}

// UpdateStatus persiste el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE purchase_orders SET status = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// Delete elimina la orden y sus líneas.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM po_lines WHERE purchase_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete po lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}
