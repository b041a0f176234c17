package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la cabecera del pedido y sus líneas.
func (r *SalesOrderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, client_id, warehouse_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ClientID, order.WarehouseID, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales order: %w", err)
	}
	for _, line := range order.Lines {
		if err := r.AddLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// AddLine persiste una línea del pedido.
func (r *SalesOrderRepo) AddLine(ctx context.Context, line *entity.SalesOrderLine) error {
	query := `
		INSERT INTO sales_order_lines (id, sales_order_id, product_id, qty_ordered, qty_reserved, price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.SalesOrderID, line.ProductID, line.QtyOrdered, line.QtyReserved, line.Price,
	)
	if err != nil {
		return fmt.Errorf("insert sales order line: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas; nil si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `
		SELECT id, client_id, warehouse_id, status, created_at
		FROM sales_orders WHERE id = $1`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.ClientID, &o.WarehouseID, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	lines, err := r.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *SalesOrderRepo) linesByOrder(ctx context.Context, orderID string) ([]*entity.SalesOrderLine, error) {
	query := `
		SELECT id, sales_order_id, product_id, qty_ordered, qty_reserved, price
		FROM sales_order_lines WHERE sales_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.SalesOrderID, &l.ProductID, &l.QtyOrdered, &l.QtyReserved, &l.Price); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// List lista pedidos con filtros opcionales (cabeceras con líneas).
func (r *SalesOrderRepo) List(ctx context.Context, filter repository.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `
		SELECT id, client_id, warehouse_id, status, created_at
		FROM sales_orders
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR client_id = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.Status, filter.ClientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var orders []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.ClientID, &o.WarehouseID, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		lines, err := r.linesByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return orders, nil
}

// UpdateStatus persiste el estado del pedido.
func (r *SalesOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE sales_orders SET status = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	return nil
}

// UpdateLineReserved persiste qty_reserved de una línea.
func (r *SalesOrderRepo) UpdateLineReserved(ctx context.Context, lineID string, qtyReserved int) error {
	query := `UPDATE sales_order_lines SET qty_reserved = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, lineID, qtyReserved)
	if err != nil {
		return fmt.Errorf("update sales order line: %w", err)
	}
	return nil
}

// Delete elimina el pedido y sus líneas.
func (r *SalesOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_order_lines WHERE sales_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete sales order lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sales order: %w", err)
	}
	return nil
}
