package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx). La tabla stock_records tiene constraint único sobre
// (product_id, warehouse_id).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Get devuelve el registro de stock o nil si no existe.
func (r *StockRecordRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, qty_on_hand, qty_reserved, updated_at
		FROM stock_records WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.QtyOnHand, &s.QtyReserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) hasta
// el fin de la transacción. Devuelve nil si no existe.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, qty_on_hand, qty_reserved, updated_at
		FROM stock_records WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.QtyOnHand, &s.QtyReserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return &s, nil
}

// CreateIfAbsent inserta el registro en cero si la clave no existe (idempotente).
func (r *StockRecordRepo) CreateIfAbsent(ctx context.Context, record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, product_id, warehouse_id, qty_on_hand, qty_reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.ProductID, record.WarehouseID, record.QtyOnHand, record.QtyReserved, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// UpdateQuantities persiste las cantidades del registro.
func (r *StockRecordRepo) UpdateQuantities(ctx context.Context, record *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET qty_on_hand = $2, qty_reserved = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, record.ID, record.QtyOnHand, record.QtyReserved, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}
	return nil
}

// Available devuelve qty_on_hand - qty_reserved; 0 si el registro no existe.
func (r *StockRecordRepo) Available(ctx context.Context, productID, warehouseID string) (int, error) {
	query := `
		SELECT qty_on_hand - qty_reserved
		FROM stock_records WHERE product_id = $1 AND warehouse_id = $2`
	var available int
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get available: %w", err)
	}
	return available, nil
}

// ListByWarehouse lista registros de stock de una bodega con paginación.
func (r *StockRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, qty_on_hand, qty_reserved, updated_at
		FROM stock_records WHERE warehouse_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.QtyOnHand, &s.QtyReserved, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
