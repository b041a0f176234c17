package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: el libro es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, stock_record_id, type, qty, occurred_at, reference)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.StockRecordID, movement.Type, movement.Qty,
		movement.OccurredAt, movement.Reference,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByStockRecord lista movimientos de un registro de stock, recientes primero.
func (r *MovementRepo) ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, stock_record_id, type, qty, occurred_at, reference
		FROM movements WHERE stock_record_id = $1
		ORDER BY occurred_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, stockRecordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.StockRecordID, &m.Type, &m.Qty, &m.OccurredAt, &m.Reference); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListByProduct lista movimientos de un producto en todas las bodegas.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT m.id, m.stock_record_id, m.type, m.qty, m.occurred_at, m.reference
		FROM movements m
		JOIN stock_records s ON s.id = m.stock_record_id
		WHERE s.product_id = $1
		ORDER BY m.occurred_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.StockRecordID, &m.Type, &m.Qty, &m.OccurredAt, &m.Reference); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
