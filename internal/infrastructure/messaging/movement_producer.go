package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

var _ inventory.MovementPublisher = (*MovementProducer)(nil)

// movementEvent es el payload JSON publicado por cada movimiento de stock.
type movementEvent struct {
	MovementID    string    `json:"movement_id"`
	StockRecordID string    `json:"stock_record_id"`
	Type          string    `json:"type"`
	Qty           int       `json:"qty"`
	Reference     string    `json:"reference,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// MovementProducer publica movimientos del ledger en Kafka.
// El motor lo invoca tras el commit; los fallos se registran y no
// revierten la operación de inventario.
type MovementProducer struct {
	writer *kafka.Writer
}

// NewMovementProducer construye el productor para el tópico indicado.
func NewMovementProducer(brokers []string, topic string) *MovementProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	return &MovementProducer{writer: writer}
}

// PublishMovement serializa y publica un movimiento. La clave es el
// stock record para preservar el orden por registro dentro del tópico.
func (p *MovementProducer) PublishMovement(ctx context.Context, m *entity.Movement) error {
	event := movementEvent{
		MovementID:    m.ID,
		StockRecordID: m.StockRecordID,
		Type:          m.Type,
		Qty:           m.Qty,
		Reference:     m.Reference,
		OccurredAt:    m.OccurredAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal movement event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(m.StockRecordID),
		Value: payload,
		Time:  m.OccurredAt,
		Headers: []kafka.Header{
			{Key: "movement-type", Value: []byte(m.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write movement event: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *MovementProducer) Close() error {
	return p.writer.Close()
}
