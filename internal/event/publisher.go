package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SimulationPublisher announces log refreshes and rerun outcomes on the
// simulation_events queue. A nil publisher silently drops events so the
// messaging layer stays optional.
type SimulationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewSimulationPublisher creates a new simulation event publisher
func NewSimulationPublisher(conn *RabbitMQConnection) *SimulationPublisher {
	return &SimulationPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishEvent publishes a simulation event to the simulation_events queue
func (p *SimulationPublisher) PublishEvent(ctx context.Context, event SimulationEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		SimulationQueue, // queue name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal simulation event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",              // exchange
		SimulationQueue, // routing key (queue name)
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish simulation event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Simulation event published",
		"queue", SimulationQueue,
		"event_type", event.EventType,
	)

	return nil
}

// GetMetrics returns publisher metrics
func (p *SimulationPublisher) GetMetrics() map[string]any {
	if p == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"messages_published": p.messagesPublished,
		"messages_failed":    p.messagesFailed,
		"last_publish_time":  p.lastPublishTime,
		"queue":              SimulationQueue,
	}
}
