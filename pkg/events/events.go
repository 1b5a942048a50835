package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

const eventQueue = "mindmap_events"

// Publisher holds the RabbitMQ connection and channel used to emit domain
// events. All publish methods are nil-safe: a nil *Publisher silently drops
// events, so the app runs without a broker.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewPublisher connects to RabbitMQ and declares the event queue.
func NewPublisher(cfg Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		eventQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", eventQueue, err)
	}

	log.Printf("RabbitMQ publisher connected, %s declared", eventQueue)

	return &Publisher{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during publisher close: %v", errs)
	}
	return nil
}

// Publish marshals the payload to JSON and publishes it on the event queue
// with the given event type as routing metadata.
func (p *Publisher) Publish(eventType string, payload map[string]interface{}) error {
	if p == nil {
		return nil
	}
	if p.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.channel.Publish(
		"",         // exchange: default exchange
		eventQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			MessageId:    uuid.New().String(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	return nil
}

// PublishUserRegistered emits a user.registered event after signup.
func (p *Publisher) PublishUserRegistered(userID uint, email string) error {
	return p.Publish("user.registered", map[string]interface{}{
		"user_id": userID,
		"email":   email,
	})
}

// PublishAIRequestCompleted emits an ai.request.completed event after each
// chat proxy call, successful or not.
func (p *Publisher) PublishAIRequestCompleted(requestID string, userID uint, action string, success bool, remaining int) error {
	return p.Publish("ai.request.completed", map[string]interface{}{
		"request_id":        requestID,
		"user_id":           userID,
		"action":            action,
		"success":           success,
		"remaining_credits": remaining,
	})
}
