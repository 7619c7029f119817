package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const ResumeAnalyzedRoutingKey = "resume.analyzed"

type ResumeAnalyzedEvent struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	CompanyName string    `json:"companyName"`
	JobTitle    string    `json:"jobTitle"`
	ATSScore    float64   `json:"atsScore"`
	AnalyzedAt  time.Time `json:"analyzedAt"`
}

type EventPublisher interface {
	PublishResumeAnalyzed(ctx context.Context, event ResumeAnalyzedEvent) error
	Close() error
}

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher declares a durable topic exchange and publishes to it.
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &amqpPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishResumeAnalyzed(ctx context.Context, event ResumeAnalyzedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	// amqp.Channel is not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(p.exchange, ResumeAnalyzedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.AnalyzedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ResumeAnalyzedRoutingKey, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		log.Printf("⚠️  Failed to close AMQP channel: %v", err)
	}
	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishResumeAnalyzed(context.Context, ResumeAnalyzedEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
