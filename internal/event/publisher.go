package event

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/rabbitmq/amqp091-go"
)

// Event routing keys published on the topic exchange.
const (
	CourseImported = "course.imported"
	CourseDeleted  = "course.deleted"
	QuizGenerated  = "quiz.generated"
	JobFailed      = "import.job.failed"
)

// EventPublisher pushes domain events onto a durable topic exchange. A nil
// publisher is safe to call; events are then dropped with a log line only.
type EventPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewEventPublisher(amqpURI, exchange string) (*EventPublisher, error) {
	conn, err := amqp091.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *EventPublisher) Publish(routingKey string, payload interface{}) error {
	if p == nil {
		log.Printf("[EVENT dropped] %s", routingKey)
		return nil
	}
	body, err := json.Marshal(map[string]interface{}{
		"type":    routingKey,
		"payload": payload,
	})
	if err != nil {
		return err
	}
	return p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
