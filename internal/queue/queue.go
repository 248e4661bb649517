package queue

import (
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// JobMessage is the wire form of an enqueued import job. The full job record
// lives in the document store; the queue only carries the identifiers.
type JobMessage struct {
	JobID   string `json:"job_id"`
	VideoID string `json:"video_id"`
}

// Publisher enqueues import jobs on a durable queue with persistent delivery,
// so queued work survives broker restarts.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
}

func NewPublisher(amqpURI, queueName string) (*Publisher, error) {
	conn, err := amqp091.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return &Publisher{conn: conn, channel: ch, queue: queueName}, nil
}

func (p *Publisher) Enqueue(msg JobMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.channel.Publish(
		"",      // default exchange
		p.queue, // routed straight to the job queue
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
