package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivered job message. Returning an error means the
// message could not be handled for infrastructure reasons and should be
// redelivered; job-level failures are resolved by the handler itself (the
// job record is marked failed) and return nil.
type Handler func(msg JobMessage) error

// Consumer pulls import jobs off the durable queue. Delivery is at least
// once: redelivered messages for already-completed jobs are detected by the
// handler through the existing quiz document and no-op.
type Consumer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	queue    string
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewConsumer(amqpURI, queueName string, prefetch int) (*Consumer, error) {
	conn, err := amqp091.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return &Consumer{
		conn:     conn,
		channel:  ch,
		queue:    queueName,
		shutdown: make(chan struct{}),
	}, nil
}

func (c *Consumer) Start(handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs, handler)
	}()

	log.Printf("Job consumer started on queue %s", c.queue)
	return nil
}

func (c *Consumer) consume(msgs <-chan amqp091.Delivery, handler Handler) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping job consumer")
			return
		case delivery, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed")
				return
			}
			var msg JobMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				log.Printf("Discarding malformed job message: %v", err)
				_ = delivery.Ack(false)
				continue
			}
			if err := handler(msg); err != nil {
				log.Printf("Failed to process job %s: %v, requeueing", msg.JobID, err)
				_ = delivery.Nack(false, true)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				log.Printf("Error acknowledging job %s: %v", msg.JobID, err)
			}
		}
	}
}

func (c *Consumer) Close() {
	close(c.shutdown)
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.wg.Wait()
}
