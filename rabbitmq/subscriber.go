package rabbitmq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"

	"visibility-scan-pipeline/models"
)

// ScanRequestHandler processes one decoded scan request. Returning an error
// requeues the delivery once; a redelivered failure is dropped.
type ScanRequestHandler func(req models.ScanRequest) error

// Subscriber consumes scan requests from a durable queue and dispatches
// them to the handler. It reconnects with a fixed backoff until the context
// is canceled.
type Subscriber struct {
	amqpURL  string
	exchange string
	queue    string
	handler  ScanRequestHandler
}

// NewSubscriber creates a scan request subscriber.
func NewSubscriber(amqpURL, exchange, queue string, handler ScanRequestHandler) *Subscriber {
	return &Subscriber{
		amqpURL:  amqpURL,
		exchange: exchange,
		queue:    queue,
		handler:  handler,
	}
}

// Start runs the consume loop until ctx is canceled.
func (s *Subscriber) Start(ctx context.Context) {
	for {
		if err := s.consume(ctx); err != nil {
			log.Printf("Scan request subscriber: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("Scan request subscriber stopped")
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (s *Subscriber) consume(ctx context.Context) error {
	conn, err := amqp.Dial(s.amqpURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(s.exchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(s.queue, s.queue, s.exchange, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(s.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	log.Printf("Consuming scan requests from queue %q", s.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			s.handle(d)
		}
	}
}

func (s *Subscriber) handle(d amqp.Delivery) {
	var req models.ScanRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		log.Printf("Dropping malformed scan request: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := s.handler(req); err != nil {
		// One requeue attempt, then drop.
		requeue := !d.Redelivered
		log.Printf("Scan request for %q failed (requeue=%v): %v", req.Input.BrandName, requeue, err)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}
