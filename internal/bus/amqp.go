package bus

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Bridge forwards published events to other workers and feeds foreign
// events back into the local hub.
type Bridge interface {
	Forward(ctx context.Context, channel string, payload []byte) error
	Close() error
}

const originHeader = "x-origin"

// NewAMQPBridge connects to RabbitMQ, declares the topic exchange and
// starts consuming foreign events into deliver. On any setup failure the
// bus degrades to in-process fan-out via a noop bridge.
func NewAMQPBridge(amqpURL, exchange string, deliver func(channel string, payload []byte)) Bridge {
	if amqpURL == "" {
		log.Printf("amqp bridge disabled, in-process fan-out only: empty amqp url")
		return noopBridge{}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		return noopBridge{}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		_ = conn.Close()
		return noopBridge{}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopBridge{}
	}

	// Worker-private queue; every worker sees every channel.
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopBridge{}
	}
	if err := ch.QueueBind(queue.Name, "#", exchange, false, nil); err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopBridge{}
	}

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		log.Printf("amqp bridge disabled, in-process fan-out only: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopBridge{}
	}

	bridge := &amqpBridge{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		origin:   uuid.NewString(),
	}

	go func() {
		for delivery := range deliveries {
			if origin, ok := delivery.Headers[originHeader].(string); ok && origin == bridge.origin {
				continue // own publish, already delivered locally
			}
			deliver(delivery.RoutingKey, delivery.Body)
		}
	}()

	log.Printf("amqp bridge connected exchange=%s queue=%s", exchange, queue.Name)
	return bridge
}

type amqpBridge struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	origin   string
}

func (b *amqpBridge) Forward(ctx context.Context, channel string, payload []byte) error {
	return b.ch.PublishWithContext(ctx, b.exchange, channel, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now(),
		Body:         payload,
		Headers:      amqp.Table{originHeader: b.origin},
	})
}

func (b *amqpBridge) Close() error {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

type noopBridge struct{}

func (noopBridge) Forward(ctx context.Context, channel string, payload []byte) error {
	return nil
}

func (noopBridge) Close() error {
	return nil
}
