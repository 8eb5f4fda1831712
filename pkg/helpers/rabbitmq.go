package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueConn is an AMQP connection with one channel bound to a durable queue.
type QueueConn struct {
	Conn  *amqp.Connection
	Ch    *amqp.Channel
	Queue string
}

// OpenQueue dials url, opens a channel and declares queue as durable.
// Publishers and the email worker share this so both sides agree on the queue shape.
func OpenQueue(url, queue string) (*QueueConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %q: %w", queue, err)
	}
	return &QueueConn{Conn: conn, Ch: ch, Queue: queue}, nil
}

func (q *QueueConn) Close() {
	if q == nil {
		return
	}
	if q.Ch != nil {
		_ = q.Ch.Close()
	}
	if q.Conn != nil {
		_ = q.Conn.Close()
	}
}

// RabbitPublisher publishes JSON jobs to a single queue through the default exchange.
type RabbitPublisher struct {
	*QueueConn
	AppID string
}

func NewRabbitPublisher(url, queue, appID string) (*RabbitPublisher, error) {
	qc, err := OpenQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{QueueConn: qc, AppID: appID}, nil
}

// PublishJSON marshals body and publishes it as a persistent message.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.Ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.AppID,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}
