package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"

	"github.com/telconova/portal/internal/shared/notify"
)

// BindingKey matches every level published under RoutingKey.
const BindingKey = "notice.#"

// ErrDeliveriesClosed is returned by Consumer.Run when the broker closes the
// delivery stream.
var ErrDeliveriesClosed = errors.New("amqp delivery channel closed")

type source interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Close() error
}

// Consumer reads notices from a private queue bound to the exchange and
// passes them to sink. Notices published by this same process are skipped.
type Consumer struct {
	conn   *amqp091.Connection
	source source
	queue  string
	origin string
	sink   notify.Notifier
	logger *slog.Logger
}

// Subscribe connects to url, declares an exclusive auto-delete queue and
// binds it to exchange under BindingKey.
func Subscribe(url, exchange string, sink notify.Notifier, logger *slog.Logger) (*Consumer, error) {
	if url == "" {
		return nil, errors.New("amqp url is required")
	}
	if sink == nil {
		return nil, errors.New("amqp consumer needs a notifier")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, ch, err := open(url, exchange)
	if err != nil {
		return nil, err
	}
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.QueueBind(queue.Name, BindingKey, exchange, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &Consumer{conn: conn, source: ch, queue: queue.Name, origin: processOrigin, sink: sink, logger: logger}, nil
}

// Run delivers notices until ctx is done, which returns nil, or the broker
// closes the stream, which returns ErrDeliveriesClosed.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.source.Consume(c.queue, "", true, true, false, false, nil)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp091.Delivery) {
	if origin, _ := d.Headers[OriginHeader].(string); origin != "" && origin == c.origin {
		return
	}
	var notice notify.Notice
	if err := json.Unmarshal(d.Body, &notice); err != nil {
		if c.logger != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "discarding undecodable notice",
				slog.String("routing_key", d.RoutingKey),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	c.sink.Notify(ctx, notice)
}

func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	if err := c.source.Close(); err != nil && c.logger != nil {
		c.logger.Warn("close amqp channel", slog.String("error", err.Error()))
	}
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
