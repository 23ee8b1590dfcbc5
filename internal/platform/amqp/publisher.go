// Package amqp carries user notices between portal processes over a RabbitMQ
// topic exchange. Publisher sends them; Consumer receives them and hands them
// to a local notifier such as the WebSocket hub.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/telconova/portal/internal/shared/notify"
)

// DefaultExchange receives every notice under the routing key notice.<level>.
const DefaultExchange = "telconova.notices"

// OriginHeader names the process that published a notice.
const OriginHeader = "origin"

// processOrigin tags everything this process publishes so its own Consumer
// can skip notices that were already delivered locally.
var processOrigin = uuid.NewString()

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher is a notify.Notifier backed by a RabbitMQ channel.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	origin   string
	logger   *slog.Logger
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("amqp url is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, ch, err := open(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange, origin: processOrigin, logger: logger}, nil
}

func open(url, exchange string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// RoutingKey is the key a notice is published under.
func RoutingKey(notice notify.Notice) string {
	return "notice." + string(notice.Level)
}

// Publish sends notice as a JSON message.
func (p *Publisher) Publish(ctx context.Context, notice notify.Notice) error {
	if p == nil || p.channel == nil {
		return nil
	}
	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(notice), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   notice.At,
		Headers:     amqp091.Table{"session_id": notice.SessionID, OriginHeader: p.origin},
		Body:        body,
	})
}

// Notify publishes and logs failures.
func (p *Publisher) Notify(ctx context.Context, notice notify.Notice) {
	if err := p.Publish(ctx, notice); err != nil && p.logger != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish notice",
			slog.String("exchange", p.exchange),
			slog.String("routing_key", RoutingKey(notice)),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil && p.logger != nil {
		p.logger.Warn("close amqp channel", slog.String("error", err.Error()))
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

var _ notify.Notifier = (*Publisher)(nil)
