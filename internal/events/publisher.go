package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher delivers ledger events to whoever listens for them.
type Publisher interface {
	PublishScheduleMaterialized(ctx context.Context, msg *ScheduleMaterialized) error
	Close() error
}

type AMQPPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	routingKey   string
	logger       logrus.FieldLogger
}

// NewAMQPPublisher connects to the broker and declares a durable topic
// exchange.
func NewAMQPPublisher(url, exchangeName, routingKey string, logger logrus.FieldLogger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		logger:       logger,
	}, nil
}

func (p *AMQPPublisher) PublishScheduleMaterialized(ctx context.Context, msg *ScheduleMaterialized) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			MessageId:    msg.ScheduleID.String(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"scheduleID":   msg.ScheduleID.String(),
		"transactions": len(msg.TransactionIDs),
		"exchange":     p.exchangeName,
		"routingKey":   p.routingKey,
	}).Debug("AMQPPublisher.PublishScheduleMaterialized.published")

	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishScheduleMaterialized(context.Context, *ScheduleMaterialized) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

// NewPublisher returns an AMQP publisher, or a NopPublisher when url is empty.
func NewPublisher(url, exchangeName, routingKey string, logger logrus.FieldLogger) (Publisher, error) {
	if url == "" {
		logger.Info("events.NewPublisher.disabled")
		return NopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchangeName, routingKey, logger)
}
