package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finsentinel-server/src/logger"
)

const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures     = 5
	openTimeout     = 30 * time.Second
	publishTimeout  = 5 * time.Second
	redeliveryDelay = 2 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Client publishes and consumes transaction change messages on a direct
// exchange. Every message is routed to the durable work queue shared by all
// instances and to an exclusive invalidation queue owned by this instance.
// Repeated publish failures open a circuit so that request handlers stop
// waiting on an unavailable broker.
type Client struct {
	conn              *amqp091.Connection
	channel           *amqp091.Channel
	exchangeName      string
	queueName         string
	invalidationQueue string

	state        int32
	failureCount int64
	mu           sync.Mutex
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	// server-named, removed when this connection goes away
	q, err := c.channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare invalidation queue: %w", err)
	}
	c.invalidationQueue = q.Name

	err = c.channel.QueueBind(c.invalidationQueue, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind invalidation queue: %w", err)
	}

	return nil
}

func (c *Client) PublishTransactionsChanged(ctx context.Context, userID int64, reason string) error {
	if c.isCircuitOpen() {
		return fmt.Errorf("publish transactions changed: %w", ErrCircuitOpen)
	}
	if c.channel == nil {
		c.recordFailure()
		return errors.New("publish transactions changed: channel not open")
	}

	body, err := NewTransactionsChangedMessage(userID, reason).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		if isConnectionError(err) {
			c.recordFailure()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	log := logger.FromContext(ctx)
	log.Debug().
		Int64("user_id", userID).
		Str("reason", reason).
		Str("exchange", c.exchangeName).
		Msg("published transactions changed message")

	return nil
}

// ConsumeTransactionsChanged takes messages from the shared work queue, so
// each message is handled by one instance. It blocks until ctx is cancelled
// or the delivery channel closes.
func (c *Client) ConsumeTransactionsChanged(ctx context.Context, handler func(context.Context, *TransactionsChangedMessage) error) error {
	log := logger.FromContext(ctx)

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log.Info().Str("queue", c.queueName).Msg("started consuming transactions changed messages")

	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("stopping message consumption")
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			handleDelivery(ctx, delivery, redeliveryDelay, handler)
		}
	}
}

// ConsumeCacheInvalidations receives every message published by any instance
// on this instance's exclusive queue. It blocks until ctx is cancelled or the
// delivery channel closes.
func (c *Client) ConsumeCacheInvalidations(ctx context.Context, invalidate func(userID int64)) error {
	log := logger.FromContext(ctx)

	msgs, err := c.channel.Consume(
		c.invalidationQueue, // queue
		"",                  // consumer
		true,                // auto-ack
		true,                // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return fmt.Errorf("start consuming invalidations: %w", err)
	}

	log.Info().Str("queue", c.invalidationQueue).Msg("started consuming cache invalidations")
	return forwardInvalidations(ctx, msgs, invalidate)
}

func forwardInvalidations(ctx context.Context, msgs <-chan amqp091.Delivery, invalidate func(userID int64)) error {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("invalidation channel closed")
			}
			msg, err := TransactionsChangedMessageFromJSON(delivery.Body)
			if err != nil {
				log.Error().Err(err).Msg("failed to unmarshal invalidation")
				continue
			}
			invalidate(msg.UserID)
		}
	}
}

// handleDelivery acks a handled message and drops a malformed one. A failed
// message is requeued once after retryDelay; if it fails again after
// redelivery it is dropped.
func handleDelivery(ctx context.Context, delivery amqp091.Delivery, retryDelay time.Duration, handler func(context.Context, *TransactionsChangedMessage) error) {
	log := logger.FromContext(ctx)

	msg, err := TransactionsChangedMessageFromJSON(delivery.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to unmarshal message")
		delivery.Nack(false, false)
		return
	}

	err = handler(ctx, msg)
	if err == nil {
		delivery.Ack(false)
		return
	}

	if delivery.Redelivered {
		log.Error().Err(err).Int64("user_id", msg.UserID).Msg("failed to handle redelivered message, dropping it")
		delivery.Nack(false, false)
		return
	}

	log.Warn().Err(err).Int64("user_id", msg.UserID).Dur("delay", retryDelay).Msg("failed to handle message, requeueing")
	timer := time.NewTimer(retryDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}
	delivery.Nack(false, true)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Since(c.lastFailure) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()

	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"connection", "EOF", "broken pipe", "closed network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
