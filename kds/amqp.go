package kds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	publishTimeout = 5 * time.Second
	amqpQueueSize  = 256
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a fanout exchange so kitchen services can consume them.
// Publish only queues the message; a single worker sends them in order.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	log      logrus.FieldLogger

	queue     chan Message
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewAMQPPublisher(url, exchange string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	p := newAMQPPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange string, log logrus.FieldLogger) *AMQPPublisher {
	p := &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		log:      log,
		queue:    make(chan Message, amqpQueueSize),
		done:     make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish queues msg; when the queue is full or the publisher is closed the message is dropped.
func (p *AMQPPublisher) Publish(_ context.Context, msg Message) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.queue <- msg:
	default:
		p.log.WithField("event", msg.Event).Warn("amqp queue full, dropping message")
	}
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.queue:
			p.send(msg)
		case <-p.done:
			for {
				select {
				case msg := <-p.queue:
					p.send(msg)
				default:
					return
				}
			}
		}
	}
}

func (p *AMQPPublisher) send(msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		p.log.WithError(err).Error("marshal amqp message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, msg.Event, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         msg.Event,
		Body:         body,
	})
	if err != nil {
		p.log.WithError(err).WithField("event", msg.Event).Error("publish amqp message")
	}
}

// Close flushes queued messages, then closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		err = p.channel.Close()
		if p.conn != nil {
			if cerr := p.conn.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}
