package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Order event types.
const (
	EventOrderOpened      = "order.opened"
	EventOrderItemsAdded  = "order.items_added"
	EventOrderItemRemoved = "order.item_removed"
	EventOrderClosed      = "order.closed"
)

// OrderEvent is published after a ledger change has been committed.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	TableID    int64     `json:"table_id"`
	MenuIDs    []int64   `json:"menu_ids,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Message is one encoded event as handed to a sink. Key groups the events of
// one order.
type Message struct {
	Key       string
	EventType string
	Payload   []byte
}

// Sink delivers an encoded event somewhere.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

const queueSize = 256

type envelope struct {
	ctx context.Context
	msg Message
}

// Emitter fans order events out to every configured sink. Delivery is best
// effort and happens on a background worker, in emit order: failures are
// logged and never reach the caller. Each sink send is bounded by timeout.
type Emitter struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

func NewEmitter(logger *zap.Logger, sinks ...Sink) *Emitter {
	e := &Emitter{sinks: sinks, timeout: 5 * time.Second, logger: logger}
	if len(sinks) > 0 {
		e.queue = make(chan envelope, queueSize)
		e.done = make(chan struct{})
		go e.run()
	}
	return e
}

// Enabled reports whether at least one sink is configured.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.sinks) > 0
}

// Emit queues evt for delivery and returns immediately. The event is dropped
// with a warning when the queue is full or the emitter is closed.
func (e *Emitter) Emit(ctx context.Context, evt OrderEvent) {
	if !e.Enabled() {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		e.logger.Error("Failed to encode order event", zap.String("event_type", evt.EventType), zap.Error(err))
		return
	}
	env := envelope{
		ctx: context.WithoutCancel(ctx),
		msg: Message{Key: strconv.FormatInt(evt.OrderID, 10), EventType: evt.EventType, Payload: payload},
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.logger.Warn("Order event dropped, emitter closed", zap.String("event_type", evt.EventType), zap.Int64("order_id", evt.OrderID))
		return
	}
	select {
	case e.queue <- env:
	default:
		e.logger.Warn("Order event dropped, queue full", zap.String("event_type", evt.EventType), zap.Int64("order_id", evt.OrderID))
	}
}

// Close stops accepting events and waits for the queued ones to be delivered
// or for ctx to end, whichever comes first.
func (e *Emitter) Close(ctx context.Context) error {
	if !e.Enabled() {
		return nil
	}
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for env := range e.queue {
		e.deliver(env)
	}
}

func (e *Emitter) deliver(env envelope) {
	for _, sink := range e.sinks {
		ctx, cancel := context.WithTimeout(env.ctx, e.timeout)
		err := sink.Send(ctx, env.msg)
		cancel()
		if err != nil {
			e.logger.Warn("Failed to publish order event",
				zap.String("sink", sink.Name()),
				zap.String("event_type", env.msg.EventType),
				zap.String("order_id", env.msg.Key),
				zap.Error(err),
			)
		}
	}
}
