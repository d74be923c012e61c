package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// EventWriter persists a single notification event
type EventWriter interface {
	Notify(ctx context.Context, ev Event) (bool, error)
}

// DispatchMetrics is what the dispatcher reports
type DispatchMetrics interface {
	RecordNotificationCreated(kind string)
	RecordNotificationDropped()
	RecordNotificationFailed()
	SetNotificationQueueDepth(n int)
}

// DispatcherConfig sizes the worker pool and retry policy
type DispatcherConfig struct {
	Workers        int
	QueueSize      int
	MaxRetries     uint64
	InitialBackoff time.Duration
	WriteTimeout   time.Duration
}

// Dispatcher delivers notification events on a bounded queue served by a
// worker pool. Delivery is best-effort: a full queue drops the event.
type Dispatcher struct {
	writer  EventWriter
	metrics DispatchMetrics
	log     zerolog.Logger
	cfg     DispatcherConfig

	queue  chan Event
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher starts cfg.Workers workers. Call Close to drain them.
func NewDispatcher(writer EventWriter, cfg DispatcherConfig, log zerolog.Logger, metrics DispatchMetrics) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		writer:  writer,
		metrics: metrics,
		log:     log.With().Str("component", "notification_dispatcher").Logger(),
		cfg:     cfg,
		queue:   make(chan Event, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Dispatch enqueues ev without blocking. Self-actions are discarded here.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.ActorID == ev.RecipientID {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ev, "dispatcher closed")
		return
	}
	select {
	case d.queue <- ev:
		d.metrics.SetNotificationQueueDepth(len(d.queue))
	default:
		d.drop(ev, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be written, or
// for ctx to expire, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.metrics.SetNotificationQueueDepth(len(d.queue))
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.cfg.InitialBackoff
	b := backoff.WithContext(backoff.WithMaxRetries(policy, d.cfg.MaxRetries), d.ctx)

	var created bool
	op := func() error {
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.WriteTimeout)
		defer cancel()

		var err error
		created, err = d.writer.Notify(ctx, ev)
		if errors.Is(err, models.ErrValidation) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, b); err != nil {
		d.metrics.RecordNotificationFailed()
		d.log.Error().Err(err).
			Str("type", string(ev.Type)).
			Uint("actor_id", ev.ActorID).
			Uint("recipient_id", ev.RecipientID).
			Str("target_id", ev.TargetID).
			Msg("notification not delivered")
		return
	}
	if created {
		d.metrics.RecordNotificationCreated(string(ev.Type))
	}
}

func (d *Dispatcher) drop(ev Event, reason string) {
	d.metrics.RecordNotificationDropped()
	d.log.Warn().
		Str("reason", reason).
		Str("type", string(ev.Type)).
		Uint("recipient_id", ev.RecipientID).
		Msg("notification dropped")
}

type noopMetrics struct{}

func (noopMetrics) RecordNotificationCreated(string) {}
func (noopMetrics) RecordNotificationDropped()       {}
func (noopMetrics) RecordNotificationFailed()        {}
func (noopMetrics) SetNotificationQueueDepth(int)    {}

// InlineNotifier writes each event synchronously. Failures are logged and
// swallowed so the originating action still succeeds.
type InlineNotifier struct {
	writer EventWriter
	log    zerolog.Logger
}

// NewInlineNotifier creates an InlineNotifier
func NewInlineNotifier(writer EventWriter, log zerolog.Logger) *InlineNotifier {
	return &InlineNotifier{writer: writer, log: log}
}

// Dispatch implements Notifier
func (n *InlineNotifier) Dispatch(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := n.writer.Notify(ctx, ev); err != nil {
		n.log.Error().Err(err).
			Str("type", string(ev.Type)).
			Uint("recipient_id", ev.RecipientID).
			Msg("notification not delivered")
	}
}
