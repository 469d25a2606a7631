package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/profilely/internal/logging"
)

// DefaultSendTimeout bounds a single delivery attempt.
const DefaultSendTimeout = 30 * time.Second

// Dispatcher is the production Notifier: a bounded queue drained by a fixed
// pool of workers. When the queue is full, or after Close, messages are
// dropped with a warning.
type Dispatcher struct {
	renderer    *Renderer
	sender      Sender
	log         logging.Logger
	workers     int
	sendTimeout time.Duration

	queue chan Message

	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewDispatcher(r *Renderer, s Sender, log logging.Logger, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		renderer:    r,
		sender:      s,
		log:         log.With("component", "notify"),
		workers:     workers,
		sendTimeout: DefaultSendTimeout,
		queue:       make(chan Message, queueSize),
	}
}

// Start launches the workers. Cancelling ctx does not abort queued
// messages; use Close to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		base := context.WithoutCancel(ctx)
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work(base, i)
		}
		d.log.Info(ctx, "notifier started", "workers", d.workers, "queue", cap(d.queue))
	})
}

// Notify enqueues msg without blocking.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn(ctx, "notifier closed, message dropped", "to", msg.To, "subject", msg.Subject)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn(ctx, "notification queue full, message dropped", "to", msg.To, "subject", msg.Subject)
	}
}

// Close stops accepting messages, lets the workers drain the queue and waits
// for them or for ctx, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	// workers that were never started cannot drain
	d.startOnce.Do(func() {})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context, n int) {
	defer d.wg.Done()
	log := d.log.With("worker", n)

	for msg := range d.queue {
		d.deliver(ctx, log, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, log logging.Logger, msg Message) {
	id := uuid.NewString()
	log = log.With("message_id", id, "to", msg.To, "subject", msg.Subject)

	html, err := d.renderer.Render(msg.Template, msg.Params)
	if err != nil {
		log.Error(ctx, "render failed", "template", msg.Template, "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, Envelope{ID: id, To: msg.To, Subject: msg.Subject, HTML: html}); err != nil {
		log.Error(ctx, "send failed", "error", err)
		return
	}
	log.Debug(ctx, "message sent")
}
