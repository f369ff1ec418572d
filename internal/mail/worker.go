package mail

import (
	"context"
	"log/slog"
	"time"

	"phonebook/internal/platform/metrics"
)

// sendTimeout bounds a single SMTP exchange.
const sendTimeout = 15 * time.Second

// Dispatcher queues messages for a background worker. Enqueueing never
// blocks: when the queue is full the message is dropped and the drop is
// logged and counted, which keeps mail failures away from request handling.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(sender Sender, queueSize int, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		logger:  logger,
		metrics: m,
	}
}

// Dispatch enqueues m for delivery and returns immediately.
func (d *Dispatcher) Dispatch(m Message) {
	select {
	case d.queue <- m:
	default:
		d.logger.Error("mail queue full, dropping message",
			"to", m.To,
			"subject", m.Subject,
		)
		d.metrics.MailFailed.Inc()
	}
}

// Run consumes the queue until ctx is canceled. Every delivery outcome is
// observed here; a failed send is logged and counted, never surfaced to the
// request that enqueued it.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-d.queue:
			d.deliver(ctx, m)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m Message) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, m); err != nil {
		d.logger.ErrorContext(ctx, "mail delivery failed",
			"to", m.To,
			"subject", m.Subject,
			"error", err,
		)
		d.metrics.MailFailed.Inc()
		return
	}
	d.metrics.MailSent.Inc()
}
