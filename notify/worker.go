package notify

import (
	"context"
	"log/slog"
)

// Worker drains the notification queue and hands each entry to the
// mailer. It runs under the goroutine supervisor; a mail failure is
// logged and the loop keeps going.
type Worker struct {
	log    *slog.Logger
	mailer Mailer
	queue  chan Notification
}

func NewWorker(log *slog.Logger, mailer Mailer, bufferSize int) *Worker {
	return &Worker{log: log, mailer: mailer, queue: make(chan Notification, bufferSize)}
}

// Enqueue hands a notification to the worker without blocking the
// caller. A full queue drops the notification; registration must not
// wait on mail.
func (w *Worker) Enqueue(n Notification) {
	select {
	case w.queue <- n:
	default:
		w.log.Warn("notification queue full, dropping", "to", n.To, "subject", n.Subject)
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case n := <-w.queue:
			if err := w.mailer.Send(ctx, n); err != nil {
				w.log.Error("notification failed", "to", n.To, "subject", n.Subject, "error", err)
			}
		case <-ctx.Done():
			w.log.Debug("Context done, stopping notification worker")
			return nil
		}
	}
}
