package notifications

import (
	"context"
	"sync"
	"time"

	"laptoploan/pkg/logger"
)

// Dispatcher delivers mail on background workers. Dispatch never blocks:
// when the queue is full the mail is dropped and logged. Failed sends are
// logged and not retried.
type Dispatcher struct {
	mailer  Mailer
	log     *logger.Logger
	timeout time.Duration

	queue   chan Mail
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

type DispatcherConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

func NewDispatcher(mailer Mailer, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	d := &Dispatcher{
		mailer:  mailer,
		log:     log,
		timeout: cfg.SendTimeout,
		queue:   make(chan Mail, cfg.QueueSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

// Dispatch queues m and reports whether it was accepted.
func (d *Dispatcher) Dispatch(m Mail) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.log.Warn("Mail dropped, dispatcher stopped", "to", m.To, "subject", m.Subject)
		return false
	}

	select {
	case d.queue <- m:
		return true
	default:
		d.log.Warn("Mail dropped, queue full", "to", m.To, "subject", m.Subject)
		return false
	}
}

// Stop refuses new mail and waits for queued mail to be sent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("Mail dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for m := range d.queue {
		d.send(id, m)
	}
}

func (d *Dispatcher) send(id int, m Mail) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Mail worker panicked", "worker", id, "panic", r)
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.mailer.Send(ctx, m); err != nil {
		d.log.Error("Failed to send mail",
			"worker", id,
			"to", m.To,
			"subject", m.Subject,
			"error", err,
		)
		return
	}

	d.log.Debug("Mail sent", "worker", id, "to", m.To, "subject", m.Subject)
}

// Pending returns the number of queued, unsent mails.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}
