package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/api/metrics"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
	channelBuffer      = 256
)

// ErrQueueFull is returned by Enqueue when the recipient's worker has no
// room left. The notification is dropped.
var ErrQueueFull = errors.New("notification queue full")

// Options tunes a Dispatcher. Zero values fall back to defaults.
type Options struct {
	Workers     int
	MaxAttempts int
	Backoff     time.Duration
}

// Dispatcher hands notifications to a fixed set of workers using consistent
// hashing on the recipient, so mails to one address go out in order. Workers
// retry failed deliveries before logging and dropping them.
type Dispatcher struct {
	workers     []chan ports.Notification
	notifier    ports.Notifier
	maxAttempts int
	backoff     time.Duration
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through notifier.
func NewDispatcher(opts Options, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	d := &Dispatcher{
		workers:     make([]chan ports.Notification, opts.Workers),
		notifier:    notifier,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands n to the worker responsible for its recipient without
// blocking.
func (d *Dispatcher) Enqueue(n ports.Notification) error {
	shard := d.shardIndex(n.To)
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(shard))
	// Counted before the send so the worker's Dec never runs first.
	depth.Inc()
	select {
	case d.workers[shard] <- n:
		return nil
	default:
		depth.Dec()
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "dropped").Inc()
		return ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, n ports.Notification) {
	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err = d.notifier.Send(ctx, n); err == nil {
			metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "sent").Inc()
			return
		}

		d.log.Warn().Err(err).
			Str("kind", string(n.Kind)).
			Int("attempt", attempt).
			Int("worker_id", worker).
			Msg("notification delivery failed")

		if attempt == d.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * d.backoff):
		}
	}

	metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "failed").Inc()
	d.log.Error().Err(err).
		Str("kind", string(n.Kind)).
		Str("to", n.To).
		Int("worker_id", worker).
		Msg("notification dropped after retries")
}
