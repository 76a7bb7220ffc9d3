package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
	"github.com/nerrad567/tsbridge/internal/infrastructure/logging"
	"github.com/nerrad567/tsbridge/internal/storage"
	"github.com/nerrad567/tsbridge/internal/telemetry"
)

// saveTimeout bounds a single persistence call so a stalled database
// cannot wedge a worker indefinitely.
const saveTimeout = 30 * time.Second

// Coordinator moves messages from reception through classification to
// persistence.
//
// Reception enqueues into a bounded queue; worker goroutines dequeue,
// classify, and write. When the queue is full, Handle blocks, which
// propagates backpressure to the broker session (messages are
// dispatched in order, so an unacknowledged message halts delivery).
//
// A failed write drops that record and logs the failure. The raw audit
// record and any sibling records from the same message are written
// independently; one failure never discards the others.
type Coordinator struct {
	repo   storage.Repository
	logger *logging.Logger

	queue   chan telemetry.InboundMessage
	workers int

	// shutdown is closed when Run's context is cancelled, releasing
	// any Handle call blocked on a full queue.
	shutdown chan struct{}

	// drainMu orders intake against queue close: Handle holds the read
	// side while sending, Run takes the write side before closing the
	// queue so no send can race the close.
	drainMu  sync.RWMutex
	draining bool

	received  atomic.Uint64
	persisted atomic.Uint64
	dropped   atomic.Uint64
	rejected  atomic.Uint64
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	// Received counts messages accepted into the queue.
	Received uint64
	// Persisted counts records written successfully.
	Persisted uint64
	// Dropped counts records that failed to persist.
	Dropped uint64
	// Rejected counts messages refused during shutdown.
	Rejected uint64
}

// New creates a Coordinator with the configured queue bound and worker
// count.
func New(repo storage.Repository, logger *logging.Logger, cfg config.PipelineConfig) *Coordinator {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Coordinator{
		repo:     repo,
		logger:   logger.With("component", "pipeline"),
		queue:    make(chan telemetry.InboundMessage, queueSize),
		workers:  workers,
		shutdown: make(chan struct{}),
	}
}

// Handle accepts one inbound message, blocking while the queue is full.
//
// It matches the mqtt.MessageHandler signature so it can be passed to
// Subscribe directly. The receipt timestamp is taken here, before any
// queueing delay.
func (c *Coordinator) Handle(topic string, payload []byte) error {
	msg := telemetry.InboundMessage{
		Topic:      topic,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}

	c.drainMu.RLock()
	defer c.drainMu.RUnlock()

	if c.draining {
		c.rejected.Add(1)
		return ErrShuttingDown
	}

	select {
	case c.queue <- msg:
		c.received.Add(1)
		return nil
	case <-c.shutdown:
		c.rejected.Add(1)
		return ErrShuttingDown
	}
}

// Run processes messages until ctx is cancelled, then drains the queue
// and returns.
//
// Cancelling ctx stops the intake first: blocked and future Handle
// calls return ErrShuttingDown, while already-queued messages are
// classified and written before Run returns.
func (c *Coordinator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker()
		}()
	}

	<-ctx.Done()

	// Release handlers blocked on a full queue, then fence out any
	// in-flight sends before closing the queue.
	close(c.shutdown)
	c.drainMu.Lock()
	c.draining = true
	c.drainMu.Unlock()
	close(c.queue)

	wg.Wait()

	stats := c.Stats()
	c.logger.Info("pipeline drained",
		"received", stats.Received,
		"persisted", stats.Persisted,
		"dropped", stats.Dropped,
		"rejected", stats.Rejected,
	)
	return nil
}

// worker dequeues until the queue is closed and drained.
func (c *Coordinator) worker() {
	for msg := range c.queue {
		c.process(msg)
	}
}

// process classifies one message and persists every resulting record.
//
// The raw audit copy is written first so it survives even when every
// derived record fails.
func (c *Coordinator) process(msg telemetry.InboundMessage) {
	result := telemetry.Classify(msg.Topic, msg.Payload, msg.ReceivedAt)

	c.save(msg.Topic, result.Raw)
	for _, rec := range result.Derived {
		c.save(msg.Topic, rec)
	}
}

// save writes one record, counting and logging the outcome.
func (c *Coordinator) save(topic string, rec telemetry.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := storage.Save(ctx, c.repo, rec); err != nil {
		c.dropped.Add(1)
		c.logger.Error("record dropped",
			"topic", topic,
			"record", recordKind(rec),
			"error", err,
		)
		return
	}
	c.persisted.Add(1)
}

// recordKind names a record variant for log output.
func recordKind(rec telemetry.Record) string {
	switch rec.(type) {
	case telemetry.SensorReading:
		return "sensor_reading"
	case telemetry.DeviceLog:
		return "device_log"
	case telemetry.RawPayload:
		return "raw_payload"
	case telemetry.DeviceState:
		return "device_state"
	case telemetry.DeviceHealth:
		return "device_health"
	default:
		return "unknown"
	}
}

// Stats returns a snapshot of the pipeline counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Received:  c.received.Load(),
		Persisted: c.persisted.Load(),
		Dropped:   c.dropped.Load(),
		Rejected:  c.rejected.Load(),
	}
}
