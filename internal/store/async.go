package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by Flush once the writer is closed.
var ErrClosed = errors.New("async writer closed")

const (
	defaultQueueSize   = 256
	defaultSaveTimeout = 5 * time.Second
)

type writeOp struct {
	key   string
	blob  []byte
	seq   uint64
	flush chan struct{} // non-nil for flush markers
}

type pendingBlob struct {
	seq  uint64
	blob []byte
}

// AsyncWriter is a fire-and-forget KV front. Save enqueues and returns at
// once; one goroutine drains the queue into the backend. Load sees queued
// blobs before they reach the backend. When the queue is full the write is
// dropped and logged.
type AsyncWriter struct {
	backend KV
	queue   chan writeOp
	wg      sync.WaitGroup

	closeMu sync.RWMutex // guards closed; held for reading while sending
	closed  bool

	mu      sync.Mutex // guards seq and pending
	seq     uint64
	pending map[string]pendingBlob
}

// NewAsyncWriter starts the drain goroutine. A queueSize <= 0 uses the default.
func NewAsyncWriter(backend KV, queueSize int) *AsyncWriter {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &AsyncWriter{
		backend: backend,
		queue:   make(chan writeOp, queueSize),
		pending: make(map[string]pendingBlob),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Save enqueues blob for key. It never blocks and never fails; the ctx is
// not carried over to the background write.
func (w *AsyncWriter) Save(_ context.Context, key string, blob []byte) error {
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		log.Warn().Str("key", key).Msg("async writer closed, dropping write")
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	op := writeOp{key: key, blob: slices.Clone(blob), seq: w.seq}
	select {
	case w.queue <- op:
		w.pending[key] = pendingBlob{seq: op.seq, blob: op.blob}
	default:
		log.Warn().Str("key", key).Int("queue", cap(w.queue)).Msg("write queue full, dropping write")
	}
	return nil
}

// Load returns the newest queued blob for key, or reads the backend.
func (w *AsyncWriter) Load(ctx context.Context, key string) ([]byte, error) {
	w.mu.Lock()
	p, ok := w.pending[key]
	w.mu.Unlock()
	if ok {
		return slices.Clone(p.blob), nil
	}
	return w.backend.Load(ctx, key)
}

// Flush waits until every write queued before the call has been attempted.
func (w *AsyncWriter) Flush(ctx context.Context) error {
	done := make(chan struct{})
	w.closeMu.RLock()
	if w.closed {
		w.closeMu.RUnlock()
		return ErrClosed
	}
	select {
	case w.queue <- writeOp{flush: done}:
	case <-ctx.Done():
		w.closeMu.RUnlock()
		return ctx.Err()
	}
	w.closeMu.RUnlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue and stops the goroutine. It is safe to call twice.
func (w *AsyncWriter) Close() {
	w.closeMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.closeMu.Unlock()
	w.wg.Wait()
}

func (w *AsyncWriter) run() {
	defer w.wg.Done()
	for op := range w.queue {
		if op.flush != nil {
			close(op.flush)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), defaultSaveTimeout)
		if err := w.backend.Save(ctx, op.key, op.blob); err != nil {
			log.Warn().Err(err).Str("key", op.key).Msg("async save failed")
		}
		cancel()

		w.mu.Lock()
		if p, ok := w.pending[op.key]; ok && p.seq == op.seq {
			delete(w.pending, op.key)
		}
		w.mu.Unlock()
	}
}
