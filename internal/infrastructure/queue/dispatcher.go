package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers bot messages on a fixed set of workers using
// consistent hashing on the chat id, which keeps messages to one chat in
// order.
type Dispatcher struct {
	workers   []chan domain.OutboundMessage
	messenger ports.Messenger
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, messenger ports.Messenger, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.OutboundMessage, numWorkers),
		messenger: messenger,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OutboundMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands msg to the worker responsible for its chat. It never blocks:
// when that worker's buffer is full the message is dropped and counted.
func (d *Dispatcher) Enqueue(msg domain.OutboundMessage) {
	idx := d.shardIndex(msg.ChatID)
	select {
	case d.workers[idx] <- msg:
		metrics.OutboundQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.OutboundMessagesTotal.WithLabelValues("dropped").Inc()
		d.log.Error().
			Int64("chat_id", msg.ChatID).
			Int("worker_id", idx).
			Msg("outbound queue full, message dropped")
	}
}

// shardIndex maps a chat id deterministically to a worker index.
func (d *Dispatcher) shardIndex(chatID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(chatID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OutboundMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.OutboundQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.messenger.SendMessage(ctx, msg); err != nil {
				metrics.OutboundMessagesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Int64("chat_id", msg.ChatID).
					Int("worker_id", id).
					Msg("outbound message failed")
				continue
			}
			metrics.OutboundMessagesTotal.WithLabelValues("sent").Inc()
		}
	}
}
