package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	jobTimeout     = 10 * time.Second
)

// StatsDispatcher routes offer stats recalculations to a fixed set of workers
// using consistent hashing on the offer id, so jobs for one offer run in order.
type StatsDispatcher struct {
	workers []chan string
	updater ports.OfferStatsUpdater
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewStatsDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewStatsDispatcher(numWorkers int, updater ports.OfferStatsUpdater, log zerolog.Logger) *StatsDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &StatsDispatcher{
		workers: make([]chan string, numWorkers),
		updater: updater,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *StatsDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *StatsDispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue schedules a recalculation for offerID. It never blocks; when the
// worker's buffer is full the job is dropped and logged.
func (d *StatsDispatcher) Enqueue(offerID string) {
	offerID = domain.NormalizeID(offerID)
	select {
	case d.workers[d.shardIndex(offerID)] <- offerID:
	default:
		metrics.StatsDroppedTotal.Inc()
		d.log.Warn().Str("offer_id", offerID).Msg("stats queue full, recalculation dropped")
	}
}

// shardIndex maps an offer id deterministically to a worker index.
func (d *StatsDispatcher) shardIndex(offerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(offerID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *StatsDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case offerID := <-ch:
			d.process(ctx, id, offerID)
		}
	}
}

func (d *StatsDispatcher) process(ctx context.Context, workerID int, offerID string) {
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	result := "ok"
	if err := d.updater.RecalculateStats(jobCtx, offerID); err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("offer_id", offerID).
			Int("worker_id", workerID).
			Msg("offer stats recalculation failed")
	}
	metrics.StatsRecalculationDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
