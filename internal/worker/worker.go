package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/config"
	"github.com/casaelena/colibrisync/internal/domain"
)

const scheduleName = "catalog-sync"

// BatchRunner is the slice of the batch scheduler the worker drives.
type BatchRunner interface {
	RunBatch(ctx context.Context, offset, batchSize int) (domain.SyncRun, error)
	RunFull(ctx context.Context) (domain.SyncRun, error)
}

// Trigger asks the worker for one run. A nil Offset resumes from the
// persisted continuation offset; Full requests a whole-feed sweep instead of
// a batch.
type Trigger struct {
	Offset *int
	Full   bool
}

// Worker drives the batch scheduler: each run covers one batch, and a
// completed batch re-arms a timer so the next sub-batch follows after a short
// pause. The continuation offset is persisted, so a restart resumes where the
// previous process stopped.
type Worker struct {
	batch  BatchRunner
	state  domain.SyncStateRepo
	values config.Values

	kicks chan Trigger
}

func New(batch BatchRunner, state domain.SyncStateRepo, values config.Values) *Worker {
	return &Worker{
		batch:  batch,
		state:  state,
		values: values,
		kicks:  make(chan Trigger, 4),
	}
}

// Kick schedules a run. It never blocks; when the queue is full the trigger
// is dropped because a run is already pending.
func (w *Worker) Kick(t Trigger) {
	select {
	case w.kicks <- t:
	default:
		log.Warn().Msg("sync trigger dropped, queue full")
	}
}

// Start runs the scheduling loop until ctx is cancelled. After a completed
// batch the loop re-arms itself; after exhaustion or failure it goes idle
// until the next external trigger.
func (w *Worker) Start(ctx context.Context) {
	log.Info().Msg("sync worker started")

	var timer *time.Timer
	var timerC <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sync worker stopped")
			return
		case t := <-w.kicks:
			stopTimer()
			if w.run(ctx, t) {
				timer = time.NewTimer(w.values.WorkerDelay())
				timerC = timer.C
			}
		case <-timerC:
			timer, timerC = nil, nil
			if w.run(ctx, Trigger{}) {
				timer = time.NewTimer(w.values.WorkerDelay())
				timerC = timer.C
			}
		}
	}
}

// run executes one batch or sweep and reports whether a continuation should
// be scheduled.
func (w *Worker) run(ctx context.Context, t Trigger) bool {
	if t.Full {
		if _, err := w.batch.RunFull(ctx); err != nil {
			log.Error().Err(err).Msg("full sweep failed")
		}
		return false
	}

	offset := w.resolveOffset(ctx, t)
	run, err := w.batch.RunBatch(ctx, offset, w.values.BatchSize)
	if err != nil {
		// Leave the persisted offset untouched; the next trigger retries
		// the same batch.
		return false
	}

	switch run.Outcome {
	case domain.SyncCompleted:
		next := offset + run.BatchSize
		if err := w.state.SetNextOffset(ctx, scheduleName, next); err != nil {
			log.Error().Err(err).Int("offset", next).Msg("offset persist failed")
			return false
		}
		return true
	case domain.SyncExhausted:
		if err := w.state.Clear(ctx, scheduleName); err != nil {
			log.Error().Err(err).Msg("offset clear failed")
		}
		return false
	default:
		return false
	}
}

func (w *Worker) resolveOffset(ctx context.Context, t Trigger) int {
	if t.Offset != nil {
		return *t.Offset
	}
	offset, ok, err := w.state.NextOffset(ctx, scheduleName)
	if err != nil {
		log.Error().Err(err).Msg("offset lookup failed, starting from configured offset")
		return w.values.StartOffset
	}
	if !ok {
		return w.values.StartOffset
	}
	return offset
}
