package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// BatchUC drives one scheduler invocation over a bounded batch. The feed only
// tolerates small pages, so a batch fetches ceil(batchSize/pageSize) chunks
// and yields control once the target is reached.
type BatchUC struct {
	Feed   domain.FeedClient
	Sync   *SyncUC
	Notify domain.Notifier

	// PageSize is the upstream page ceiling (≤100).
	PageSize int
}

// RunBatch processes up to batchSize items starting at offset. The returned
// run's Outcome tells the caller whether to schedule a continuation
// (Completed), stop for good (Exhausted), or leave the retry to the next
// external trigger (Failed, err non-nil).
func (uc *BatchUC) RunBatch(ctx context.Context, offset, batchSize int) (domain.SyncRun, error) {
	pageSize := uc.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	if batchSize <= 0 {
		batchSize = pageSize
	}
	run := domain.SyncRun{Offset: offset, BatchSize: batchSize, PageSize: pageSize}
	chunks := (batchSize + pageSize - 1) / pageSize

	log.Info().Int("offset", offset).Int("batch_size", batchSize).Int("chunks", chunks).Msg("sync batch starting")

	for i := 0; i < chunks; i++ {
		currentOffset := offset + i*pageSize
		records, err := uc.Feed.FetchPage(ctx, currentOffset, pageSize)
		if err != nil {
			// Transport and decode failures abort the invocation; the
			// external schedule decides whether and when to retry.
			run.Outcome = domain.SyncFailed
			log.Error().Err(err).Int("offset", currentOffset).Msg("feed fetch failed, aborting batch")
			uc.Notify.NotifyFailure(ctx, "batch fetch", err.Error())
			return run, err
		}
		if len(records) == 0 {
			run.Outcome = domain.SyncExhausted
			log.Info().Int("offset", currentOffset).Msg("feed exhausted")
			return run, nil
		}

		groups, skipped := GroupBySKU(records)
		confirmed, results := uc.Sync.ReconcileGroups(ctx, groups)
		run.Groups += len(groups)
		run.Failures += len(results) - len(confirmed) + skipped
		run.Processed += len(records)

		log.Info().Int("offset", currentOffset).Int("records", len(records)).Int("groups", len(groups)).Int("synced", len(confirmed)).Msg("chunk reconciled")

		if run.Processed >= batchSize {
			break
		}
	}

	run.Outcome = domain.SyncCompleted
	log.Info().Int("offset", offset).Int("processed", run.Processed).Int("failures", run.Failures).Msg("sync batch completed")
	return run, nil
}

// RunFull fetches the entire feed in one call, reconciles everything, and
// then drafts every catalog entry absent from the pass. Only this mode runs
// the missing-item sweep: only it can see the whole feed.
func (uc *BatchUC) RunFull(ctx context.Context) (domain.SyncRun, error) {
	run := domain.SyncRun{}
	records, err := uc.Feed.FetchAll(ctx)
	if err != nil {
		run.Outcome = domain.SyncFailed
		log.Error().Err(err).Msg("full sweep fetch failed")
		uc.Notify.NotifyFailure(ctx, "full sweep fetch", err.Error())
		return run, err
	}

	groups, skipped := GroupBySKU(records)
	confirmed, results := uc.Sync.ReconcileGroups(ctx, groups)
	run.Processed = len(records)
	run.Groups = len(groups)
	run.Failures = len(results) - len(confirmed) + skipped

	if err := uc.Sync.DraftMissing(ctx, confirmed); err != nil {
		run.Outcome = domain.SyncFailed
		uc.Notify.NotifyFailure(ctx, "missing-item sweep", err.Error())
		return run, err
	}

	run.Outcome = domain.SyncCompleted
	log.Info().Int("records", len(records)).Int("groups", run.Groups).Int("failures", run.Failures).Msg("full sweep completed")
	return run, nil
}
