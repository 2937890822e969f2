package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/storage"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// ErrRepairRunning is returned when a repair pass is requested while one is
// already in flight.
var ErrRepairRunning = errors.New("repair pass already running")

// RepairJob revisits stored announcements that are still missing real
// base-price data and fills them in once the provider has it. It runs on
// its own schedule, independent of the batch window, and only ever touches
// basic price and bid range. Analysis is not re-triggered.
type RepairJob struct {
	store    storage.BidStore
	provider DetailProvider
	logger   *utils.Logger
	delay    time.Duration

	mu sync.Mutex
}

// NewRepairJob creates a RepairJob pacing provider calls by rateLimitMs.
func NewRepairJob(store storage.BidStore, provider DetailProvider,
	logger *utils.Logger, rateLimitMs int) *RepairJob {
	return &RepairJob{
		store:    store,
		provider: provider,
		logger:   logger,
		delay:    time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Run executes one repair pass and returns the number of records updated.
// Single-flight per process; the store's conditional update makes an
// overlapping pass from another process a harmless no-op. Running twice
// with no new provider data changes nothing.
func (j *RepairJob) Run(ctx context.Context) (int, error) {
	if !j.mu.TryLock() {
		return 0, ErrRepairRunning
	}
	defer j.mu.Unlock()

	incomplete, err := j.store.FindIncomplete(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	j.logger.Info("[repair] %d incomplete announcements to revisit", len(incomplete))

	updated := 0
	for _, bid := range incomplete {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		noticeNo, noticeOrd := bid.NoticeKey()
		quote, err := j.provider.FetchBasePrice(ctx, noticeNo, noticeOrd)
		if err != nil {
			j.logger.Warn("[repair] base-price lookup failed (%s): %v", bid.RealID, err)
			j.pause()
			continue
		}
		if quote == nil {
			// Still no data; try again on the next pass.
			j.pause()
			continue
		}

		basic := ParseAmount(quote.BasicPriceRaw)
		if basic.Sign() == 0 {
			j.pause()
			continue
		}

		changed, err := j.store.UpdateBasePrice(ctx, bid.ID, basic, ParseRangeMagnitude(quote.RangeEndRaw))
		if err != nil {
			j.logger.Warn("[repair] update failed (%s): %v", bid.RealID, err)
		} else if changed {
			updated++
			j.logger.Info("[repair] Updated %s", bid.RealID)
		}
		j.pause()
	}

	j.logger.Info("[repair] Pass complete: %d records updated", updated)
	return updated, nil
}

func (j *RepairJob) pause() {
	time.Sleep(j.delay)
}
