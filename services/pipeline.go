package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HyeongmoKim/BidAssistance-BE/config"
	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/storage"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// ListingProvider fetches the raw notices of one inquiry window.
type ListingProvider interface {
	FetchListings(ctx context.Context, from, to time.Time) ([]*models.RawNotice, error)
}

// AnalysisTrigger asks the valuation collaborator to analyze one persisted
// announcement.
type AnalysisTrigger interface {
	RequestAnalysis(ctx context.Context, bid *models.BidAnnouncement) error
}

// Pipeline runs one ingest batch: fetch → dedup → enrich → persist →
// trigger. Only the listing call and the bulk insert can fail the batch;
// everything per-record degrades and is logged instead.
type Pipeline struct {
	cfg      *config.Config
	listings ListingProvider
	enricher *Enricher
	mapper   *Mapper
	store    storage.BidStore
	trigger  AnalysisTrigger
	snapshot storage.SnapshotWriter
	retry    *utils.RetryConfig
	logger   *utils.Logger

	triggerWG sync.WaitGroup
}

// NewPipeline wires a Pipeline. snapshot may be nil to skip raw snapshots.
func NewPipeline(cfg *config.Config, listings ListingProvider, detail DetailProvider,
	store storage.BidStore, trigger AnalysisTrigger, snapshot storage.SnapshotWriter,
	logger *utils.Logger) *Pipeline {

	return &Pipeline{
		cfg:      cfg,
		listings: listings,
		enricher: NewEnricher(detail, logger, cfg.MaxConcurrency, cfg.RateLimitMs),
		mapper:   NewMapper(logger),
		store:    store,
		trigger:  trigger,
		snapshot: snapshot,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Run executes one batch over the [now-window, now+window] inquiry window.
func (p *Pipeline) Run(ctx context.Context) (*models.BatchReport, error) {
	report := &models.BatchReport{BatchID: uuid.NewString()}

	window := time.Duration(p.cfg.WindowHours) * time.Hour
	now := time.Now()
	from, to := now.Add(-window), now.Add(window)

	p.logger.Info("[pipeline] Batch %s | window %s .. %s",
		report.BatchID, from.Format("2006-01-02 15:04"), to.Format("2006-01-02 15:04"))

	var raw []*models.RawNotice
	err := p.retry.Do(ctx, "listing fetch", func() error {
		var ferr error
		raw, ferr = p.listings.FetchListings(ctx, from, to)
		return ferr
	})
	if err != nil {
		return report, fmt.Errorf("pipeline: listing fetch: %w", err)
	}

	report.Fetched = len(raw)
	if len(raw) == 0 {
		p.logger.Info("[pipeline] Window is empty, nothing to do")
		return report, nil
	}

	if p.snapshot != nil {
		if err := p.snapshot.WriteRaw(raw); err != nil {
			p.logger.Warn("[pipeline] Raw snapshot failed: %v", err)
		}
	}

	candidates := p.mapper.Map(raw)

	fresh, err := p.dedup(ctx, candidates)
	if err != nil {
		return report, fmt.Errorf("pipeline: dedup: %w", err)
	}
	report.New = len(fresh)
	if len(fresh) == 0 {
		p.logger.Info("[pipeline] All %d candidates already stored", len(candidates))
		return report, nil
	}

	p.logger.Info("[pipeline] Enriching %d new announcements (%d workers, %dms interval)",
		len(fresh), p.cfg.MaxConcurrency, p.cfg.RateLimitMs)
	p.enricher.Enrich(ctx, fresh)

	saved, err := p.store.InsertBatch(ctx, fresh)
	if err != nil {
		return report, fmt.Errorf("pipeline: persist: %w", err)
	}
	report.Saved = len(saved)

	report.Triggered = p.dispatchAnalysis(saved)

	p.logger.Info("[pipeline] %s", report)
	return report, nil
}

// dedup keeps only candidates whose natural key the store has not seen,
// preserving order. One keyed-set query regardless of batch size.
func (p *Pipeline) dedup(ctx context.Context, candidates []*models.BidAnnouncement) ([]*models.BidAnnouncement, error) {
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.RealID
	}

	existing, err := p.store.FindExistingRealIDs(ctx, keys)
	if err != nil {
		return nil, err
	}

	fresh := make([]*models.BidAnnouncement, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[c.RealID]; !ok {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}

// dispatchAnalysis fires one trigger per persisted record and returns
// immediately with the dispatch count. The batch does not wait for the
// results: a failed trigger is logged with the record's natural key and
// affects nothing else.
func (p *Pipeline) dispatchAnalysis(saved []*models.BidAnnouncement) int {
	for _, bid := range saved {
		bid := bid
		p.triggerWG.Add(1)
		go func() {
			defer p.triggerWG.Done()
			// Deliberately detached from the batch context; the batch is
			// already complete once persistence succeeded.
			if err := p.trigger.RequestAnalysis(context.Background(), bid); err != nil {
				p.logger.Warn("[pipeline] Analysis trigger failed (%s): %v", bid.RealID, err)
			}
		}()
	}
	return len(saved)
}

// DrainTriggers blocks until in-flight analysis triggers finish or the
// timeout passes. Intended for short-lived processes that would otherwise
// exit with dispatches still on the wire.
func (p *Pipeline) DrainTriggers(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		p.triggerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		p.logger.Warn("[pipeline] Gave up waiting for analysis triggers after %v", timeout)
	}
}
