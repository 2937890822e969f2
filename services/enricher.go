package services

import (
	"context"
	"math/big"
	"strings"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// DetailProvider is the per-record slice of the provider: eligible-region
// and base-price lookups. A nil quote with nil error means "no data yet".
type DetailProvider interface {
	FetchRegions(ctx context.Context, noticeNo, noticeOrd string) ([]string, error)
	FetchBasePrice(ctx context.Context, noticeNo, noticeOrd string) (*models.RawPriceQuote, error)
}

// Enricher fills in region and base-price fields for new candidates. Each
// candidate is its own failure domain: a dead sub-call degrades that
// record's fields to their defaults and the rest of the batch proceeds.
type Enricher struct {
	provider DetailProvider
	logger   *utils.Logger
	pool     *utils.WorkerPool
}

// NewEnricher creates an Enricher running maxConcurrency lookups in
// parallel, paced to one call start per rateLimitMs across all workers.
func NewEnricher(provider DetailProvider, logger *utils.Logger, maxConcurrency, rateLimitMs int) *Enricher {
	return &Enricher{
		provider: provider,
		logger:   logger,
		pool:     utils.NewWorkerPool(maxConcurrency, rateLimitMs),
	}
}

// Enrich mutates the candidates in place and returns when all are done.
// Result order is irrelevant; no candidate's enrichment depends on another.
func (e *Enricher) Enrich(ctx context.Context, bids []*models.BidAnnouncement) {
	for _, bid := range bids {
		bid := bid
		e.pool.Submit(func() {
			e.enrichOne(ctx, bid)
		})
	}
	e.pool.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, bid *models.BidAnnouncement) {
	noticeNo, noticeOrd := bid.NoticeKey()

	regions, err := e.provider.FetchRegions(ctx, noticeNo, noticeOrd)
	switch {
	case err != nil:
		e.logger.Warn("[enrich] region lookup failed (%s): %v", bid.RealID, err)
		bid.Region = models.RegionNationwide
	case len(regions) == 0:
		bid.Region = models.RegionNationwide
	default:
		bid.Region = strings.Join(regions, ", ")
	}

	quote, err := e.provider.FetchBasePrice(ctx, noticeNo, noticeOrd)
	if err != nil {
		e.logger.Warn("[enrich] base-price lookup failed (%s): %v", bid.RealID, err)
		quote = nil
	}
	applyBasePrice(bid, quote)
}

// applyBasePrice resolves the basic-price policy: a non-zero provider value
// wins and carries its bid range; anything else falls back to the derived
// price and leaves the bid range untouched. Returns whether provider data
// was applied.
func applyBasePrice(bid *models.BidAnnouncement, quote *models.RawPriceQuote) bool {
	if quote != nil {
		basic := ParseAmount(quote.BasicPriceRaw)
		if basic.Sign() != 0 {
			bid.BasicPrice = basic
			bid.BidRange = ParseRangeMagnitude(quote.RangeEndRaw)
			return true
		}
	}

	if bid.EstimatePrice != nil {
		bid.BasicPrice = fallbackBasicPrice(bid.EstimatePrice)
	}
	return false
}

// fallbackBasicPrice computes round(estimate * 1.1) in exact integer math.
func fallbackBasicPrice(estimate *big.Int) *big.Int {
	n := new(big.Int).Mul(estimate, big.NewInt(11))
	n.Add(n, big.NewInt(5))
	return n.Div(n, big.NewInt(10))
}
