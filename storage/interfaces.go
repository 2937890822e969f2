package storage

import (
	"context"
	"math/big"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
)

// BidStore is the persistence surface the pipeline needs: keyed dedup
// lookups, one atomic bulk insert per batch, and in-place price updates for
// the repair pass.
type BidStore interface {
	// FindExistingRealIDs returns which of the given natural keys are
	// already stored, as a set.
	FindExistingRealIDs(ctx context.Context, realIDs []string) (map[string]struct{}, error)

	// InsertBatch persists the announcements atomically and returns the
	// subset actually inserted, with surrogate ids assigned, in input order.
	InsertBatch(ctx context.Context, bids []*models.BidAnnouncement) ([]*models.BidAnnouncement, error)

	// FindIncomplete returns stored announcements whose deadline is after
	// now and whose bid range is still at its default.
	FindIncomplete(ctx context.Context, now time.Time) ([]*models.BidAnnouncement, error)

	// UpdateBasePrice overwrites basic price and bid range for one record,
	// only if the record is still incomplete. Returns whether a row changed.
	UpdateBasePrice(ctx context.Context, id int64, basicPrice *big.Int, bidRange float64) (bool, error)

	// FetchAll retrieves every stored announcement, oldest first.
	FetchAll(ctx context.Context) ([]*models.BidAnnouncement, error)

	Close() error
}

// SnapshotWriter persists the raw, pre-parse form of a fetched batch.
type SnapshotWriter interface {
	WriteRaw(notices []*models.RawNotice) error
	Close() error
}
