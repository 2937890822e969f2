package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// RegionNationwide is the sentinel stored when the provider reports no
// region restriction (or the region lookup fails).
const RegionNationwide = "전국"

// BidAnnouncement is a public-procurement bid notice. The natural key is
// RealID (notice number + "-" + notice order); the surrogate ID is assigned
// by the store on insert.
type BidAnnouncement struct {
	ID     int64
	RealID string

	Name         string
	Organization string
	Region       string
	DetailURL    string
	ReportURL    string
	ReportFile   string

	// Nullable: a date the provider omitted or garbled stays nil.
	StartDate *time.Time
	EndDate   *time.Time
	OpenDate  *time.Time

	EstimatePrice  *big.Int
	BasicPrice     *big.Int
	MinimumBidRate float64
	BidRange       float64

	CreatedAt time.Time
}

// NoticeKey splits RealID into the provider's base notice number and order.
// A missing order defaults to "00".
func (b *BidAnnouncement) NoticeKey() (noticeNo, noticeOrd string) {
	noticeNo, noticeOrd = b.RealID, "00"
	if i := strings.Index(b.RealID, "-"); i >= 0 {
		noticeNo = b.RealID[:i]
		if rest := b.RealID[i+1:]; rest != "" {
			noticeOrd = rest
		}
	}
	return noticeNo, noticeOrd
}

// Incomplete reports whether the record still carries the default bid
// range, i.e. the base-price lookup has not succeeded yet.
func (b *BidAnnouncement) Incomplete() bool {
	return b.BidRange == 0.0
}

// BatchReport summarizes one ingest batch for the operator.
type BatchReport struct {
	BatchID   string
	Fetched   int
	New       int
	Saved     int
	Triggered int
}

func (r *BatchReport) String() string {
	if r.Fetched == 0 {
		return fmt.Sprintf("batch %s: no data in window", r.BatchID)
	}
	if r.New == 0 {
		return fmt.Sprintf("batch %s: fetched %d, no new announcements", r.BatchID, r.Fetched)
	}
	return fmt.Sprintf("batch %s: fetched %d, new %d, saved %d, triggered %d",
		r.BatchID, r.Fetched, r.New, r.Saved, r.Triggered)
}

// StoreReport holds the computed statistics over the stored announcements.
type StoreReport struct {
	Total        int
	Incomplete   int
	AverageBasic *big.Int
	MinBasic     *big.Int
	MaxBasic     *big.Int
	HighestValue *BidAnnouncement
	ByRegion     map[string]int
	ClosingSoon  []*BidAnnouncement
}
