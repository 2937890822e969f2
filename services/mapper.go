package services

import (
	"math/big"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// noticeTimeLayout is the datetime format of listing begin/close/open fields.
const noticeTimeLayout = "2006-01-02 15:04:05"

// Mapper converts raw provider notices into candidate announcements.
type Mapper struct {
	logger *utils.Logger
}

// NewMapper creates a Mapper with the given logger.
func NewMapper(logger *utils.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// Map builds candidates from raw notices, preserving order. Notices without
// a notice number are dropped, and a natural key repeated within the same
// window is taken once. Every scalar field degrades to a default on
// malformed input; no notice is ever dropped for a bad amount or date.
func (m *Mapper) Map(raw []*models.RawNotice) []*models.BidAnnouncement {
	seen := utils.NewKeySet()
	result := make([]*models.BidAnnouncement, 0, len(raw))

	for _, r := range raw {
		if r.NoticeNo == "" {
			m.logger.Warn("[mapper] Dropping notice with empty notice number: %s", r.Name)
			continue
		}
		if !seen.Add(r.RealID()) {
			m.logger.Debug("[mapper] Duplicate key in window skipped: %s", r.RealID())
			continue
		}
		result = append(result, m.toCandidate(r))
	}

	m.logger.Info("[mapper] Mapped %d → %d candidates (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

func (m *Mapper) toCandidate(r *models.RawNotice) *models.BidAnnouncement {
	estimate := ParseAmount(r.EstimatePriceRaw)

	// Provisional basic price until enrichment: the listing's own base
	// amount when present, otherwise estimate plus VAT.
	basic := ParseAmount(r.BasicPriceRaw)
	if basic.Sign() == 0 {
		basic = new(big.Int).Add(estimate, ParseAmount(r.VATRaw))
	}

	return &models.BidAnnouncement{
		RealID:         r.RealID(),
		Name:           r.Name,
		Organization:   r.Organization,
		Region:         r.Region,
		DetailURL:      r.DetailURL,
		ReportURL:      r.ReportURL,
		ReportFile:     r.ReportFile,
		StartDate:      ParseTime(r.BeginDateRaw, noticeTimeLayout),
		EndDate:        ParseTime(r.CloseDateRaw, noticeTimeLayout),
		OpenDate:       ParseTime(r.OpenDateRaw, noticeTimeLayout),
		EstimatePrice:  estimate,
		BasicPrice:     basic,
		MinimumBidRate: ParsePercent(r.MinimumBidRateRaw),
		BidRange:       ParseRangeMagnitude(r.RangeEndRaw),
		CreatedAt:      r.FetchedAt,
	}
}
