package services

import (
	"math/big"
	"testing"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
)

func storedBid(realID, region string, basic int64, bidRange float64) *models.BidAnnouncement {
	end := time.Now().Add(24 * time.Hour)
	return &models.BidAnnouncement{
		RealID:     realID,
		Region:     region,
		BasicPrice: big.NewInt(basic),
		BidRange:   bidRange,
		EndDate:    &end,
	}
}

func TestSummaryGenerate(t *testing.T) {
	s := NewSummaryService(newTestLogger())

	bids := []*models.BidAnnouncement{
		storedBid("20240101001-00", "서울특별시", 1000000, 3.0),
		storedBid("20240101002-00", "전국", 3000000, 0.0),
		storedBid("20240101003-00", "서울특별시", 2000000, 2.0),
	}

	r := s.Generate(bids)

	if r.Total != 3 {
		t.Errorf("Total = %d", r.Total)
	}
	if r.Incomplete != 1 {
		t.Errorf("Incomplete = %d; want 1", r.Incomplete)
	}
	if r.AverageBasic.String() != "2000000" {
		t.Errorf("AverageBasic = %s", r.AverageBasic)
	}
	if r.MinBasic.String() != "1000000" || r.MaxBasic.String() != "3000000" {
		t.Errorf("min/max = %s/%s", r.MinBasic, r.MaxBasic)
	}
	if r.HighestValue == nil || r.HighestValue.RealID != "20240101002-00" {
		t.Errorf("HighestValue = %+v", r.HighestValue)
	}
	if r.ByRegion["서울특별시"] != 2 {
		t.Errorf("ByRegion = %v", r.ByRegion)
	}
	if len(r.ClosingSoon) != 3 {
		t.Errorf("ClosingSoon = %d entries", len(r.ClosingSoon))
	}
}

func TestSummaryGenerateEmpty(t *testing.T) {
	s := NewSummaryService(newTestLogger())
	r := s.Generate(nil)
	if r.Total != 0 || r.AverageBasic != nil {
		t.Errorf("empty store report = %+v", r)
	}
}

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0원"},
		{999, "999원"},
		{1000, "1,000원"},
		{1100000, "1,100,000원"},
		{-4500, "-4,500원"},
	}

	for _, tt := range tests {
		if got := formatKRW(big.NewInt(tt.in)); got != tt.want {
			t.Errorf("formatKRW(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
