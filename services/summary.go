package services

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(bids []*models.BidAnnouncement) *models.StoreReport {
	report := &models.StoreReport{
		ByRegion: make(map[string]int),
	}

	if len(bids) == 0 {
		return report
	}

	report.Total = len(bids)

	var priced []*models.BidAnnouncement
	var upcoming []*models.BidAnnouncement
	now := time.Now()

	for _, b := range bids {
		if b.Incomplete() {
			report.Incomplete++
		}
		if b.BasicPrice != nil && b.BasicPrice.Sign() > 0 {
			priced = append(priced, b)
		}
		if b.EndDate != nil && b.EndDate.After(now) {
			upcoming = append(upcoming, b)
		}
		if b.Region != "" {
			report.ByRegion[b.Region]++
		}
	}

	// Basic-price stats (only announcements with a positive basic price)
	if len(priced) > 0 {
		sum := new(big.Int)
		report.MinBasic = new(big.Int).Set(priced[0].BasicPrice)
		report.MaxBasic = new(big.Int).Set(priced[0].BasicPrice)
		report.HighestValue = priced[0]
		for _, b := range priced {
			sum.Add(sum, b.BasicPrice)
			if b.BasicPrice.Cmp(report.MinBasic) < 0 {
				report.MinBasic.Set(b.BasicPrice)
			}
			if b.BasicPrice.Cmp(report.MaxBasic) > 0 {
				report.MaxBasic.Set(b.BasicPrice)
				report.HighestValue = b
			}
		}
		report.AverageBasic = sum.Div(sum, big.NewInt(int64(len(priced))))
	}

	// Next 5 closing deadlines
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].EndDate.Before(*upcoming[j].EndDate)
	})
	if len(upcoming) > 5 {
		report.ClosingSoon = upcoming[:5]
	} else {
		report.ClosingSoon = upcoming
	}

	return report
}

func (s *SummaryService) Print(r *models.StoreReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📋 BID ANNOUNCEMENT STORE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Stored announcements : \033[1m%d\033[0m\n", r.Total)
	fmt.Printf("  Awaiting base price  : \033[1m%d\033[0m\n", r.Incomplete)
	fmt.Println()

	// Basic-price stats
	fmt.Printf("\033[1;33m  Basic Price (KRW)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AverageBasic != nil {
		fmt.Printf("  Average : \033[1;32m%s\033[0m\n", formatKRW(r.AverageBasic))
		fmt.Printf("  Minimum : \033[1;32m%s\033[0m\n", formatKRW(r.MinBasic))
		fmt.Printf("  Maximum : \033[1;32m%s\033[0m\n", formatKRW(r.MaxBasic))
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Highest-value announcement
	if r.HighestValue != nil {
		fmt.Printf("\033[1;33m  Highest-Value Announcement\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.HighestValue.Name, 50))
		fmt.Printf("  Organization : %s\n", r.HighestValue.Organization)
		fmt.Printf("  Basic price  : \033[1;31m%s\033[0m\n", formatKRW(r.HighestValue.BasicPrice))
		fmt.Println()
	}

	// Closing soon
	if len(r.ClosingSoon) > 0 {
		fmt.Printf("\033[1;33m  Closing Soon\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for i, b := range r.ClosingSoon {
			fmt.Printf("  %d. [%s] %s\n", i+1,
				b.EndDate.Format("2006-01-02 15:04"), truncate(b.Name, 40))
		}
		fmt.Println()
	}

	// By region
	if len(r.ByRegion) > 0 {
		fmt.Printf("\033[1;33m  Announcements by Region\033[0m\n")
		fmt.Printf("  %s\n", thin)

		regions := make([]string, 0, len(r.ByRegion))
		for region := range r.ByRegion {
			regions = append(regions, region)
		}
		sort.Slice(regions, func(i, j int) bool {
			return r.ByRegion[regions[i]] > r.ByRegion[regions[j]]
		})
		for _, region := range regions {
			fmt.Printf("  %-30s %d\n", truncate(region, 28), r.ByRegion[region])
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// formatKRW renders an amount with thousands separators.
func formatKRW(n *big.Int) string {
	s := n.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	out := b.String() + "원"
	if neg {
		out = "-" + out
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "..."
}
