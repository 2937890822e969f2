package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// Client dispatches analysis requests to the downstream valuation service.
// The pipeline never reads the valuation result back; success here means
// the request was accepted.
type Client struct {
	baseURL string
	logger  *utils.Logger
	http    *http.Client
}

// New creates a valuation client for the given base URL.
func New(baseURL string, logger *utils.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		logger:  logger,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// analysisRequest carries only what the predictor needs.
type analysisRequest struct {
	BidID          int64      `json:"bidId"`
	BidRealID      string     `json:"bidRealId"`
	EstimatePrice  *big.Int   `json:"estimatePrice"`
	BasicPrice     *big.Int   `json:"basicPrice"`
	SuccessBidRate float64    `json:"successBidRate"`
	BidRange       float64    `json:"bidRange"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	OpenDate       *time.Time `json:"openDate,omitempty"`
}

// RequestAnalysis asks the valuation service to analyze one persisted
// announcement.
func (c *Client) RequestAnalysis(ctx context.Context, bid *models.BidAnnouncement) error {
	payload := analysisRequest{
		BidID:          bid.ID,
		BidRealID:      bid.RealID,
		EstimatePrice:  bid.EstimatePrice,
		BasicPrice:     bid.BasicPrice,
		SuccessBidRate: bid.MinimumBidRate,
		BidRange:       bid.BidRange,
		EndDate:        bid.EndDate,
		OpenDate:       bid.OpenDate,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("valuation: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("valuation: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("valuation: request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("valuation: unexpected status %d", resp.StatusCode)
	}

	c.logger.Debug("[valuation] analysis requested for %s", bid.RealID)
	return nil
}
