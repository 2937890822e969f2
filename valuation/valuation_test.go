package valuation

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

func TestRequestAnalysisPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %q; want /predict", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bid := &models.BidAnnouncement{
		ID:             7,
		RealID:         "20240101001-00",
		EstimatePrice:  big.NewInt(1000000),
		BasicPrice:     big.NewInt(1100000),
		MinimumBidRate: 87.745,
		BidRange:       3.0,
	}

	c := New(srv.URL, utils.NewLogger(false))
	if err := c.RequestAnalysis(context.Background(), bid); err != nil {
		t.Fatalf("RequestAnalysis: %v", err)
	}

	if got["bidRealId"] != "20240101001-00" {
		t.Errorf("bidRealId = %v", got["bidRealId"])
	}
	if got["basicPrice"] != float64(1100000) {
		t.Errorf("basicPrice = %v", got["basicPrice"])
	}
	if got["bidId"] != float64(7) {
		t.Errorf("bidId = %v", got["bidId"])
	}
}

func TestRequestAnalysisNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, utils.NewLogger(false))
	bid := &models.BidAnnouncement{RealID: "20240101001-00"}
	if err := c.RequestAnalysis(context.Background(), bid); err == nil {
		t.Fatal("expected error on 503 response")
	}
}
