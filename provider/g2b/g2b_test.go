package g2b

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/config"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

func testClient(srv *httptest.Server) *Client {
	cfg := &config.Config{
		ServiceKey:        "test-key",
		ListingURL:        srv.URL + "/listing",
		RegionURL:         srv.URL + "/region",
		PriceURL:          srv.URL + "/price",
		ListingRows:       200,
		DetailRows:        10,
		RequestTimeoutSec: 5,
	}
	return New(cfg, utils.NewLogger(false))
}

func TestFetchListingsArrayEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("inqryDiv"); got != "1" {
			t.Errorf("inqryDiv = %q; want %q", got, "1")
		}
		if got := r.URL.Query().Get("numOfRows"); got != "200" {
			t.Errorf("numOfRows = %q; want %q", got, "200")
		}
		w.Write([]byte(`{"response":{"body":{"items":[
			{"bidNtceNo":"20240101001","bidNtceOrd":"00","bidNtceNm":"도로 보수공사","presmptPrce":"1000000"},
			{"bidNtceNo":"20240101002","bidNtceOrd":"01","bidNtceNm":"교량 점검","presmptPrce":"2000000"}
		]}}}`))
	}))
	defer srv.Close()

	notices, err := testClient(srv).FetchListings(context.Background(), time.Now(), time.Now())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("got %d notices; want 2", len(notices))
	}
	if notices[0].RealID() != "20240101001-00" {
		t.Errorf("RealID = %q", notices[0].RealID())
	}
	if notices[1].EstimatePriceRaw != "2000000" {
		t.Errorf("EstimatePriceRaw = %q", notices[1].EstimatePriceRaw)
	}
}

func TestFetchListingsSingleObjectEnvelope(t *testing.T) {
	// With exactly one result the provider collapses items to an object.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":
			{"bidNtceNo":"20240101001","bidNtceOrd":"00","bidNtceNm":"단일 공고"}
		}}}}`))
	}))
	defer srv.Close()

	notices, err := testClient(srv).FetchListings(context.Background(), time.Now(), time.Now())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(notices) != 1 || notices[0].Name != "단일 공고" {
		t.Fatalf("got %+v; want one notice", notices)
	}
}

func TestFetchListingsEmptyItems(t *testing.T) {
	for _, items := range []string{`""`, `null`, `[]`, `{}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"body":{"items":` + items + `}}}`))
		}))

		notices, err := testClient(srv).FetchListings(context.Background(), time.Now(), time.Now())
		srv.Close()
		if err != nil {
			t.Errorf("items=%s: unexpected error %v", items, err)
		}
		if len(notices) != 0 {
			t.Errorf("items=%s: got %d notices; want 0", items, len(notices))
		}
	}
}

func TestFetchListingsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv).FetchListings(context.Background(), time.Now(), time.Now()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestFetchRegionsJoinsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("bidNtceOrd"); got != "00" {
			t.Errorf("bidNtceOrd = %q; want %q", got, "00")
		}
		w.Write([]byte(`{"response":{"body":{"items":[
			{"prtcptPsblRgnNm":"서울특별시"},{"prtcptPsblRgnNm":"경기도"}
		]}}}`))
	}))
	defer srv.Close()

	regions, err := testClient(srv).FetchRegions(context.Background(), "20240101001", "00")
	if err != nil {
		t.Fatalf("FetchRegions: %v", err)
	}
	if len(regions) != 2 || regions[0] != "서울특별시" || regions[1] != "경기도" {
		t.Fatalf("regions = %v", regions)
	}
}

func TestFetchBasePriceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	quote, err := testClient(srv).FetchBasePrice(context.Background(), "20240101001", "00")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if quote != nil {
		t.Fatalf("quote = %+v; want nil", quote)
	}
}

func TestFetchBasePriceSingleItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":
			{"bssamt":"1500000","rsrvtnPrceRngEndRate":"-3"}
		}}}}`))
	}))
	defer srv.Close()

	quote, err := testClient(srv).FetchBasePrice(context.Background(), "20240101001", "00")
	if err != nil {
		t.Fatalf("FetchBasePrice: %v", err)
	}
	if quote == nil || quote.BasicPriceRaw != "1500000" || quote.RangeEndRaw != "-3" {
		t.Fatalf("quote = %+v", quote)
	}
}
