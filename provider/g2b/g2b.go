package g2b

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/config"
	"github.com/HyeongmoKim/BidAssistance-BE/models"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
)

// windowLayout is the provider's inquiry-window datetime format.
const windowLayout = "200601021504"

// ErrNotFound marks a provider response that says the requested data does
// not exist (yet). For the base-price endpoint this is expected, not a
// failure.
var ErrNotFound = errors.New("g2b: not found")

// Client talks to the three G2B open-data endpoints: the construction-work
// listing, the permitted-region lookup, and the base-price lookup.
type Client struct {
	cfg    *config.Config
	logger *utils.Logger
	http   *http.Client
}

// New creates a ready-to-use provider client.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
	}
}

// FetchListings calls the listing endpoint for the [from, to] window and
// returns the raw notice items. An empty window is a nil slice, not an
// error; any transport or envelope failure is an error and aborts the batch.
func (c *Client) FetchListings(ctx context.Context, from, to time.Time) ([]*models.RawNotice, error) {
	params := c.baseParams()
	params.Set("numOfRows", strconv.Itoa(c.cfg.ListingRows))
	params.Set("inqryDiv", "1")
	params.Set("inqryBgnDt", from.Format(windowLayout))
	params.Set("inqryEndDt", to.Format(windowLayout))

	items, err := getItems[models.RawNotice](ctx, c, c.cfg.ListingURL, params)
	if err != nil {
		return nil, fmt.Errorf("listing call: %w", err)
	}

	now := time.Now()
	notices := make([]*models.RawNotice, 0, len(items))
	for i := range items {
		items[i].FetchedAt = now
		notices = append(notices, &items[i])
	}

	c.logger.Debug("[g2b] listing window %s..%s returned %d notices",
		from.Format(windowLayout), to.Format(windowLayout), len(notices))
	return notices, nil
}

// FetchRegions returns the permitted-region names for a notice. No items
// means no restriction; the caller maps that to the nationwide sentinel.
func (c *Client) FetchRegions(ctx context.Context, noticeNo, noticeOrd string) ([]string, error) {
	params := c.baseParams()
	params.Set("numOfRows", strconv.Itoa(c.cfg.DetailRows))
	params.Set("inqryDiv", "2")
	params.Set("bidNtceNo", noticeNo)
	params.Set("bidNtceOrd", noticeOrd)

	type regionItem struct {
		Name string `json:"prtcptPsblRgnNm"`
	}
	items, err := getItems[regionItem](ctx, c, c.cfg.RegionURL, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("region call: %w", err)
	}

	regions := make([]string, 0, len(items))
	for _, it := range items {
		if it.Name != "" {
			regions = append(regions, it.Name)
		}
	}
	return regions, nil
}

// FetchBasePrice returns the base-price quote for a notice, or (nil, nil)
// when the provider has no data yet; the signal for the fallback
// computation. Only the first item matters; the endpoint returns at most
// one per notice in practice.
func (c *Client) FetchBasePrice(ctx context.Context, noticeNo, noticeOrd string) (*models.RawPriceQuote, error) {
	params := c.baseParams()
	params.Set("numOfRows", strconv.Itoa(c.cfg.DetailRows))
	params.Set("inqryDiv", "2")
	params.Set("bidNtceNo", noticeNo)
	params.Set("bidNtceOrd", noticeOrd)

	items, err := getItems[models.RawPriceQuote](ctx, c, c.cfg.PriceURL, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("base-price call: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("serviceKey", c.cfg.ServiceKey)
	params.Set("pageNo", "1")
	params.Set("type", "json")
	return params
}

// getItems performs one GET against a provider endpoint and decodes the
// envelope's items node.
func getItems[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return decodeItems[T](env.Response.Body.Items)
}
