package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
)

// CSVWriter writes the raw provider notices of one batch to a timestamped
// CSV file, as an audit trail of what the window actually contained before
// parsing. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates a snapshot file under dir and writes the header row.
// Intermediate directories are created automatically.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	path := filepath.Join(dir,
		fmt.Sprintf("raw_notices_%s.csv", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"notice_no", "notice_ord", "name", "organization", "region",
		"estimate_price", "basic_price", "min_bid_rate", "range_end",
		"begin_dt", "close_dt", "open_dt", "detail_url", "fetched_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends the raw notices to the snapshot file.
func (c *CSVWriter) WriteRaw(notices []*models.RawNotice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range notices {
		row := []string{
			n.NoticeNo,
			n.NoticeOrd,
			n.Name,
			n.Organization,
			n.Region,
			n.EstimatePriceRaw,
			n.BasicPriceRaw,
			n.MinimumBidRateRaw,
			n.RangeEndRaw,
			n.BeginDateRaw,
			n.CloseDateRaw,
			n.OpenDateRaw,
			n.DetailURL,
			n.FetchedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
