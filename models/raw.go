package models

import "time"

// RawNotice holds one listing item exactly as the provider returned it,
// before any parsing or normalization. Field tags follow the provider's
// wire names. This is what the batch snapshot records.
type RawNotice struct {
	NoticeNo     string `json:"bidNtceNo"`
	NoticeOrd    string `json:"bidNtceOrd"`
	Name         string `json:"bidNtceNm"`
	Organization string `json:"dminsttNm"`

	BeginDateRaw string `json:"bidBeginDt"`
	CloseDateRaw string `json:"bidClseDt"`
	OpenDateRaw  string `json:"opengDt"`

	ReportURL  string `json:"ntceSpecDocUrl1"`
	ReportFile string `json:"ntceSpecFileNm1"`
	DetailURL  string `json:"bidNtceDtlUrl"`
	Region     string `json:"constPlceNm"`

	EstimatePriceRaw  string `json:"presmptPrce"`
	VATRaw            string `json:"VAT"`
	BasicPriceRaw     string `json:"bssamt"`
	MinimumBidRateRaw string `json:"sucsfbidLwltRate"`
	RangeEndRaw       string `json:"rsrvtnPrceRngEndRate"`

	FetchedAt time.Time `json:"-"`
}

// RealID is the provider's natural key for the notice. A missing ordinal
// means the first publication, "00".
func (r *RawNotice) RealID() string {
	ord := r.NoticeOrd
	if ord == "" {
		ord = "00"
	}
	return r.NoticeNo + "-" + ord
}

// RawPriceQuote is one base-price provider item, still unparsed.
type RawPriceQuote struct {
	BasicPriceRaw string `json:"bssamt"`
	RangeEndRaw   string `json:"rsrvtnPrceRngEndRate"`
}
