package yahoo

// --- v10 quoteSummary API ---

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *yfError             `json:"error"`
	} `json:"quoteSummary"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price                *yfPrice                `json:"price"`
	SummaryDetail        *yfSummaryDetail        `json:"summaryDetail"`
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`
	AssetProfile         *yfAssetProfile         `json:"assetProfile"`
}

// yfVal wraps Yahoo's {raw, fmt} value objects. Raw stays nil when the
// field is absent or delivered as an empty object, which Yahoo does for
// metrics it cannot compute (negative-earnings P/E, for one).
type yfVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type yfPrice struct {
	ShortName          string `json:"shortName"`
	LongName           string `json:"longName"`
	RegularMarketPrice yfVal  `json:"regularMarketPrice"`
	MarketCap          yfVal  `json:"marketCap"`
	Currency           string `json:"currency"`
}

type yfSummaryDetail struct {
	MarketCap  yfVal `json:"marketCap"`
	TrailingPE yfVal `json:"trailingPE"`
	ForwardPE  yfVal `json:"forwardPE"`
	Beta       yfVal `json:"beta"`
}

type yfDefaultKeyStatistics struct {
	ForwardPE   yfVal `json:"forwardPE"`
	PegRatio    yfVal `json:"pegRatio"`
	TrailingEps yfVal `json:"trailingEps"`
	Beta        yfVal `json:"beta"`
}

type yfAssetProfile struct {
	Industry string `json:"industry"`
	Sector   string `json:"sector"`
}
