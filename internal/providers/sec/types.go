package sec

import "time"

// --- Company Tickers (www.sec.gov/files/company_tickers.json) ---
// The file is a map keyed by row index: {"0": {cik_str, ticker, title}, ...}.
// cik_str is a bare number, not a string.

type tickerEntry struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// --- XBRL Company Facts (data.sec.gov/api/xbrl/companyfacts) ---

type companyFactsResponse struct {
	CIK        int                             `json:"cik"`
	EntityName string                          `json:"entityName"`
	Facts      map[string]map[string]factGroup `json:"facts"` // taxonomy -> concept -> facts
}

type factGroup struct {
	Label       string                `json:"label"`
	Description string                `json:"description"`
	Units       map[string][]factUnit `json:"units"` // unit ("USD", "shares") -> values
}

type factUnit struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"` // "Q1".."Q3", "FY"
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame,omitempty"`
}

// parseSECDate parses the date formats EDGAR responses use.
func parseSECDate(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02",
		"2006-01-02T15:04:05.000Z",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
