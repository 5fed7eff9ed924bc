package yahoo

import (
	"encoding/json"
	"testing"
)

const quoteSummaryFixture = `{
  "quoteSummary": {
    "result": [
      {
        "price": {
          "shortName": "Acme",
          "longName": "Acme Corporation",
          "regularMarketPrice": {"raw": 101.5, "fmt": "101.50"},
          "marketCap": {"raw": 2.5e12, "fmt": "2.5T"},
          "currency": "USD"
        },
        "summaryDetail": {
          "trailingPE": {"raw": 28.4, "fmt": "28.40"},
          "forwardPE": {"raw": 21.1, "fmt": "21.10"},
          "beta": {"raw": 1.2, "fmt": "1.20"}
        },
        "defaultKeyStatistics": {
          "pegRatio": {"raw": 1.8, "fmt": "1.80"},
          "forwardPE": {"raw": 20.9, "fmt": "20.90"}
        },
        "assetProfile": {
          "sector": "Technology",
          "industry": "Consumer Electronics"
        }
      }
    ],
    "error": null
  }
}`

func TestBuildSnapshot(t *testing.T) {
	var resp quoteSummaryResponse
	if err := json.Unmarshal([]byte(quoteSummaryFixture), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	snap := buildSnapshot("ACME", &resp.QuoteSummary.Result[0])

	if snap.Ticker != "ACME" || snap.Name != "Acme Corporation" {
		t.Errorf("identity: %q %q", snap.Ticker, snap.Name)
	}
	if snap.Sector != "Technology" || snap.Industry != "Consumer Electronics" {
		t.Errorf("profile: %q %q", snap.Sector, snap.Industry)
	}
	if snap.TrailingPE == nil || *snap.TrailingPE != 28.4 {
		t.Errorf("trailing PE: %v", snap.TrailingPE)
	}
	// summaryDetail wins over defaultKeyStatistics.
	if snap.ForwardPE == nil || *snap.ForwardPE != 21.1 {
		t.Errorf("forward PE: %v", snap.ForwardPE)
	}
	if snap.PEGRatio == nil || *snap.PEGRatio != 1.8 {
		t.Errorf("PEG: %v", snap.PEGRatio)
	}
	if snap.Price == nil || *snap.Price != 101.5 {
		t.Errorf("price: %v", snap.Price)
	}
}

func TestBuildSnapshotMissingMetrics(t *testing.T) {
	// Yahoo sends empty objects for metrics it cannot compute.
	raw := `{
	  "quoteSummary": {
	    "result": [
	      {
	        "price": {"shortName": "ZZZ Corp", "regularMarketPrice": {"raw": 4.2}},
	        "summaryDetail": {"trailingPE": {}, "forwardPE": {}},
	        "defaultKeyStatistics": {"forwardPE": {}}
	      }
	    ]
	  }
	}`
	var resp quoteSummaryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	snap := buildSnapshot("ZZZ", &resp.QuoteSummary.Result[0])

	if snap.TrailingPE != nil || snap.ForwardPE != nil {
		t.Errorf("expected nil multiples, got %v %v", snap.TrailingPE, snap.ForwardPE)
	}
	if snap.Name != "ZZZ Corp" {
		t.Errorf("short name fallback: %q", snap.Name)
	}
	if snap.Price == nil || *snap.Price != 4.2 {
		t.Errorf("price: %v", snap.Price)
	}
}

func TestBuildSnapshotMarketCapFallback(t *testing.T) {
	raw := `{
	  "quoteSummary": {
	    "result": [
	      {
	        "price": {"shortName": "X"},
	        "summaryDetail": {"marketCap": {"raw": 1000000}}
	      }
	    ]
	  }
	}`
	var resp quoteSummaryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	snap := buildSnapshot("X", &resp.QuoteSummary.Result[0])
	if snap.MarketCap == nil || *snap.MarketCap != 1000000 {
		t.Errorf("market cap fallback: %v", snap.MarketCap)
	}
}
