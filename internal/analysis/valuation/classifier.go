// Package valuation buckets a market snapshot into a price tier and detects
// whether the market is pricing in earnings growth.
package valuation

import (
	"github.com/edgarsift/edgarsift/pkg/models"
)

// Trailing P/E tier boundaries. Bands are left-closed/right-open except the
// top band, which is unbounded.
const (
	cheapBelow      = 12.0
	reasonableBelow = 25.0
	expensiveBelow  = 40.0
)

// Classify returns the valuation tier and whether forward earnings improve.
//
// The tier comes from trailing P/E alone; a missing or non-positive P/E maps
// to TierUnknown. ForwardImproves is true only when both trailing and forward
// P/E are present and forward is strictly lower — with any value missing it
// is false, never unknown, because forward improvement only ever acts as a
// positive signal.
func Classify(snap *models.ValuationSnapshot) (models.ValuationTier, bool) {
	if snap == nil {
		return models.TierUnknown, false
	}

	tier := models.TierUnknown
	if snap.TrailingPE != nil && *snap.TrailingPE > 0 {
		switch pe := *snap.TrailingPE; {
		case pe < cheapBelow:
			tier = models.TierCheap
		case pe < reasonableBelow:
			tier = models.TierReasonable
		case pe < expensiveBelow:
			tier = models.TierExpensive
		default:
			tier = models.TierVeryExpensive
		}
	}

	forwardImproves := snap.TrailingPE != nil && snap.ForwardPE != nil &&
		*snap.ForwardPE < *snap.TrailingPE

	return tier, forwardImproves
}
