package model

// Tunables collects every named constant in the specification that a
// scenario may override. Zero-value fields are filled in by
// DefaultTunables; scenario configuration only needs to set the ones it
// wants to change.
type Tunables struct {
	PlayerPaceMin            float64 // minutes per hole of golfer advance
	CartPreferenceWindowMin  float64 // eta below which a cart earns the bonus
	SoonAvailableMin         float64 // asset counted as candidate if free within this many minutes
	AdjacentHoleThreshold    int     // max pairwise hole distance inside a batch
	BatchDeliveryTimePenalty float64 // minutes added per extra order in a batch
	BatchEfficiencyBonus     float64 // multiplier applied per extra order, compounding (§9b)
	OfferWindowSec           float64 // simulated seconds an offer stays open
	MaxRetries               int     // decline-cascade exhaustion cap
	RetryBackoffSec          float64 // simulated seconds before a re-queued order is revisited
}

// DefaultTunables returns the specification's defaults.
func DefaultTunables() Tunables {
	return Tunables{
		PlayerPaceMin:            15,
		CartPreferenceWindowMin:  10,
		SoonAvailableMin:         3,
		AdjacentHoleThreshold:    2,
		BatchDeliveryTimePenalty: 2,
		BatchEfficiencyBonus:     0.85,
		OfferWindowSec:           15,
		MaxRetries:               3,
		RetryBackoffSec:          60,
	}
}

// WithDefaults returns a copy of t with every zero-value field replaced by
// the specification default, so partially-specified scenario overrides
// behave sensibly.
func (t Tunables) WithDefaults() Tunables {
	d := DefaultTunables()
	if t.PlayerPaceMin == 0 {
		t.PlayerPaceMin = d.PlayerPaceMin
	}
	if t.CartPreferenceWindowMin == 0 {
		t.CartPreferenceWindowMin = d.CartPreferenceWindowMin
	}
	if t.SoonAvailableMin == 0 {
		t.SoonAvailableMin = d.SoonAvailableMin
	}
	if t.AdjacentHoleThreshold == 0 {
		t.AdjacentHoleThreshold = d.AdjacentHoleThreshold
	}
	if t.BatchDeliveryTimePenalty == 0 {
		t.BatchDeliveryTimePenalty = d.BatchDeliveryTimePenalty
	}
	if t.BatchEfficiencyBonus == 0 {
		t.BatchEfficiencyBonus = d.BatchEfficiencyBonus
	}
	if t.OfferWindowSec == 0 {
		t.OfferWindowSec = d.OfferWindowSec
	}
	if t.MaxRetries == 0 {
		t.MaxRetries = d.MaxRetries
	}
	if t.RetryBackoffSec == 0 {
		t.RetryBackoffSec = d.RetryBackoffSec
	}
	return t
}
