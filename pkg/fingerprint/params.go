package fingerprint

// Params configures a fingerprinting run. See spec.md §3 "Parameters".
type Params struct {
	Channel              uint16
	MaxPrefixLen         int
	RetryPercent         float64
	PrefixThresholds     []uint16
	PrefixThreshold      uint16 // set per pass by AllSubs; direct callers of FromStart set it themselves (zero rejects every prefix unless SkipPrefix)
	SkipPrefix           bool
	FeatureThreshold     uint16
	MaxFeatureLen        int
	Parallel             bool
	BatchSizeDivisor     int
	BatchIncreaseDivisor int
}

// DefaultParams returns the recognized defaults from spec.md §3.
func DefaultParams() Params {
	return Params{
		Channel:              963,
		MaxPrefixLen:         15,
		RetryPercent:         0.01,
		PrefixThresholds:     []uint16{0x002F, 0x004F, 0x008F},
		SkipPrefix:           false,
		FeatureThreshold:     0x00FF,
		MaxFeatureLen:        150,
		Parallel:             true,
		BatchSizeDivisor:     100,
		BatchIncreaseDivisor: 1000,
	}
}

// withThreshold returns a copy of p with PrefixThreshold set to t,
// used to run one escalation pass without mutating the caller's Params.
func (p Params) withThreshold(t uint16) Params {
	p.PrefixThreshold = t
	return p
}
