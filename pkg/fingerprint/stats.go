package fingerprint

import "fmt"

// Stats tallies how many suffix searches bore fruit, per spec.md §4.2.3.
// It is purely diagnostic (the --stats CLI flag) and never affects the
// emitted fingerprints.
type Stats struct {
	PrefixFruitful   int
	PrefixFruitless  int
	FeatureFound     int
	FeatureFruitless int
}

func (s Stats) merge(other Stats) Stats {
	return Stats{
		PrefixFruitful:   s.PrefixFruitful + other.PrefixFruitful,
		PrefixFruitless:  s.PrefixFruitless + other.PrefixFruitless,
		FeatureFound:     s.FeatureFound + other.FeatureFound,
		FeatureFruitless: s.FeatureFruitless + other.FeatureFruitless,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"prefix: %d fruitful, %d fruitless | feature: %d found, %d fruitless",
		s.PrefixFruitful, s.PrefixFruitless, s.FeatureFound, s.FeatureFruitless,
	)
}
