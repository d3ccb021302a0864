package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRiskTier is returned when a tier string is not low, medium or high.
var ErrUnknownRiskTier = errors.New("unknown risk tier")

// RiskTier indicates the microplastic concern level of a product.
type RiskTier string

// Risk tier constants.
const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// ParseRiskTier canonicalizes a tier string. Matching is case-insensitive and
// ignores surrounding whitespace; anything else is rejected rather than coerced.
func ParseRiskTier(s string) (RiskTier, error) {
	switch RiskTier(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskHigh:
		return RiskHigh, nil
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: missing", ErrUnknownRiskTier)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRiskTier, s)
}

// Weight orders tiers for ranking: low=1, medium=2, high=3. Unknown tiers weigh 0.
func (r RiskTier) Weight() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known tiers.
func (r RiskTier) Valid() bool {
	return r.Weight() > 0
}

// SaferThan reports whether r carries strictly less risk than other.
func (r RiskTier) SaferThan(other RiskTier) bool {
	return r.Valid() && r.Weight() < other.Weight()
}

func (r RiskTier) String() string {
	return string(r)
}
