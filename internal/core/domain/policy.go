package domain

// AutoVerifyPolicy holds the thresholds of the onboarding auto-verify gate.
// Both bounds are inclusive.
type AutoVerifyPolicy struct {
	MinConfidence float64 `json:"min_confidence"`
	MinFieldRatio float64 `json:"min_field_ratio"`
}

func DefaultAutoVerifyPolicy() AutoVerifyPolicy {
	return AutoVerifyPolicy{
		MinConfidence: 0.85,
		MinFieldRatio: 0.5,
	}
}
