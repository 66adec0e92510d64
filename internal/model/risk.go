package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// RiskLevel is an ordered severity with numeric weights Low=1, Medium=2, High=3
type RiskLevel int

const (
	RiskLow    RiskLevel = 1
	RiskMedium RiskLevel = 2
	RiskHigh   RiskLevel = 3
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Weight returns the numeric value used in risk averaging
func (l RiskLevel) Weight() float64 {
	return float64(l)
}

// Valid reports whether l is one of the three named levels
func (l RiskLevel) Valid() bool {
	return l >= RiskLow && l <= RiskHigh
}

// ParseRiskLevel parses "low", "medium" or "high" (case-insensitive)
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	default:
		return 0, eris.Errorf("unknown risk level: %q", s)
	}
}

// LevelForMean maps an averaged weight onto a level using the given cutoffs
func LevelForMean(mean, highThreshold, mediumThreshold float64) RiskLevel {
	switch {
	case mean >= highThreshold:
		return RiskHigh
	case mean >= mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// MarshalJSON encodes the level by name
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, eris.Errorf("invalid risk level: %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its name
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
