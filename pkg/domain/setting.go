package domain

import "time"

// Setting represents a key-value configuration setting
type Setting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SettingKeyMinConfidence is the settings key holding the detection confidence threshold
const SettingKeyMinConfidence = "pref_key_min_confidence"

// DefaultConfidence is used when no confidence threshold was stored yet
const DefaultConfidence = 0.5
