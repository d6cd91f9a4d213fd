// Package model defines shared data structures.
package model

import "time"

// TxConfig is the persisted transmitter configuration.
type TxConfig struct {
	WPM    int `json:"wpm"`
	Eff    int `json:"eff"`
	Freq   int `json:"freq"`
	Volume int `json:"volume"`
}

// PlaybackParams overrides TxConfig for a single transmission. Nil fields
// fall back to the persisted configuration.
type PlaybackParams struct {
	// WPM overrides the character speed.
	WPM *int
	// Eff overrides the effective (Farnsworth) speed; 0 disables it.
	Eff *int
	// Freq overrides the tone frequency in Hz.
	Freq *int
	// Volume overrides the volume, 0-100.
	Volume *int
}

// Resolve applies the overrides on top of cfg.
func (p PlaybackParams) Resolve(cfg TxConfig) TxConfig {
	if p.WPM != nil {
		cfg.WPM = *p.WPM
	}
	if p.Eff != nil {
		cfg.Eff = *p.Eff
	}
	if p.Freq != nil {
		cfg.Freq = *p.Freq
	}
	if p.Volume != nil {
		cfg.Volume = *p.Volume
	}
	return cfg
}

// StatsConfig defines filters for history reports.
type StatsConfig struct {
	Since *time.Time
	Last  int
	// Lesson limits the report to one lesson; -1 means all rounds and 0
	// means custom rounds only.
	Lesson int
}

// RoundStats captures a completed practice round.
type RoundStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Lesson     int
	MainChar   string
	GroupCount int
	WPM        int
	Eff        int
	Passed     bool
	Total      int
	Errors     int
}

// CharStats stores per-character counters for a round.
type CharStats struct {
	Char   string
	Total  int
	Errors int
}

// CharAggregate aggregates character stats across rounds.
type CharAggregate struct {
	Char   string
	Total  int
	Errors int
}

// RoundAggregate summarizes a round for reporting.
type RoundAggregate struct {
	RoundID  string
	EndedAt  time.Time
	Lesson   int
	MainChar string
	Passed   bool
	Total    int
	Errors   int
}
