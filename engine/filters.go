package engine

import (
	"strings"
	"time"
)

// ============================================================================
// FILTERS: Single-pass record narrowing
// ============================================================================
// Each filter returns a new slice and never widens its input, so filters
// compose in any order. Empty criteria pass everything through.
// ============================================================================

// TrackingMode selects records by tracking code.
type TrackingMode string

const (
	TrackingAll         TrackingMode = "all"
	TrackingDefaultOnly TrackingMode = "default"
	TrackingCustomOnly  TrackingMode = "custom"
)

// ParseTrackingMode maps user input to a TrackingMode; unknown input is All.
func ParseTrackingMode(s string) TrackingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "default_only", "organic":
		return TrackingDefaultOnly
	case "custom", "custom_only", "tagged":
		return TrackingCustomOnly
	}
	return TrackingAll
}

// FilterByName keeps records whose customer name contains substr,
// case-insensitively.
func FilterByName(records []Record, substr string) []Record {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return cloneRecords(records)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.CustomerName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByTracking keeps organic records, tagged records, or everything.
func FilterByTracking(records []Record, mode TrackingMode) []Record {
	if mode != TrackingDefaultOnly && mode != TrackingCustomOnly {
		return cloneRecords(records)
	}

	wantDefault := mode == TrackingDefaultOnly
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IsDefaultTracking() == wantDefault {
			out = append(out, r)
		}
	}
	return out
}

// DateRange bounds the effective date. Both ends are inclusive; a zero end
// is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsEmpty reports whether neither end is set.
func (d DateRange) IsEmpty() bool { return d.From.IsZero() && d.To.IsZero() }

// Contains reports whether t lies within the range.
func (d DateRange) Contains(t time.Time) bool {
	if !d.From.IsZero() && t.Before(d.From) {
		return false
	}
	if !d.To.IsZero() && t.After(d.To) {
		return false
	}
	return true
}

// FilterByDateRange keeps records whose effective date falls in rng.
// With any bound set, records without a valid effective date are dropped.
func FilterByDateRange(records []Record, rng DateRange) []Record {
	if rng.IsEmpty() {
		return cloneRecords(records)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		eff := r.EffectiveDate()
		if eff.Valid() && rng.Contains(eff.Time()) {
			out = append(out, r)
		}
	}
	return out
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
