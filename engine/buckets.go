package engine

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// DEPOSIT BUCKETS: First-deposit amounts per week / month / quarter
// ============================================================================
// This series keys on first_deposit_date and sums first_deposit. It is a
// different axis from the commission chart (effective date, commission) and
// is kept as its own function.
//
// Output keeps first-occurrence order; nothing re-sorts it.
// ============================================================================

// BucketUnit is the width of a deposit bucket.
type BucketUnit string

const (
	BucketWeek    BucketUnit = "week"
	BucketMonth   BucketUnit = "month"
	BucketQuarter BucketUnit = "quarter"
)

// ParseBucketUnit maps user input to a BucketUnit. The second result is false
// for unknown input, in which case BucketMonth is returned.
func ParseBucketUnit(s string) (BucketUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weekly", "w":
		return BucketWeek, true
	case "month", "monthly", "m":
		return BucketMonth, true
	case "quarter", "quarterly", "q":
		return BucketQuarter, true
	}
	return BucketMonth, false
}

// GroupDeposits sums first deposits per bucket after applying the tracking
// filter. Records without a valid first deposit date are skipped.
func GroupDeposits(records []Record, unit BucketUnit, mode TrackingMode, opts ...Option) []BucketPoint {
	cfg := applyOptions(opts)

	if unit != BucketWeek && unit != BucketMonth && unit != BucketQuarter {
		cfg.Logger.WithField("unit", string(unit)).Warn("unknown bucket unit, grouping by month")
		unit = BucketMonth
	}

	tracked := FilterByTracking(records, mode)

	sums := make(map[string]*money)
	order := make([]string, 0)
	skipped := 0

	for _, r := range tracked {
		if !r.FirstDepositDate.Valid() {
			skipped++
			continue
		}
		key := BucketStart(r.FirstDepositDate.Time(), unit, cfg.Location).Format(DayLayout)
		m, exists := sums[key]
		if !exists {
			m = &money{}
			sums[key] = m
			order = append(order, key)
		}
		m.add(r.FirstDeposit)
	}

	points := make([]BucketPoint, 0, len(order))
	for _, key := range order {
		points = append(points, BucketPoint{Key: key, Amount: sums[key].float()})
	}

	cfg.Logger.WithFields(logrus.Fields{
		"report":  "deposits",
		"unit":    string(unit),
		"mode":    string(mode),
		"records": len(records),
		"tracked": len(tracked),
		"skipped": skipped,
		"buckets": len(points),
	}).Debug("grouped first deposits")

	return points
}

// BucketStart returns midnight of the first day of the bucket containing t,
// in loc. Weeks start on Monday; quarters on Jan, Apr, Jul and Oct 1.
func BucketStart(t time.Time, unit BucketUnit, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	switch unit {
	case BucketWeek:
		return StartOfWeek(t)
	case BucketQuarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	}
}

// StartOfWeek returns Monday 00:00 of the ISO week containing t, in t's
// location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}
