package engine

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// COMMISSION AGGREGATION: Totals, day series and the commission table
// ============================================================================
// Pipeline (single pass over records):
//   1. keep records with a non-null effective date and commission > 0,
//      dated no later than now
//   2. add to total / this month / this week / last 7 days
//   3. add to the per-day bucket (YYYY-MM-DD of the effective date)
// Then the table is sorted with the active SortState and the day buckets are
// sorted chronologically.
//
// A record whose effective date is present but unparseable still counts in
// the total and the table; it cannot fall in any window or day bucket.
// Records dated after now have not been earned yet and are skipped, so a
// report pinned to a past "now" reproduces what was visible at that time.
// ============================================================================

// AnalyzeCommissions derives the commission summary from records.
//
// Only commission earned as of now is reported: a record whose valid
// effective date is after now is left out of every figure, including Table,
// even when its commission is positive. Pin now with WithNow to reproduce a
// past report.
func AnalyzeCommissions(records []Record, sortState SortState, opts ...Option) AggregateSummary {
	cfg := applyOptions(opts)
	now := cfg.now()

	monthYear, month := now.Year(), now.Month()
	weekStart := StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	var total, thisMonth, thisWeek, last7Days money
	days := make(map[string]*money)
	rows := make([]TableRow, 0, len(records))
	invalid, future := 0, 0

	for _, r := range records {
		eff := r.EffectiveDate()
		if eff.IsNull() || r.Commission <= 0 {
			continue
		}
		if eff.Valid() && eff.Time().After(now) {
			future++
			continue
		}

		total.add(r.Commission)
		rows = append(rows, TableRow{Record: r, Date: eff.Day(cfg.Location)})

		if !eff.Valid() {
			invalid++
			continue
		}

		d := eff.Time().In(cfg.Location)
		if d.Year() == monthYear && d.Month() == month {
			thisMonth.add(r.Commission)
		}
		if d.After(sevenDaysAgo) {
			last7Days.add(r.Commission)
		}
		if !d.Before(weekStart) && d.Before(weekEnd) {
			thisWeek.add(r.Commission)
		}

		key := d.Format(DayLayout)
		m, ok := days[key]
		if !ok {
			m = &money{}
			days[key] = m
		}
		m.add(r.Commission)
	}

	summary := AggregateSummary{
		Total:       total.float(),
		ThisMonth:   thisMonth.float(),
		ThisWeek:    thisWeek.float(),
		Last7Days:   last7Days.float(),
		ChartSeries: daySeries(days),
		Table:       SortRows(rows, sortState),
	}

	cfg.Logger.WithFields(logrus.Fields{
		"report":       "commission",
		"records":      len(records),
		"kept":         len(rows),
		"invalidDates": invalid,
		"futureDates":  future,
		"days":         len(summary.ChartSeries),
		"sortField":    sortState.Field,
		"sortOrder":    string(sortState.Order),
	}).Debug("analyzed commissions")

	return summary
}

// daySeries turns the day buckets into a chronologically sorted series.
func daySeries(days map[string]*money) []BucketPoint {
	points := make([]BucketPoint, 0, len(days))
	for key, m := range days {
		points = append(points, BucketPoint{Key: key, Amount: m.float()})
	}
	sort.Slice(points, func(i, j int) bool {
		ti, _ := time.Parse(DayLayout, points[i].Key)
		tj, _ := time.Parse(DayLayout, points[j].Key)
		return ti.Before(tj)
	})
	return points
}

// CommissionController wraps the commission table's sort state. It is
// independent of the qualification analyzer's controller.
type CommissionController struct {
	sort *SortController
	opts []Option
}

// NewCommissionController starts with the default date-ascending sort.
func NewCommissionController(opts ...Option) *CommissionController {
	return &CommissionController{
		sort: NewSortController(DefaultCommissionSort()),
		opts: opts,
	}
}

// OnHeaderClick toggles the table sort.
func (c *CommissionController) OnHeaderClick(field string) SortState {
	return c.sort.OnHeaderClick(field)
}

// SortState returns the current sort.
func (c *CommissionController) SortState() SortState { return c.sort.State() }

// Analyze runs AnalyzeCommissions with the controller's current sort.
func (c *CommissionController) Analyze(records []Record) AggregateSummary {
	return AnalyzeCommissions(records, c.sort.State(), c.opts...)
}
