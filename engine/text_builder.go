package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// ============================================================================
// TEXT BUILDER: One-line summaries with placeholder templates
// ============================================================================
// Supported placeholders:
//   {total} {this_month} {this_week} {last_7_days} {count}
//   {top_day} {top_amount} {currency}
// Placeholders without a value are stripped from the output.
// ============================================================================

// DefaultSummaryTemplate is used when the caller passes no template.
const DefaultSummaryTemplate = "Earned {total} from {count} commissions: {this_month} this month, {this_week} this week, {last_7_days} in the last 7 days."

// BuildSummaryText resolves template against a commission summary.
func BuildSummaryText(summary AggregateSummary, template string, unit string) string {
	if len(summary.Table) == 0 {
		return "No commissions recorded yet."
	}
	if template == "" {
		template = DefaultSummaryTemplate
	}

	replacements := map[string]string{
		"{total}":       FormatCurrency(summary.Total, unit),
		"{this_month}":  FormatCurrency(summary.ThisMonth, unit),
		"{this_week}":   FormatCurrency(summary.ThisWeek, unit),
		"{last_7_days}": FormatCurrency(summary.Last7Days, unit),
		"{count}":       fmt.Sprintf("%d", len(summary.Table)),
		"{currency}":    unit,
	}

	// Best day
	if len(summary.ChartSeries) > 0 {
		top := summary.ChartSeries[0]
		for _, p := range summary.ChartSeries[1:] {
			if p.Amount > top.Amount {
				top = p
			}
		}
		replacements["{top_day}"] = top.Key
		replacements["{top_amount}"] = FormatCurrency(top.Amount, unit)
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return stripUnresolvedPlaceholders(result)
}

// BuildUntriggeredText summarizes deposits waiting for qualification.
func BuildUntriggeredText(report UntriggeredReport, unit string) string {
	if report.Summary.Count == 0 {
		return "No untriggered deposits."
	}
	return fmt.Sprintf("%s untriggered deposits totalling %s.",
		FormatInt(report.Summary.Count), FormatCurrency(report.Summary.TotalDeposit, unit))
}

// BuildPotentialProfitText summarizes the potential-profit list.
func BuildPotentialProfitText(report PotentialProfitReport, unit string) string {
	if report.Totals.Count == 0 {
		return "No users above the configured thresholds."
	}
	return fmt.Sprintf("%s users above threshold with %s in first deposits and %s commission.",
		FormatInt(report.Totals.Count),
		FormatCurrency(report.Totals.FirstDeposit, unit),
		FormatCurrency(report.Totals.Commission, unit))
}

// BuildMetricsText summarizes one node's metrics.
func BuildMetricsText(name string, m AffiliateMetrics, unit string) string {
	if name == "" {
		name = "Affiliate"
	}
	return fmt.Sprintf("%s: %s registrations, %s active, net profit %s, ROI %s%%, conversion %s%%.",
		name, FormatInt(m.TotalRegistrations), FormatInt(m.ActiveUsers),
		FormatCurrency(m.NetProfit, unit), m.ROI, m.ConversionRate)
}

var placeholderRegex = regexp.MustCompile(`\{[a-z0-9_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	if !placeholderRegex.MatchString(text) {
		return text
	}
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " .,-")
	if cleaned == "" {
		return text
	}
	return cleaned
}
