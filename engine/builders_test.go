package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// CHART / TABLE / TEXT BUILDERS
// ============================================================================

func sampleSummary(t *testing.T) AggregateSummary {
	t.Helper()
	records := []Record{
		rec(map[string]any{"customerName": "Ana", "commission": 50, "qualificationDate": "2024-01-10", "country": "BR"}),
		rec(map[string]any{"customerName": "Eli", "commission": 1250.5, "createdAt": "2024-01-12"}),
		rec(map[string]any{"customerName": "Ivo", "commission": 20, "createdAt": "2024-01-12"}),
	}
	return AnalyzeCommissions(records, DefaultCommissionSort(), testOpts("2024-01-15")...)
}

func TestBuildCommissionChart(t *testing.T) {
	chart := BuildCommissionChart(sampleSummary(t), "")
	if chart == nil {
		t.Fatal("expected a chart")
	}
	assertEqual(t, chart.ChartType, "line", "default chart type")
	assertEqual(t, len(chart.Series), 1, "series")
	assertEqual(t, len(chart.Colors), 1, "colors")

	data := chart.Series[0].Data
	assertEqual(t, len(data), 2, "points")
	assertEqual(t, data[1].Label, "2024-01-12", "second label")
	assertFloat(t, data[1].Value, 1270.5, "second value")
}

func TestBuildSeriesChartEmpty(t *testing.T) {
	if BuildSeriesChart("x", "bar", "", "", nil) != nil {
		t.Error("empty series should produce no chart")
	}
}

func TestBuildDepositChart(t *testing.T) {
	points := []BucketPoint{{Key: "2024-01-01", Amount: 10.005}}
	chart := BuildDepositChart(points, BucketQuarter, "pie")
	assertEqual(t, chart.XAxis, "Quarter", "x axis")
	assertEqual(t, chart.ShowGrid, false, "pie has no grid")
	assertEqual(t, chart.Series[0].Name, "First Deposit", "series name")
}

func TestBuildCommissionTable(t *testing.T) {
	table := BuildCommissionTable(sampleSummary(t), "USD")

	assertEqual(t, table.Columns[0].Key, "date", "first column")
	assertEqual(t, len(table.Rows), 3, "rows")
	assertEqual(t, table.Rows[0][0], "2024-01-10", "date cell")
	assertEqual(t, table.Rows[0][1], "Ana", "name cell")
	assertEqual(t, table.Rows[0][3], "BR", "country cell")

	last := table.Rows[0][len(table.Rows[0])-1]
	assertEqual(t, last, "50.00", "commission cell")
	assertEqual(t, table.Summary.Values["commission"], "USD 1,320.50", "summary")
	assertEqual(t, table.Summary.Label, "Total (3 records)", "summary label")
}

func TestBuildRecordTable(t *testing.T) {
	records := []Record{
		rec(map[string]any{"customerName": "Ana", "firstDeposit": 100, "registrationDate": "2024-01-02"}),
		rec(map[string]any{"customerName": "Bo", "firstDeposit": 50.25}),
	}
	table := BuildRecordTable("Untriggered", records, "", nil)

	assertEqual(t, table.Title, "Untriggered", "title")
	assertEqual(t, table.Rows[0][0], "2024-01-02", "registration date")
	assertEqual(t, table.Rows[1][0], "", "missing date")
	assertEqual(t, table.Summary.Values["first_deposit"], "150.25", "deposit total")
}

func TestBuildMetricsTable(t *testing.T) {
	nodes := []NodeMetrics{
		{Name: "North", Metrics: AffiliateMetrics{TotalRegistrations: 1200, NetProfit: 10, ROI: "5.0", ConversionRate: "10.0"}},
		{Name: "South", Metrics: AffiliateMetrics{TotalRegistrations: 3, NetProfit: 2.5, ROI: "0", ConversionRate: "0"}},
	}
	table := BuildMetricsTable(nodes, "EUR")

	assertEqual(t, table.Rows[0][1], "1,200", "registrations")
	assertEqual(t, table.Rows[1][3], "EUR 2.50", "net profit")
	assertEqual(t, table.Summary.Values["registrations"], "1,203", "total registrations")
	assertEqual(t, table.Summary.Values["net_profit"], "EUR 12.50", "total profit")
}

func TestBuildSummaryText(t *testing.T) {
	summary := sampleSummary(t)

	text := BuildSummaryText(summary, "", "USD")
	if !strings.HasPrefix(text, "Earned USD 1,320.50 from 3 commissions") {
		t.Errorf("default template: %q", text)
	}

	text = BuildSummaryText(summary, "Best day {top_day}: {top_amount}", "USD")
	assertEqual(t, text, "Best day 2024-01-12: USD 1,270.50", "top day")

	text = BuildSummaryText(summary, "Total {total} {unknown}", "")
	assertEqual(t, text, "Total 1,320.50", "unknown placeholder stripped")

	assertEqual(t, BuildSummaryText(AggregateSummary{}, "", "USD"), "No commissions recorded yet.", "empty")
}

func TestBuildQualificationTexts(t *testing.T) {
	untriggered := UntriggeredReport{Summary: UntriggeredSummary{Count: 2, TotalDeposit: 349.99}}
	assertEqual(t, BuildUntriggeredText(untriggered, "USD"), "2 untriggered deposits totalling USD 349.99.", "untriggered")
	assertEqual(t, BuildUntriggeredText(UntriggeredReport{}, "USD"), "No untriggered deposits.", "no untriggered")

	potential := PotentialProfitReport{Totals: PotentialProfitTotals{Count: 1, FirstDeposit: 100, Commission: 5}}
	assertEqual(t, BuildPotentialProfitText(potential, ""),
		"1 users above threshold with 100.00 in first deposits and 5.00 commission.", "potential")

	m := AffiliateMetrics{TotalRegistrations: 4, ActiveUsers: 2, NetProfit: 57, ROI: "28.5", ConversionRate: "50.0"}
	assertEqual(t, BuildMetricsText("North", m, "USD"),
		"North: 4 registrations, 2 active, net profit USD 57.00, ROI 28.5%, conversion 50.0%.", "metrics")
}
