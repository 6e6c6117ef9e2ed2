package engine

// ============================================================================
// CHART BUILDER: Produces ChartConfig from bucketed series
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildSeriesChart produces a single-series ChartConfig. Returns nil when
// there is nothing to plot.
func BuildSeriesChart(title, chartType, xAxis, yAxis string, points []BucketPoint) *ChartConfig {
	if len(points) == 0 {
		return nil
	}
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: true,
		ShowGrid:   chartType != "pie",
	}
	config.Series = buildSingleSeries(points, yAxis)
	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildCommissionChart plots commission per day.
func BuildCommissionChart(summary AggregateSummary, chartType string) *ChartConfig {
	if chartType == "" {
		chartType = "line"
	}
	return BuildSeriesChart("Commission", chartType, "Date", "Commission", summary.ChartSeries)
}

// BuildDepositChart plots first deposits per bucket.
func BuildDepositChart(points []BucketPoint, unit BucketUnit, chartType string) *ChartConfig {
	return BuildSeriesChart("First deposits", chartType, LabelForField(string(unit)), "First Deposit", points)
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(points []BucketPoint, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	data := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		data = append(data, ChartPoint{
			Label: p.Key,
			Value: RoundTo2(p.Amount),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: data,
	}}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
