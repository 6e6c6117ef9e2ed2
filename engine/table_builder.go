package engine

import (
	"fmt"
	"time"
)

// ============================================================================
// TABLE BUILDER: Produces TableData from report rows
// ============================================================================
// Rows are rendered in the order the report already sorted them. Cells are
// read through Getter, so columns are just field paths.
// ============================================================================

// recordColumns are shared by every record table after its date column.
var recordColumns = []Column{
	{Key: "customer_name", Label: "Customer", Type: "text", Align: "left"},
	{Key: "tracking_code", Label: "Tracking Code", Type: "text", Align: "left"},
	{Key: "country", Label: "Country", Type: "text", Align: "left"},
	{Key: "status", Label: "Status", Type: "text", Align: "left"},
	{Key: "first_deposit", Label: "First Deposit", Type: "currency", Align: "right"},
	{Key: "volume", Label: "Volume", Type: "number", Align: "right"},
	{Key: "net_deposits", Label: "Net Deposits", Type: "currency", Align: "right"},
	{Key: "commission", Label: "Commission", Type: "currency", Align: "right"},
}

// BuildCommissionTable renders the commission table of a summary.
func BuildCommissionTable(summary AggregateSummary, unit string) *TableData {
	columns := withDateColumn("date", "Date")
	rows := make([][]string, 0, len(summary.Table))
	for _, row := range summary.Table {
		cells := make([]string, 0, len(columns))
		cells = append(cells, row.Date)
		for _, col := range columns[1:] {
			cells = append(cells, cellValue(row, col, nil))
		}
		rows = append(rows, cells)
	}

	return &TableData{
		Title:   "Commissions",
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d records)", len(summary.Table)),
			Values: map[string]string{
				"commission": FormatCurrency(summary.Total, unit),
			},
		},
	}
}

// BuildRecordTable renders a list of records keyed by registration date.
func BuildRecordTable(title string, records []Record, unit string, loc *time.Location) *TableData {
	columns := withDateColumn("registration_date", "Registered")
	rows := make([][]string, 0, len(records))

	var deposit, commission money
	for _, r := range records {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, cellValue(r, col, loc))
		}
		rows = append(rows, cells)
		deposit.add(r.FirstDeposit)
		commission.add(r.Commission)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d records)", len(records)),
			Values: map[string]string{
				"first_deposit": FormatCurrency(deposit.float(), unit),
				"commission":    FormatCurrency(commission.float(), unit),
			},
		},
	}
}

// BuildMetricsTable renders node metrics, one row per node.
func BuildMetricsTable(nodes []NodeMetrics, unit string) *TableData {
	columns := []Column{
		{Key: "name", Label: "Sub-affiliate", Type: "text", Align: "left"},
		{Key: "registrations", Label: "Registrations", Type: "number", Align: "right"},
		{Key: "active", Label: "Active Users", Type: "number", Align: "right"},
		{Key: "net_profit", Label: "Net Profit", Type: "currency", Align: "right"},
		{Key: "roi", Label: "ROI %", Type: "number", Align: "right"},
		{Key: "conversion", Label: "Conversion %", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(nodes))
	var profit money
	registrations := 0
	for _, n := range nodes {
		m := n.Metrics
		rows = append(rows, []string{
			n.Name,
			FormatInt(m.TotalRegistrations),
			FormatInt(m.ActiveUsers),
			FormatCurrency(m.NetProfit, unit),
			m.ROI,
			m.ConversionRate,
		})
		profit.add(m.NetProfit)
		registrations += m.TotalRegistrations
	}

	return &TableData{
		Title:   "Sub-affiliates",
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"registrations": FormatInt(registrations),
				"net_profit":    FormatCurrency(profit.float(), unit),
			},
		},
	}
}

func withDateColumn(key, label string) []Column {
	columns := make([]Column, 0, len(recordColumns)+1)
	columns = append(columns, Column{Key: key, Label: label, Type: "date", Align: "left"})
	return append(columns, recordColumns...)
}

// cellValue renders one field for display.
func cellValue(g Getter, col Column, loc *time.Location) string {
	switch v := g.Get(col.Key).(type) {
	case nil:
		return ""
	case Timestamp:
		return v.Day(loc)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case string:
		return v
	default:
		return stringOf(v)
	}
}
