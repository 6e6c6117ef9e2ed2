package engine

// ============================================================================
// AFFILL ENGINE TYPES: Registrations, Commissions, Reports
// ============================================================================
// Records come from the affiliate API already fetched; the engine only derives
// new structures from them. Nothing here is mutated after construction.
// ============================================================================

// ============================================================================
// RECORD: One registration / commission event
// ============================================================================

// DefaultTrackingCode marks organic, untagged traffic.
const DefaultTrackingCode = "default"

// Record is a registration/commission event as returned by the API.
// Missing numeric fields are 0. Unknown payload keys are kept in Extra so
// dotted field paths ("user.email") still resolve.
type Record struct {
	CustomerName      string         `json:"customer_name"`
	TrackingCode      string         `json:"tracking_code"`
	QualificationDate Timestamp      `json:"qualification_date"`
	CreatedAt         Timestamp      `json:"created_at"`
	RegistrationDate  Timestamp      `json:"registration_date"`
	FirstDepositDate  Timestamp      `json:"first_deposit_date"`
	Commission        float64        `json:"commission"`
	FirstDeposit      float64        `json:"first_deposit"`
	Volume            float64        `json:"volume"`
	NetDeposits       float64        `json:"net_deposits"`
	Withdrawals       float64        `json:"withdrawals"`
	Country           string         `json:"country,omitempty"`
	Status            string         `json:"status"`
	CeUserID          string         `json:"ce_user_id"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// EffectiveDate is the qualification date when present, else created-at.
func (r Record) EffectiveDate() Timestamp {
	if !r.QualificationDate.IsNull() {
		return r.QualificationDate
	}
	return r.CreatedAt
}

// IsDefaultTracking reports whether the record is organic traffic.
func (r Record) IsDefaultTracking() bool {
	return equalFoldTrim(r.TrackingCode, DefaultTrackingCode)
}

// TableRow is a Record annotated with its formatted effective date.
type TableRow struct {
	Record
	Date string `json:"date"`
}

// ============================================================================
// SORTING
// ============================================================================

// SortOrder is the direction of a table sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortState is the active column (dot-path) and direction of a table.
type SortState struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultCommissionSort is the initial sort of the commission table.
func DefaultCommissionSort() SortState {
	return SortState{Field: "date", Order: Ascending}
}

// ============================================================================
// COMMISSION SUMMARY
// ============================================================================

// BucketPoint is one entry of a time-bucketed series.
type BucketPoint struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// AggregateSummary is the derived commission report.
type AggregateSummary struct {
	Total       float64       `json:"total"`
	ThisMonth   float64       `json:"thisMonth"`
	ThisWeek    float64       `json:"thisWeek"`
	Last7Days   float64       `json:"last7Days"`
	ChartSeries []BucketPoint `json:"chartSeries"`
	Table       []TableRow    `json:"table"`
}

// ============================================================================
// QUALIFICATION REPORTS
// ============================================================================

// QualificationThresholds are the caller-supplied deposit/volume rules.
type QualificationThresholds struct {
	MinDeposit         float64 `json:"minDeposit" yaml:"min_deposit"`
	MinVolume          float64 `json:"minVolume" yaml:"min_volume"`
	CommissionRequired bool    `json:"commissionRequired" yaml:"commission_required"`
}

// PotentialProfitTotals sums the potential-profit list.
type PotentialProfitTotals struct {
	Count        int     `json:"count"`
	FirstDeposit float64 `json:"firstDeposit"`
	Volume       float64 `json:"volume"`
	Commission   float64 `json:"commission"`
	NetDeposits  float64 `json:"netDeposits"`
}

// PotentialProfitReport lists users past the deposit or volume threshold.
type PotentialProfitReport struct {
	List   []Record              `json:"potentialProfitList"`
	Totals PotentialProfitTotals `json:"totals"`
}

// UntriggeredSummary aggregates deposits still waiting for qualification.
type UntriggeredSummary struct {
	Count        int     `json:"count"`
	TotalDeposit float64 `json:"totalDeposit"`
}

// UntriggeredReport lists deposits without a qualification date.
type UntriggeredReport struct {
	List    []Record           `json:"untriggerList"`
	Summary UntriggeredSummary `json:"summaryUntrigger"`
}

// ============================================================================
// AFFILIATE TREE
// ============================================================================

// SubAffiliateInfo identifies a sub-affiliate and what was invested in it.
type SubAffiliateInfo struct {
	ID             string  `json:"id"`
	InvestedAmount float64 `json:"invested_amount"`
	Name           string  `json:"name"`
}

// AffiliateNode is one node of the sub-affiliate tree. Each node is owned by
// exactly one parent.
type AffiliateNode struct {
	SubAffiliateInfo SubAffiliateInfo `json:"sub_affiliate_info"`
	Registrations    []Record         `json:"registrations"`
	Children         []AffiliateNode  `json:"children,omitempty"`
}

// AffiliateMetrics are the per-node dashboard figures.
type AffiliateMetrics struct {
	TotalRegistrations int     `json:"totalRegistrations"`
	ActiveUsers        int     `json:"activeUsers"`
	GrossProfit        float64 `json:"grossProfit"`
	NetProfit          float64 `json:"netProfit"`
	ROI                string  `json:"roi"`
	ConversionRate     string  `json:"conversionRate"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "date"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
