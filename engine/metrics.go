package engine

// ============================================================================
// AFFILIATE METRICS: Per-node ROI and conversion figures
// ============================================================================
// Computed for a single node from its own registrations. Children are not
// rolled up; callers that want per-child figures call ComputeMetrics on each.
// ============================================================================

// ComputeMetrics derives the dashboard figures of one affiliate node.
//
// There is no cost model yet: net profit equals gross profit (the commission
// sum). Ratios are formatted to one decimal and guarded to "0" when their
// denominator is not positive.
func ComputeMetrics(node AffiliateNode) AffiliateMetrics {
	var profit money
	active := 0
	for _, r := range node.Registrations {
		profit.add(r.Commission)
		if r.IsActive() {
			active++
		}
	}

	total := len(node.Registrations)
	gross := profit.float()
	net := gross

	roi := "0"
	if invested := node.SubAffiliateInfo.InvestedAmount; invested > 0 {
		roi = FormatOneDecimal(net / invested * 100)
	}

	conversion := "0"
	if total > 0 {
		conversion = FormatOneDecimal(float64(active) / float64(total) * 100)
	}

	return AffiliateMetrics{
		TotalRegistrations: total,
		ActiveUsers:        active,
		GrossProfit:        gross,
		NetProfit:          net,
		ROI:                roi,
		ConversionRate:     conversion,
	}
}

// IsActive reports a user who deposited or traded and earned commission.
func (r Record) IsActive() bool {
	return (r.FirstDeposit > 0 || r.Volume > 0) && r.Commission > 0
}

// NodeMetrics is a node's identity with its metrics.
type NodeMetrics struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Metrics AffiliateMetrics `json:"metrics"`
}

// ChildMetrics computes each direct child's own metrics, in child order.
func ChildMetrics(node AffiliateNode) []NodeMetrics {
	out := make([]NodeMetrics, 0, len(node.Children))
	for _, child := range node.Children {
		out = append(out, NodeMetrics{
			ID:      child.SubAffiliateInfo.ID,
			Name:    child.SubAffiliateInfo.Name,
			Metrics: ComputeMetrics(child),
		})
	}
	return out
}
