package engine

import "github.com/sirupsen/logrus"

// ============================================================================
// USER QUALIFICATION: Potential-profit and untriggered-deposit buckets
// ============================================================================
// Pipeline: name filter → thresholds / trigger check → sort.
// QualificationConfig is a value; the With* methods return modified copies,
// so one analysis pass always sees one immutable configuration.
// ============================================================================

// QualificationConfig configures the qualification reports.
type QualificationConfig struct {
	Thresholds QualificationThresholds `json:"thresholds"`
	Sort       SortState               `json:"sort"`
	NameFilter string                  `json:"nameFilter"`
}

// NewQualificationConfig returns the zero thresholds with an unsorted,
// ascending table.
func NewQualificationConfig() QualificationConfig {
	return QualificationConfig{Sort: SortState{Field: "", Order: Ascending}}
}

// WithMinDeposit returns a copy with the deposit threshold set.
func (c QualificationConfig) WithMinDeposit(v float64) QualificationConfig {
	c.Thresholds.MinDeposit = v
	return c
}

// WithMinVolume returns a copy with the volume threshold set.
func (c QualificationConfig) WithMinVolume(v float64) QualificationConfig {
	c.Thresholds.MinVolume = v
	return c
}

// WithCommissionRequired returns a copy that also requires commission > 0.
func (c QualificationConfig) WithCommissionRequired(required bool) QualificationConfig {
	c.Thresholds.CommissionRequired = required
	return c
}

// WithThresholds returns a copy with all thresholds replaced.
func (c QualificationConfig) WithThresholds(t QualificationThresholds) QualificationConfig {
	c.Thresholds = t
	return c
}

// WithSort returns a copy with the table sort replaced.
func (c QualificationConfig) WithSort(s SortState) QualificationConfig {
	c.Sort = s
	return c
}

// WithNameFilter returns a copy filtering on customer name.
func (c QualificationConfig) WithNameFilter(name string) QualificationConfig {
	c.NameFilter = name
	return c
}

// Qualifies reports whether r passes the potential-profit thresholds.
// Deposit and volume are alternatives; both comparisons are inclusive.
func (t QualificationThresholds) Qualifies(r Record) bool {
	if r.FirstDeposit < t.MinDeposit && r.Volume < t.MinVolume {
		return false
	}
	if t.CommissionRequired && r.Commission <= 0 {
		return false
	}
	return true
}

// PotentialProfitUsers lists users past the deposit or volume threshold.
func PotentialProfitUsers(records []Record, cfg QualificationConfig, opts ...Option) PotentialProfitReport {
	ec := applyOptions(opts)
	named := FilterByName(records, cfg.NameFilter)

	kept := make([]Record, 0, len(named))
	var deposit, volume, commission, net money
	for _, r := range named {
		if !cfg.Thresholds.Qualifies(r) {
			continue
		}
		kept = append(kept, r)
		deposit.add(r.FirstDeposit)
		volume.add(r.Volume)
		commission.add(r.Commission)
		net.add(r.NetDeposits)
	}

	report := PotentialProfitReport{
		List: SortRecords(kept, cfg.Sort),
		Totals: PotentialProfitTotals{
			Count:        len(kept),
			FirstDeposit: deposit.float(),
			Volume:       volume.float(),
			Commission:   commission.float(),
			NetDeposits:  net.float(),
		},
	}

	ec.Logger.WithFields(logrus.Fields{
		"report":             "potential_profit",
		"records":            len(records),
		"named":              len(named),
		"kept":               len(kept),
		"minDeposit":         cfg.Thresholds.MinDeposit,
		"minVolume":          cfg.Thresholds.MinVolume,
		"commissionRequired": cfg.Thresholds.CommissionRequired,
	}).Debug("classified potential profit users")

	return report
}

// HasDeposit reports whether a first deposit was recorded. Decoding turns a
// missing or null first deposit into 0, so an explicit 0 is treated the same
// as no deposit and never makes a record untriggered.
func (r Record) HasDeposit() bool { return r.FirstDeposit > 0 }

// IsUntriggered reports a deposit that has not reached qualification yet.
func (r Record) IsUntriggered() bool {
	return r.HasDeposit() && r.QualificationDate.IsNull()
}

// UntriggeredDeposits lists deposits without a qualification date.
func UntriggeredDeposits(records []Record, cfg QualificationConfig, opts ...Option) UntriggeredReport {
	ec := applyOptions(opts)
	named := FilterByName(records, cfg.NameFilter)

	kept := make([]Record, 0)
	var total money
	for _, r := range named {
		if !r.IsUntriggered() {
			continue
		}
		kept = append(kept, r)
		total.add(r.FirstDeposit)
	}

	report := UntriggeredReport{
		List: SortRecords(kept, cfg.Sort),
		Summary: UntriggeredSummary{
			Count:        len(kept),
			TotalDeposit: total.float(),
		},
	}

	ec.Logger.WithFields(logrus.Fields{
		"report":  "untriggered",
		"records": len(records),
		"named":   len(named),
		"kept":    len(kept),
	}).Debug("collected untriggered deposits")

	return report
}

// TriggeredDeposits is the complement of UntriggeredDeposits within the
// deposit-bearing records: deposits that already have a qualification date.
func TriggeredDeposits(records []Record, cfg QualificationConfig) []Record {
	named := FilterByName(records, cfg.NameFilter)
	kept := make([]Record, 0)
	for _, r := range named {
		if r.HasDeposit() && !r.QualificationDate.IsNull() {
			kept = append(kept, r)
		}
	}
	return SortRecords(kept, cfg.Sort)
}

// QualificationAnalyzer pairs a configuration with its own sort controller.
// It is independent of the commission table's controller.
type QualificationAnalyzer struct {
	cfg  QualificationConfig
	sort *SortController
	opts []Option
}

// NewQualificationAnalyzer creates an analyzer starting from cfg.
func NewQualificationAnalyzer(cfg QualificationConfig, opts ...Option) *QualificationAnalyzer {
	return &QualificationAnalyzer{
		cfg:  cfg,
		sort: NewSortController(cfg.Sort),
		opts: opts,
	}
}

// OnHeaderClick toggles the list sort.
func (a *QualificationAnalyzer) OnHeaderClick(field string) SortState {
	return a.sort.OnHeaderClick(field)
}

// Config returns the configuration with the current sort applied.
func (a *QualificationAnalyzer) Config() QualificationConfig {
	return a.cfg.WithSort(a.sort.State())
}

// PotentialProfitUsers runs the potential-profit report.
func (a *QualificationAnalyzer) PotentialProfitUsers(records []Record) PotentialProfitReport {
	return PotentialProfitUsers(records, a.Config(), a.opts...)
}

// UntriggeredDeposits runs the untriggered-deposit report.
func (a *QualificationAnalyzer) UntriggeredDeposits(records []Record) UntriggeredReport {
	return UntriggeredDeposits(records, a.Config(), a.opts...)
}
