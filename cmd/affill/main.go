package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rebtools/affill/config"
	"github.com/rebtools/affill/engine"
	"github.com/rebtools/affill/helpers"
)

// ============================================================================
// AFFILL CLI: Commission and registration reports from API exports
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", "", "Path to a JSON or CSV export (required)")
	report := flag.String("report", "commission", "Report: commission, deposits, potential, untriggered, metrics")
	configPath := flag.String("config", "affill.yaml", "Path to YAML config")
	envPath := flag.String("env", ".env", "Path to .env file")
	format := flag.String("format", "json", "Output format: json, pretty, text, csv, xlsx")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	nowStr := flag.String("now", "", "Pin \"now\" for time windows (YYYY-MM-DD or RFC 3339)")
	sortField := flag.String("sort", "", "Sort field (dot-path)")
	sortOrder := flag.String("order", "", "Sort order: asc or desc")
	unit := flag.String("unit", "", "Deposit bucket: week, month, quarter")
	tracking := flag.String("tracking", "", "Tracking filter: all, default, custom")
	name := flag.String("name", "", "Customer name substring filter")
	fromStr := flag.String("from", "", "Earliest effective date (inclusive)")
	toStr := flag.String("to", "", "Latest effective date (inclusive)")
	minDeposit := flag.Float64("min-deposit", 0, "Potential profit: minimum first deposit")
	minVolume := flag.Float64("min-volume", 0, "Potential profit: minimum volume")
	commissionRequired := flag.Bool("commission-required", false, "Potential profit: require commission > 0")
	template := flag.String("template", "", "Summary template for --format text")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `affill: affiliate commission reports

Usage:
  affill --file registrations.json --report commission --format pretty
  affill --file registrations.csv --report deposits --unit week --tracking custom --format csv
  affill --file registrations.json --report potential --min-deposit 250 --format xlsx --out potential.xlsx
  affill --file tree.json --report metrics --format text

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment (override affill.yaml):
  AFFILL_LOG_LEVEL, AFFILL_LOG_FORMAT, AFFILL_CURRENCY, AFFILL_TIMEZONE,
  AFFILL_MIN_DEPOSIT, AFFILL_MIN_VOLUME, AFFILL_COMMISSION_REQUIRED,
  AFFILL_BUCKET_UNIT, AFFILL_TRACKING_MODE, AFFILL_SORT_FIELD,
  AFFILL_SORT_ORDER, AFFILL_CHART_TYPE

Formats:
  json      Full JSON report (default)
  pretty    Pretty-printed JSON
  text      One-line summary
  csv       Table (or chart series) as CSV
  xlsx      Table (or chart series) as a spreadsheet
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("affill %s\n", version)
		os.Exit(0)
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		flag.Usage()
		os.Exit(1)
	}

	// ── Config ────────────────────────────────────────────────────────────
	envErr := godotenv.Load(*envPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["sort"] {
		cfg.SortField = *sortField
	}
	if set["order"] {
		cfg.SortOrder = *sortOrder
	}
	if set["unit"] {
		cfg.BucketUnit = *unit
	}
	if set["tracking"] {
		cfg.TrackingMode = *tracking
	}
	if set["min-deposit"] {
		cfg.Thresholds.MinDeposit = *minDeposit
	}
	if set["min-volume"] {
		cfg.Thresholds.MinVolume = *minVolume
	}
	if set["commission-required"] {
		cfg.Thresholds.CommissionRequired = *commissionRequired
	}

	logger := config.NewLogger(cfg).WithField("run_id", uuid.NewString())
	if envErr != nil {
		logger.WithField("path", *envPath).Debug("no .env file loaded")
	}

	loc, err := cfg.Location()
	if err != nil {
		fatalf("%v", err)
	}

	opts := []engine.Option{engine.WithLocation(loc), engine.WithLogger(logger)}
	if *nowStr != "" {
		now, err := parseDateFlag(*nowStr, loc)
		if err != nil {
			fatalf("Invalid --now: %v", err)
		}
		opts = append(opts, engine.WithNow(now))
	}

	var rng engine.DateRange
	if *fromStr != "" {
		if rng.From, err = parseDateFlag(*fromStr, loc); err != nil {
			fatalf("Invalid --from: %v", err)
		}
	}
	if *toStr != "" {
		to, err := parseDateFlag(*toStr, loc)
		if err != nil {
			fatalf("Invalid --to: %v", err)
		}
		if len(strings.TrimSpace(*toStr)) == len(engine.DayLayout) {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		rng.To = to
	}

	// ── Read data ─────────────────────────────────────────────────────────
	data, err := os.ReadFile(*filePath)
	if err != nil {
		fatalf("Failed to read file: %v", err)
	}

	// ── Run report ────────────────────────────────────────────────────────
	var out *rendered
	if *report == "metrics" {
		node, err := helpers.ParseAffiliateTree(data)
		if err != nil {
			config.LogError(logger, "cmd", "main", "parse tree", *filePath, err)
			fatalf("Failed to parse affiliate tree: %v", err)
		}
		out = runMetrics(node, cfg)
	} else {
		records, err := helpers.ParseRecords(data)
		if err != nil {
			config.LogError(logger, "cmd", "main", "parse records", *filePath, err)
			fatalf("Failed to parse records: %v", err)
		}
		logger.WithField("records", len(records)).Info("parsed records")

		records = engine.FilterByDateRange(records, rng)
		out, err = runRecords(*report, records, cfg, *name, *template, opts)
		if err != nil {
			fatalf("%v", err)
		}
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Render output ─────────────────────────────────────────────────────
	switch *format {
	case "csv":
		if err := writeCSV(writer, out); err != nil {
			fatalf("Failed to write csv: %v", err)
		}
	case "xlsx":
		if err := writeXLSX(writer, out); err != nil {
			fatalf("Failed to write xlsx: %v", err)
		}
	case "text":
		fmt.Fprintln(writer, out.Text)
	default:
		writeJSON(writer, out.Data, *format)
	}

	if *outFile != "" {
		logger.WithFields(logrus.Fields{"path": *outFile, "format": *format}).Info("report written")
	}
}

// ============================================================================
// REPORTS
// ============================================================================

// rendered is one report in every output shape.
type rendered struct {
	Data  any
	Table *engine.TableData
	Chart *engine.ChartConfig
	Text  string
}

func runRecords(report string, records []engine.Record, cfg config.Config, name, template string, opts []engine.Option) (*rendered, error) {
	switch report {
	case "commission":
		ctl := engine.NewCommissionController(opts...)
		if s := cfg.Sort(); s != ctl.SortState() {
			ctl.OnHeaderClick(s.Field)
			if ctl.SortState() != s {
				ctl.OnHeaderClick(s.Field)
			}
		}
		summary := ctl.Analyze(engine.FilterByName(records, name))
		return &rendered{
			Data:  summary,
			Table: engine.BuildCommissionTable(summary, cfg.Currency),
			Chart: engine.BuildCommissionChart(summary, cfg.ChartType),
			Text:  engine.BuildSummaryText(summary, template, cfg.Currency),
		}, nil

	case "deposits":
		unit, _ := engine.ParseBucketUnit(cfg.BucketUnit)
		mode := engine.ParseTrackingMode(cfg.TrackingMode)
		points := engine.GroupDeposits(engine.FilterByName(records, name), unit, mode, opts...)
		var total float64
		for _, p := range points {
			total += p.Amount
		}
		return &rendered{
			Data:  points,
			Chart: engine.BuildDepositChart(points, unit, cfg.ChartType),
			Text: fmt.Sprintf("%d %s buckets, %s in first deposits.",
				len(points), unit, engine.FormatCurrency(total, cfg.Currency)),
		}, nil

	case "potential", "untriggered":
		qc := engine.NewQualificationConfig().
			WithThresholds(cfg.Thresholds).
			WithSort(engine.SortState{Field: qualificationSortField(cfg), Order: cfg.Sort().Order}).
			WithNameFilter(name)
		if report == "potential" {
			res := engine.PotentialProfitUsers(records, qc, opts...)
			return &rendered{
				Data:  res,
				Table: engine.BuildRecordTable("Potential profit", res.List, cfg.Currency, locationOf(cfg)),
				Text:  engine.BuildPotentialProfitText(res, cfg.Currency),
			}, nil
		}
		res := engine.UntriggeredDeposits(records, qc, opts...)
		return &rendered{
			Data:  res,
			Table: engine.BuildRecordTable("Untriggered deposits", res.List, cfg.Currency, locationOf(cfg)),
			Text:  engine.BuildUntriggeredText(res, cfg.Currency),
		}, nil
	}

	return nil, fmt.Errorf("unknown report %q", report)
}

func runMetrics(node engine.AffiliateNode, cfg config.Config) *rendered {
	self := engine.NodeMetrics{
		ID:      node.SubAffiliateInfo.ID,
		Name:    node.SubAffiliateInfo.Name,
		Metrics: engine.ComputeMetrics(node),
	}
	children := engine.ChildMetrics(node)

	return &rendered{
		Data: metricsOutput{Node: self, Children: children},
		Table: engine.BuildMetricsTable(append([]engine.NodeMetrics{self}, children...),
			cfg.Currency),
		Text: engine.BuildMetricsText(self.Name, self.Metrics, cfg.Currency),
	}
}

type metricsOutput struct {
	Node     engine.NodeMetrics   `json:"node"`
	Children []engine.NodeMetrics `json:"children"`
}

// qualificationSortField drops the commission table's "date" default: the
// qualification lists start unsorted.
func qualificationSortField(cfg config.Config) string {
	if cfg.SortField == "date" {
		return ""
	}
	return cfg.SortField
}

func locationOf(cfg config.Config) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// ============================================================================
// CSV / XLSX OUTPUT
// ============================================================================

// writeCSV writes the table, else the chart series, else the text line.
// It returns the first write or flush error.
func writeCSV(w io.Writer, out *rendered) error {
	cw := csv.NewWriter(w)

	switch {
	case out.Table != nil:
		headers := make([]string, len(out.Table.Columns))
		for i, c := range out.Table.Columns {
			headers[i] = c.Label
		}
		cw.Write(headers)
		for _, row := range out.Table.Rows {
			cw.Write(row)
		}

	case out.Chart != nil && len(out.Chart.Series) > 0:
		headers := []string{out.Chart.XAxis}
		for _, s := range out.Chart.Series {
			headers = append(headers, s.Name)
		}
		cw.Write(headers)
		for i, d := range out.Chart.Series[0].Data {
			row := []string{d.Label}
			for _, s := range out.Chart.Series {
				if i < len(s.Data) {
					row = append(row, engine.FormatAmount(s.Data[i].Value))
				} else {
					row = append(row, "")
				}
			}
			cw.Write(row)
		}

	default:
		// Fallback: text result as single-row CSV
		cw.Write([]string{"Summary"})
		cw.Write([]string{out.Text})
	}

	// csv.Writer keeps the first error; Error reports it after Flush.
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, out *rendered) error {
	if out.Table != nil {
		return helpers.WriteTableXLSX(w, out.Table)
	}
	return helpers.WriteChartXLSX(w, out.Chart)
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

// ============================================================================
// HELPERS
// ============================================================================

func parseDateFlag(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(engine.DayLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
