package helpers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rebtools/affill/engine"
)

// ============================================================================
// RECORD INGESTION: API exports into []engine.Record
// ============================================================================
// Consumers fetch registrations from wherever they live (REST API, file,
// spreadsheet export). These helpers turn the raw bytes into records; field
// shape is handled leniently by the engine's decoder.
// ============================================================================

// envelopeKeys are the wrapper keys list endpoints put their array under.
var envelopeKeys = []string{"data", "records", "results", "items", "registrations"}

// ParseRecordsJSON parses a JSON array of records, or an object wrapping
// the array under one of the usual envelope keys.
func ParseRecordsJSON(data []byte) ([]engine.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []engine.Record{}, nil
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("parse records json: %w", err)
		}
		found := false
		for _, key := range envelopeKeys {
			if raw, ok := envelope[key]; ok {
				trimmed = bytes.TrimSpace(raw)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("parse records json: no record array under %s", strings.Join(envelopeKeys, "/"))
		}
	}

	var records []engine.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("parse records json: %w", err)
	}
	if records == nil {
		records = []engine.Record{}
	}
	return records, nil
}

// ParseRecordsCSV parses a CSV export with a header row. Header names may be
// "Customer Name", "customerName" or "customer_name"; unknown columns are
// kept in Record.Extra. Malformed rows are skipped.
func ParseRecordsCSV(data []byte) ([]engine.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]engine.Record, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		m := make(map[string]any, len(headers))
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			if headers[i] == "" {
				continue
			}
			m[headers[i]] = strings.TrimSpace(val)
		}
		records = append(records, engine.RecordFromMap(m))
	}

	return records, nil
}

// ParseRecords picks the parser from the content: JSON when the payload
// starts with '[' or '{', CSV otherwise.
func ParseRecords(data []byte) ([]engine.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return ParseRecordsJSON(trimmed)
	}
	return ParseRecordsCSV(data)
}

// ParseAffiliateTree parses one affiliate node with its sub-tree.
func ParseAffiliateTree(data []byte) (engine.AffiliateNode, error) {
	var node engine.AffiliateNode
	if err := json.Unmarshal(bytes.TrimSpace(data), &node); err != nil {
		return engine.AffiliateNode{}, fmt.Errorf("parse affiliate tree: %w", err)
	}
	return node, nil
}
