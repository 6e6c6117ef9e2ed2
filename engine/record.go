package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// RECORD DECODING: Lenient construction from API payloads
// ============================================================================
// The API is not strict about types: amounts arrive as numbers, numeric
// strings or null, keys arrive camelCased or snake_cased. Field shape never
// fails a decode.
// ============================================================================

// RecordFromMap builds a Record from a decoded payload object.
func RecordFromMap(m map[string]any) Record {
	var r Record
	for k, v := range m {
		switch fieldKey(k) {
		case "customer_name":
			r.CustomerName = stringOf(v)
		case "tracking_code":
			r.TrackingCode = stringOf(v)
		case "qualification_date":
			r.QualificationDate = timestampOf(v)
		case "created_at":
			r.CreatedAt = timestampOf(v)
		case "registration_date":
			r.RegistrationDate = timestampOf(v)
		case "first_deposit_date":
			r.FirstDepositDate = timestampOf(v)
		case "commission":
			r.Commission = amountOf(v)
		case "first_deposit":
			r.FirstDeposit = amountOf(v)
		case "volume":
			r.Volume = amountOf(v)
		case "net_deposits":
			r.NetDeposits = amountOf(v)
		case "withdrawals":
			r.Withdrawals = amountOf(v)
		case "country":
			r.Country = stringOf(v)
		case "status":
			r.Status = stringOf(v)
		case "ce_user_id":
			r.CeUserID = stringOf(v)
		case "extra":
			if nested, ok := v.(map[string]any); ok {
				for nk, nv := range nested {
					r.setExtra(nk, nv)
				}
				continue
			}
			r.setExtra(k, v)
		default:
			r.setExtra(k, v)
		}
	}
	return r
}

func (r *Record) setExtra(k string, v any) {
	if r.Extra == nil {
		r.Extra = make(map[string]any)
	}
	r.Extra[k] = v
}

// UnmarshalJSON decodes one record object. Only malformed JSON or a
// non-object value is an error.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	*r = RecordFromMap(m)
	return nil
}

// ============================================================================
// VALUE COERCION
// ============================================================================

// amountOf reads a money/volume field. Anything unusable is 0.
func amountOf(v any) float64 {
	n := toNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// stringOf reads a text field.
func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// toNumber coerces a value for numeric comparison.
// nil → 0, "" → 0, numeric text → value, valid dates and date text → epoch ms,
// everything else → NaN.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if t, ok := parseDate(s); ok {
			return float64(t.UnixMilli())
		}
		return math.NaN()
	case Timestamp:
		if ms, ok := x.UnixMilli(); ok {
			return float64(ms)
		}
		return math.NaN()
	case time.Time:
		if x.IsZero() {
			return math.NaN()
		}
		return float64(x.UnixMilli())
	default:
		return math.NaN()
	}
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}

// ============================================================================
// AFFILIATE TREE DECODING
// ============================================================================

// UnmarshalJSON decodes a tree node, accepting camelCase or snake_case keys.
func (n *AffiliateNode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decode affiliate node: %w", err)
	}
	*n = nodeFromMap(m)
	return nil
}

func nodeFromMap(m map[string]any) AffiliateNode {
	var n AffiliateNode
	for k, v := range m {
		switch fieldKey(k) {
		case "sub_affiliate_info":
			if info, ok := v.(map[string]any); ok {
				n.SubAffiliateInfo = infoFromMap(info)
			}
		case "registrations":
			items, _ := v.([]any)
			n.Registrations = make([]Record, 0, len(items))
			for _, item := range items {
				if obj, ok := item.(map[string]any); ok {
					n.Registrations = append(n.Registrations, RecordFromMap(obj))
				}
			}
		case "children":
			items, _ := v.([]any)
			for _, item := range items {
				if obj, ok := item.(map[string]any); ok {
					n.Children = append(n.Children, nodeFromMap(obj))
				}
			}
		}
	}
	return n
}

func infoFromMap(m map[string]any) SubAffiliateInfo {
	var info SubAffiliateInfo
	for k, v := range m {
		switch fieldKey(k) {
		case "id":
			info.ID = stringOf(v)
		case "invested_amount":
			info.InvestedAmount = amountOf(v)
		case "name":
			info.Name = stringOf(v)
		}
	}
	return info
}
