package engine

import (
	"strings"
	"unicode"
)

// ============================================================================
// FIELD ACCESS: Dotted-path lookup over records and generic documents
// ============================================================================
// Every sort and filter names its field as a dot-path ("user.email",
// "qualification_date"). Lookups never panic: the walk stops with nil as soon
// as a segment cannot be resolved.
// ============================================================================

// Getter resolves a dotted field path against a value.
type Getter interface {
	Get(path string) any
}

// Document is a generic decoded payload.
type Document map[string]any

// Get implements Getter.
func (d Document) Get(path string) any { return GetPath(map[string]any(d), path) }

// GetPath walks "a.b.c" through nested mappings and Getters.
// Returns nil when doc is not a mapping or any segment is missing.
func GetPath(doc any, path string) any {
	if path == "" {
		return nil
	}
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil
			}
			cur = v
		case Document:
			v, ok := c[seg]
			if !ok {
				return nil
			}
			cur = v
		case map[string]string:
			v, ok := c[seg]
			if !ok {
				return nil
			}
			cur = v
		case Getter:
			cur = c.Get(seg)
			if cur == nil {
				return nil
			}
		default:
			return nil
		}
	}
	return cur
}

// splitPath separates the first segment from the rest.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// Get resolves a field path against the record. The first segment may be
// snake_case or camelCase; anything that is not a known field is looked up
// in Extra.
func (r Record) Get(path string) any {
	head, rest := splitPath(path)
	if head == "" {
		return nil
	}

	v, known := r.field(fieldKey(head))
	if !known {
		if r.Extra == nil {
			return nil
		}
		var ok bool
		if v, ok = r.Extra[head]; !ok {
			if v, ok = r.Extra[fieldKey(head)]; !ok {
				return nil
			}
		}
	}

	if rest == "" {
		return v
	}
	return GetPath(v, rest)
}

// Get resolves "date" to the effective date so table sorts order by time;
// everything else goes to the record.
func (row TableRow) Get(path string) any {
	if path == "date" {
		return timestampValue(row.EffectiveDate())
	}
	return row.Record.Get(path)
}

// field returns the value of a canonical field name.
func (r Record) field(key string) (any, bool) {
	switch key {
	case "customer_name":
		return r.CustomerName, true
	case "tracking_code":
		return r.TrackingCode, true
	case "qualification_date":
		return timestampValue(r.QualificationDate), true
	case "created_at":
		return timestampValue(r.CreatedAt), true
	case "registration_date":
		return timestampValue(r.RegistrationDate), true
	case "first_deposit_date":
		return timestampValue(r.FirstDepositDate), true
	case "effective_date":
		return timestampValue(r.EffectiveDate()), true
	case "commission":
		return r.Commission, true
	case "first_deposit":
		return r.FirstDeposit, true
	case "volume":
		return r.Volume, true
	case "net_deposits":
		return r.NetDeposits, true
	case "withdrawals":
		return r.Withdrawals, true
	case "country":
		return r.Country, true
	case "status":
		return r.Status, true
	case "ce_user_id":
		return r.CeUserID, true
	}
	return nil, false
}

// timestampValue exposes a null Timestamp as nil.
func timestampValue(ts Timestamp) any {
	if ts.IsNull() {
		return nil
	}
	return ts
}

// fieldKey converts "firstDeposit", "First Deposit" or "first-deposit"
// to "first_deposit".
func fieldKey(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
