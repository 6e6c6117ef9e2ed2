package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ============================================================================
// COMPARISON: Type-aware ordering of heterogeneous field values
// ============================================================================
// The first rule that applies wins:
//
//   1. both values are valid dates  → compare epoch milliseconds
//      (numbers and numeric strings count as epoch milliseconds)
//   2. both values are strings      → locale-aware compare
//   3. otherwise                    → compare as numbers (nil → 0)
//
// Rule 3 never fails: NaN on either side compares equal, so a mixed or broken
// column keeps its input order under a stable sort.
// ============================================================================

// Comparator orders field values. A Comparator holds a collator and is not
// safe for concurrent use; create one per sort pass.
type Comparator struct {
	coll *collate.Collator
}

// NewComparator creates a comparator using the root locale collation.
func NewComparator() *Comparator {
	return &Comparator{coll: collate.New(language.Und)}
}

// Compare returns -1, 0 or 1. Descending flips the sign.
func (c *Comparator) Compare(a, b any, order SortOrder) int {
	result := c.compareAsc(a, b)
	if order == Descending {
		return -result
	}
	return result
}

// CompareFields resolves field on both sides and compares the values.
func (c *Comparator) CompareFields(a, b Getter, field string, order SortOrder) int {
	return c.Compare(a.Get(field), b.Get(field), order)
}

// CompareValues is a one-shot Compare.
func CompareValues(a, b any, order SortOrder) int {
	return NewComparator().Compare(a, b, order)
}

func (c *Comparator) compareAsc(a, b any) int {
	if ma, ok := asEpoch(a); ok {
		if mb, ok := asEpoch(b); ok {
			return cmpFloat(ma, mb)
		}
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return c.coll.CompareString(sa, sb)
		}
	}

	return cmpFloat(toNumber(a), toNumber(b))
}

// asEpoch reports whether v is a valid date and returns it as epoch
// milliseconds. Finite numbers and numeric strings are instants in epoch
// milliseconds, so "10" and "9" order by magnitude, never by collation.
func asEpoch(v any) (float64, bool) {
	switch x := v.(type) {
	case Timestamp:
		ms, ok := x.UnixMilli()
		return float64(ms), ok
	case time.Time:
		return float64(x.UnixMilli()), !x.IsZero()
	case float64, float32, int, int32, int64, uint, uint64, json.Number:
		n := toNumber(x)
		return n, isFinite(n)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, isFinite(n)
		}
		if t, ok := parseDate(s); ok {
			return float64(t.UnixMilli()), true
		}
	}
	return 0, false
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// cmpFloat orders two numbers; NaN on either side is a tie.
func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
