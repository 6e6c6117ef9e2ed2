package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ============================================================================
// TIMESTAMP: Nullable, possibly-invalid date value
// ============================================================================
// API payloads carry dates as strings of varying shape, as null, or not at
// all. A Timestamp keeps all three states apart:
//
//   null     absent in the source
//   valid    parsed into Time
//   invalid  present but unparseable ("Invalid Date")
//
// Decoding never fails; garbage becomes an invalid Timestamp.
// ============================================================================

// InvalidDateLabel is the display value of an unparseable date.
const InvalidDateLabel = "Invalid Date"

// DayLayout is the bucket and table date format.
const DayLayout = "2006-01-02"

// dateLayouts are tried in order when parsing a date string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Timestamp is a date field of a Record.
type Timestamp struct {
	t     time.Time
	raw   string
	set   bool
	valid bool
}

// NewTimestamp wraps an already-parsed time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t, raw: t.Format(time.RFC3339Nano), set: true, valid: true}
}

// ParseTimestamp parses a date string. Empty input yields a null Timestamp;
// unparseable input yields an invalid one.
func ParseTimestamp(raw string) Timestamp {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Timestamp{}
	}
	if t, ok := parseDate(s); ok {
		return Timestamp{t: t, raw: s, set: true, valid: true}
	}
	return Timestamp{raw: s, set: true}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsNull reports whether the source had no value.
func (ts Timestamp) IsNull() bool { return !ts.set }

// Valid reports whether the value parsed as a date.
func (ts Timestamp) Valid() bool { return ts.valid }

// Time returns the parsed time; zero when not valid.
func (ts Timestamp) Time() time.Time { return ts.t }

// Raw returns the source text.
func (ts Timestamp) Raw() string { return ts.raw }

// UnixMilli returns epoch milliseconds, or false when not valid.
func (ts Timestamp) UnixMilli() (int64, bool) {
	if !ts.valid {
		return 0, false
	}
	return ts.t.UnixMilli(), true
}

// Day formats the date as YYYY-MM-DD in loc. Invalid dates render as
// InvalidDateLabel and null dates as "".
func (ts Timestamp) Day(loc *time.Location) string {
	switch {
	case ts.valid:
		if loc == nil {
			loc = time.UTC
		}
		return ts.t.In(loc).Format(DayLayout)
	case ts.set:
		return InvalidDateLabel
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (ts Timestamp) String() string {
	if ts.valid {
		return ts.t.Format(time.RFC3339)
	}
	if ts.set {
		return InvalidDateLabel
	}
	return ""
}

// MarshalJSON writes null, an RFC 3339 string, or the raw invalid text.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case ts.valid:
		return json.Marshal(ts.t.Format(time.RFC3339Nano))
	case ts.set:
		return json.Marshal(ts.raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, epoch-millisecond numbers and null.
// It never returns an error for a well-formed JSON value.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*ts = Timestamp{raw: string(data), set: true}
		return nil
	}
	*ts = timestampOf(v)
	return nil
}

// timestampOf converts a decoded JSON value into a Timestamp.
func timestampOf(v any) Timestamp {
	switch x := v.(type) {
	case nil:
		return Timestamp{}
	case Timestamp:
		return x
	case time.Time:
		if x.IsZero() {
			return Timestamp{}
		}
		return NewTimestamp(x)
	case string:
		return ParseTimestamp(x)
	case float64:
		return NewTimestamp(time.UnixMilli(int64(x)).UTC())
	case int64:
		return NewTimestamp(time.UnixMilli(x).UTC())
	case int:
		return NewTimestamp(time.UnixMilli(int64(x)).UTC())
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return NewTimestamp(time.UnixMilli(n).UTC())
		}
		return Timestamp{raw: x.String(), set: true}
	default:
		return Timestamp{raw: "", set: true}
	}
}
