package engine

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// ── Shared fixtures and assertions ────────────────────────────────────────────

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testOpts pins now and silences engine logs.
func testOpts(now string) []Option {
	return []Option{WithNow(mustDay(now)), WithLogger(quietLogger())}
}

func mustDay(s string) time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(fields map[string]any) Record { return RecordFromMap(fields) }

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.CustomerName
	}
	return out
}

func rowNames(rows []TableRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.CustomerName
	}
	return out
}

func assertFloat(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertStrings(t *testing.T, got, want []string, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %v, want %v", msg, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", msg, got, want)
			return
		}
	}
}
