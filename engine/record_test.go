package engine

import (
	"encoding/json"
	"testing"
	"time"
)

// ============================================================================
// RECORD & TIMESTAMP DECODING
// ============================================================================

const sampleRecordJSON = `{
	"customerName": "Ana Lima",
	"trackingCode": "SPRING24",
	"qualificationDate": null,
	"createdAt": "2024-01-05T12:30:00Z",
	"registration_date": "2024-01-04",
	"firstDepositDate": "someday",
	"commission": "12.50",
	"firstDeposit": 300,
	"volume": null,
	"netDeposits": -20,
	"status": "active",
	"ceUserId": 98123,
	"user": {"email": "ana@example.com"}
}`

func TestRecordUnmarshalLenient(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(sampleRecordJSON), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	assertEqual(t, r.CustomerName, "Ana Lima", "customer name")
	assertEqual(t, r.TrackingCode, "SPRING24", "tracking code")
	assertFloat(t, r.Commission, 12.5, "commission from string")
	assertFloat(t, r.FirstDeposit, 300, "first deposit")
	assertFloat(t, r.Volume, 0, "null volume")
	assertFloat(t, r.NetDeposits, -20, "net deposits")
	assertEqual(t, r.CeUserID, "98123", "numeric id as text")

	assertEqual(t, r.QualificationDate.IsNull(), true, "null qualification date")
	assertEqual(t, r.CreatedAt.Valid(), true, "created at parsed")
	assertEqual(t, r.RegistrationDate.Day(nil), "2024-01-04", "snake_case key")
	assertEqual(t, r.FirstDepositDate.Valid(), false, "unparseable date")
	assertEqual(t, r.FirstDepositDate.IsNull(), false, "unparseable date is not null")
	assertEqual(t, r.EffectiveDate().Day(nil), "2024-01-05", "effective date falls back to created at")

	assertEqual(t, r.Get("user.email"), any("ana@example.com"), "extra payload")
}

func TestRecordUnmarshalRejectsNonObject(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`[1,2,3]`), &r); err == nil {
		t.Error("expected an error for a JSON array")
	}
}

func TestRecordIsDefaultTracking(t *testing.T) {
	for code, want := range map[string]bool{
		"default":   true,
		"DEFAULT":   true,
		" Default ": true,
		"spring":    false,
		"":          false,
	} {
		r := Record{TrackingCode: code}
		assertEqual(t, r.IsDefaultTracking(), want, code)
	}
}

func TestTimestampStates(t *testing.T) {
	null := ParseTimestamp("  ")
	assertEqual(t, null.IsNull(), true, "blank is null")
	assertEqual(t, null.Day(nil), "", "null day")

	bad := ParseTimestamp("31/31/2024")
	assertEqual(t, bad.IsNull(), false, "invalid is set")
	assertEqual(t, bad.Valid(), false, "invalid")
	assertEqual(t, bad.Day(nil), InvalidDateLabel, "invalid day")
	if _, ok := bad.UnixMilli(); ok {
		t.Error("invalid timestamp should have no epoch")
	}

	good := ParseTimestamp("2024-03-09 23:30:00")
	assertEqual(t, good.Day(nil), "2024-03-09", "utc day")
	tokyo := time.FixedZone("JST", 9*3600)
	assertEqual(t, good.Day(tokyo), "2024-03-10", "day in location")
}

func TestTimestampJSON(t *testing.T) {
	var holder struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
	}
	in := `{"a":"2024-01-02T03:04:05Z","b":null,"c":"nope","d":1704067200000}`
	if err := json.Unmarshal([]byte(in), &holder); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	assertEqual(t, holder.A.Valid(), true, "string date")
	assertEqual(t, holder.B.IsNull(), true, "null")
	assertEqual(t, holder.C.Valid(), false, "garbage")
	assertEqual(t, holder.D.Day(nil), "2024-01-01", "epoch millis")

	out, err := json.Marshal(holder)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":"2024-01-02T03:04:05Z","b":null,"c":"nope","d":"2024-01-01T00:00:00Z"}`
	assertEqual(t, string(out), want, "marshal")
}

func TestAffiliateNodeUnmarshal(t *testing.T) {
	in := `{
		"subAffiliateInfo": {"id": 7, "investedAmount": "500", "name": "North"},
		"registrations": [{"customerName": "A", "commission": 10}],
		"children": [{"sub_affiliate_info": {"id": "8", "name": "South"}, "registrations": []}]
	}`
	var n AffiliateNode
	if err := json.Unmarshal([]byte(in), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	assertEqual(t, n.SubAffiliateInfo.ID, "7", "id")
	assertFloat(t, n.SubAffiliateInfo.InvestedAmount, 500, "invested")
	assertEqual(t, len(n.Registrations), 1, "registrations")
	assertEqual(t, len(n.Children), 1, "children")
	assertEqual(t, n.Children[0].SubAffiliateInfo.Name, "South", "child name")
}
