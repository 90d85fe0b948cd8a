package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-07-01"` {
		t.Fatalf("unexpected serialization: %s", data)
	}

	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Month() != 7 {
		t.Errorf("unexpected month: %d", out.Month())
	}
}

func TestFlatTransferNullFields(t *testing.T) {
	data, err := json.Marshal(FlatTransfer{TransferFeeCurrency: "EUR"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	for _, want := range []string{`"player_age":null`, `"transfer_fee":null`, `"transfer_date":null`, `"market_value":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if !strings.Contains(s, `"player_name":""`) {
		t.Errorf("all fixed fields must be present even when empty: %s", s)
	}
}

func TestRawTransferBlocks(t *testing.T) {
	var empty RawTransfer
	if empty.PlayerBlock() != (RawPlayer{}) {
		t.Errorf("missing player block should default to empty")
	}
	if empty.FromClubBlock() != (RawClub{}) || empty.ToClubBlock() != (RawClub{}) {
		t.Errorf("missing club blocks should default to empty")
	}

	raw := RawTransfer{Player: &RawPlayer{Name: "X"}}
	if raw.PlayerBlock().Name != "X" {
		t.Errorf("present player block should be returned")
	}
}

func TestTransfersResponseDecoding(t *testing.T) {
	payload := `{"transfers": [
		{"player": {"id": 1, "name": "A", "age": "21"}, "fee": "€5M"},
		{"fee": "Loan"}
	]}`

	var resp TransfersResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(resp.Transfers))
	}
	if resp.Transfers[0].Player == nil || resp.Transfers[0].Player.Name != "A" {
		t.Errorf("unexpected first record: %+v", resp.Transfers[0])
	}
	if resp.Transfers[1].Player != nil {
		t.Errorf("absent player block should decode as nil")
	}
}
