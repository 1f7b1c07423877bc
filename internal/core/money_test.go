package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"45.50", 4550, false},
		{"45,50", 4550, false},
		{"1200", 120000, false},
		{"0", 0, false}, // zero amounts are legal, they count without spending
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, c := range cases {
		got, err := ParseDecimalToCents(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	// Fractional amounts keep two decimals, whole amounts stay integers —
	// the exact shapes the persisted snapshot uses.
	b, err := json.Marshal(Money{Cents: 4550})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "45.50" {
		t.Fatalf("marshal 4550 cents = %s, want 45.50", b)
	}
	b, _ = json.Marshal(Money{Cents: 120000})
	if string(b) != "1200" {
		t.Fatalf("marshal 120000 cents = %s, want 1200", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("15.2"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 1520 {
		t.Fatalf("unmarshal 15.2 = %d cents, want 1520", m.Cents)
	}
	if err := json.Unmarshal([]byte("-3"), &m); err == nil {
		t.Fatal("unmarshal -3 should fail, amounts are non-negative")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Errorf("zero amount should validate: %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Error("negative amount should not validate")
	}
}
