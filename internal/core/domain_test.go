package core

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Food & Dining")
	if !ok || c != CategoryFood {
		t.Fatalf("ParseCategory(Food & Dining) = %q, %v", c, ok)
	}
	c, ok = ParseCategory(" Shopping ")
	if !ok || c != CategoryShopping {
		t.Fatalf("ParseCategory with whitespace = %q, %v", c, ok)
	}
	// Anything outside the closed set falls back to Other.
	c, ok = ParseCategory("Groceries")
	if ok || c != CategoryOther {
		t.Fatalf("ParseCategory(Groceries) = %q, %v; want Other, false", c, ok)
	}
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		Amount:      Money{Cents: 4550},
		Category:    CategoryFood,
		Description: "Lunch at Joe's",
		Date:        "2024-05-15",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	d := valid
	d.Description = "   "
	if err := d.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("blank description: got %v, want ErrEmptyDescription", err)
	}

	d = valid
	d.Amount = Money{Cents: -100}
	if err := d.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	d = valid
	d.Date = "15/05/2024"
	if err := d.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date: got %v, want ErrInvalidDate", err)
	}

	d = valid
	d.Category = "Groceries"
	if err := d.Validate(); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("unknown category: got %v, want ErrUnknownCategory", err)
	}

	// Zero amount is allowed: counts as a transaction, spends nothing.
	d = valid
	d.Amount = Money{}
	if err := d.Validate(); err != nil {
		t.Errorf("zero amount draft rejected: %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Draft{
		Amount:      Money{Cents: 100},
		Category:    CategoryOther,
		Description: "x",
		Date:        "2024-01-01",
	}.WithID("abc")
	if err := tx.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}
	tx.ID = ""
	if err := tx.Validate(); err == nil {
		t.Fatal("transaction without id should not validate")
	}
}
