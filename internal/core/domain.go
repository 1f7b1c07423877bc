package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealth        Category = "Health & Wellness"
	CategoryOther         Category = "Other"
)

// DateLayout is the only accepted date form: calendar day, no time, no zone.
const DateLayout = "2006-01-02"

type (
	Category string

	// Transaction is a single recorded expense.
	Transaction struct {
		ID          string   `json:"id"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description"`
		Date        string   `json:"date"`
	}

	// Draft is a transaction before the store assigns it an ID.
	Draft struct {
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description"`
		Date        string   `json:"date"`
	}

	// AIInsight is a model-generated observation about spending.
	// Insights are ephemeral and never persisted.
	AIInsight struct {
		Title   string      `json:"title"`
		Content string      `json:"content"`
		Type    InsightType `json:"type"`
	}

	InsightType string

	// Budget pairs a category with a spending limit. Reserved for a future
	// budgeting feature; nothing reads or writes it yet.
	Budget struct {
		Category Category `json:"category"`
		Limit    Money    `json:"limit"`
	}
)

const (
	InsightSaving  InsightType = "saving"
	InsightWarning InsightType = "warning"
	InsightTip     InsightType = "tip"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownCategory  = errors.New("unknown category")
)

// Categories lists every member of the closed category set, Other last.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealth,
		CategoryOther,
	}
}

// ParseCategory maps an external string onto the closed category set.
// Unrecognized values map to Other with ok=false so the single entry point
// for external data (the AI gateway) can apply the fallback policy.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.TrimSpace(s))
	for _, known := range Categories() {
		if c == known {
			return known, true
		}
	}
	return CategoryOther, false
}

// ValidateDate checks the YYYY-MM-DD form.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (t InsightType) Valid() bool {
	switch t {
	case InsightSaving, InsightWarning, InsightTip:
		return true
	}
	return false
}

func (d Draft) Validate() error {
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if _, ok := ParseCategory(string(d.Category)); !ok {
		return ErrUnknownCategory
	}
	return ValidateDate(d.Date)
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("empty transaction id")
	}
	return t.Draft().Validate()
}

// Draft returns the transaction without its identity, the shape used for
// creation and for AI-parsed input.
func (t Transaction) Draft() Draft {
	return Draft{
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
	}
}

// WithID promotes a draft to a full transaction.
func (d Draft) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
	}
}
