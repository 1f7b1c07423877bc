package core

import (
	"fmt"
	"time"
)

// Summary bundles the headline figures for the dashboard cards.
type Summary struct {
	Total   Money `json:"total"`
	Count   int   `json:"count"`
	Average Money `json:"average"`
}

// DayTotal is one entry of the trailing 7-day spending series.
type DayTotal struct {
	Date   string `json:"date"`
	Label  string `json:"label"` // display form, MM/DD
	Amount Money  `json:"amount"`
}

// TotalSpent sums every amount in the collection. Empty collection sums to 0.
func TotalSpent(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// AverageExpense is total/count with half-up cent rounding, 0 when empty.
func AverageExpense(txs []Transaction) Money {
	if len(txs) == 0 {
		return Money{}
	}
	total := TotalSpent(txs).Cents
	n := int64(len(txs))
	return Money{Cents: (total + n/2) / n}
}

// Summarize derives all headline figures from one pass over the collection.
func Summarize(txs []Transaction) Summary {
	return Summary{
		Total:   TotalSpent(txs),
		Count:   len(txs),
		Average: AverageExpense(txs),
	}
}

// CategoryTotals groups amounts by category. Categories without transactions
// are absent from the result, not zero-filled.
func CategoryTotals(txs []Transaction) map[Category]Money {
	totals := make(map[Category]Money)
	for _, t := range txs {
		m := totals[t.Category]
		m.Cents += t.Amount.Cents
		totals[t.Category] = m
	}
	return totals
}

// Last7Days produces exactly 7 entries, one per calendar day from ref-6
// through ref inclusive, chronologically ordered. A transaction counts toward
// a day when its date string equals that day; anything outside the window is
// excluded. Days without transactions carry amount 0.
func Last7Days(txs []Transaction, ref time.Time) []DayTotal {
	series := make([]DayTotal, 0, 7)
	index := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		d := ref.AddDate(0, 0, -i)
		date := d.Format(DateLayout)
		index[date] = len(series)
		series = append(series, DayTotal{
			Date:  date,
			Label: fmt.Sprintf("%02d/%02d", int(d.Month()), d.Day()),
		})
	}
	for _, t := range txs {
		if i, ok := index[t.Date]; ok {
			series[i].Amount.Cents += t.Amount.Cents
		}
	}
	return series
}
