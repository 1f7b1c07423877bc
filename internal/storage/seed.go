package storage

import "smartspend/internal/core"

// SeedTransactions is the built-in starter collection. It is handed out
// whenever the persisted snapshot is absent or unreadable, so a fresh or
// corrupted install never presents an empty, broken dashboard.
func SeedTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Amount: core.Money{Cents: 4550}, Category: core.CategoryFood, Description: "Lunch at Joe's", Date: "2024-05-15"},
		{ID: "2", Amount: core.Money{Cents: 120000}, Category: core.CategoryBills, Description: "Rent", Date: "2024-05-01"},
		{ID: "3", Amount: core.Money{Cents: 6500}, Category: core.CategoryShopping, Description: "New Sneakers", Date: "2024-05-10"},
		{ID: "4", Amount: core.Money{Cents: 1520}, Category: core.CategoryTransport, Description: "Uber ride", Date: "2024-05-12"},
		{ID: "5", Amount: core.Money{Cents: 3000}, Category: core.CategoryEntertainment, Description: "Movie tickets", Date: "2024-05-14"},
	}
}
