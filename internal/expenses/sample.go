package expenses

import "spendboard/internal/core"

// SampleExpenses returns the demo data the dashboard starts with, most
// recent first.
func SampleExpenses() []core.Expense {
	return []core.Expense{
		{ID: "1", Description: "Grocery Shopping", Amount: core.Money{Cents: 12750}, Category: core.Food, Date: core.NewDate(2025, 11, 28), BankAccountID: "chase"},
		{ID: "2", Description: "Electric Bill", Amount: core.Money{Cents: 8900}, Category: core.Utilities, Date: core.NewDate(2025, 11, 27), BankAccountID: "wells"},
		{ID: "3", Description: "Netflix Subscription", Amount: core.Money{Cents: 1599}, Category: core.Entertainment, Date: core.NewDate(2025, 11, 26), BankAccountID: "chase"},
		{ID: "4", Description: "Gas Station", Amount: core.Money{Cents: 4500}, Category: core.Transportation, Date: core.NewDate(2025, 11, 25), BankAccountID: "amex"},
		{ID: "5", Description: "Restaurant Dinner", Amount: core.Money{Cents: 6850}, Category: core.Food, Date: core.NewDate(2025, 11, 24), BankAccountID: "citi"},
		{ID: "6", Description: "Gym Membership", Amount: core.Money{Cents: 4999}, Category: core.Health, Date: core.NewDate(2025, 11, 23), BankAccountID: "chase"},
		{ID: "7", Description: "Coffee Shop", Amount: core.Money{Cents: 1250}, Category: core.Food, Date: core.NewDate(2025, 11, 22), BankAccountID: "amex"},
		{ID: "8", Description: "Online Course", Amount: core.Money{Cents: 9900}, Category: core.Education, Date: core.NewDate(2025, 11, 20), BankAccountID: "wells"},
	}
}
