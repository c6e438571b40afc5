package invoice

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CustomerTotal is the summed Amount of one customer's open invoices.
type CustomerTotal struct {
	Customer string
	Total    decimal.Decimal
}

// TotalsByCustomer sums Amount per customer name. Names match exactly.
func TotalsByCustomer(open Table) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range open.records {
		totals[r.Customer] = totals[r.Customer].Add(r.Amount)
	}
	return totals
}

// SortedTotals returns TotalsByCustomer ordered by customer name.
func SortedTotals(open Table) []CustomerTotal {
	totals := TotalsByCustomer(open)
	out := make([]CustomerTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CustomerTotal{Customer: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Customer < out[j].Customer })
	return out
}

// GrandTotal sums Amount over every record regardless of customer.
func GrandTotal(open Table) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range open.records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// Customers returns the distinct customer names in order of first appearance.
func Customers(t Table) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range t.records {
		if seen[r.Customer] {
			continue
		}
		seen[r.Customer] = true
		names = append(names, r.Customer)
	}
	return names
}

// ForCustomer returns the rows belonging to name, in order.
func ForCustomer(t Table, name string) Table {
	return t.Filter(func(r Record) bool { return r.Customer == name })
}
