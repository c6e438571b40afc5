package report

import (
	"github.com/shopspring/decimal"

	"github.com/lachiem1/tallyUp/internal/invoice"
)

// Snapshot is one processing pass over a loaded table.
type Snapshot struct {
	Partition invoice.Partition
	// Err is the partition failure, if any. The partition is empty when set.
	Err error
}

// Build partitions t. Validation failures are kept on the Snapshot rather
// than returned so rendering can continue with empty results.
func Build(t invoice.Table) Snapshot {
	p, err := invoice.Split(t)
	return Snapshot{Partition: p, Err: err}
}

// CustomerInvoices is one customer's slice of a table.
type CustomerInvoices struct {
	Customer string
	Records  []invoice.Record
}

// HomeView is everything the landing screen shows.
type HomeView struct {
	Totals     []invoice.CustomerTotal
	GrandTotal decimal.Decimal
	// Groups lists customers with open invoices in order of first appearance.
	Groups []CustomerInvoices
}

// Empty reports whether there are no open invoices to show.
func (h HomeView) Empty() bool { return len(h.Groups) == 0 }

// Customers returns the drill-down choices in display order.
func (h HomeView) Customers() []string {
	names := make([]string, len(h.Groups))
	for i, g := range h.Groups {
		names[i] = g.Customer
	}
	return names
}

// Home builds the landing view over the open invoices.
func (s Snapshot) Home() HomeView {
	open := s.Partition.Open
	view := HomeView{
		Totals:     invoice.SortedTotals(open),
		GrandTotal: invoice.GrandTotal(open),
	}
	for _, name := range invoice.Customers(open) {
		view.Groups = append(view.Groups, CustomerInvoices{
			Customer: name,
			Records:  invoice.ForCustomer(open, name).Records(),
		})
	}
	return view
}

// DetailView is one customer's full history.
type DetailView struct {
	Customer     string
	CurrentlyDue []invoice.Record
	AlreadyPaid  []invoice.Record
}

// Found reports whether the customer has any invoice at all.
func (d DetailView) Found() bool { return d.HasDue() || d.HasPaid() }

// HasDue reports whether anything is still owing.
func (d DetailView) HasDue() bool { return len(d.CurrentlyDue) > 0 }

// HasPaid reports whether any invoice is settled.
func (d DetailView) HasPaid() bool { return len(d.AlreadyPaid) > 0 }

// CustomerDetail returns every invoice for customer from both sides of the
// partition. CurrentlyDue holds positive balances, AlreadyPaid the rest.
func (s Snapshot) CustomerDetail(customer string) DetailView {
	rows := invoice.ForCustomer(s.Partition.All(), customer)
	view := DetailView{Customer: customer}
	for _, r := range rows.Records() {
		if r.IsOpen() {
			view.CurrentlyDue = append(view.CurrentlyDue, r)
		} else {
			view.AlreadyPaid = append(view.AlreadyPaid, r)
		}
	}
	return view
}
