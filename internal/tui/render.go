package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/report"
)

var (
	headingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FA8FF")).Bold(true)
	subheadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4CDE9"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Bold(true)
	accentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Bold(true)
	borderColor     = lipgloss.Color("#6CBFE6")

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)
	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#F47A60")).
				Bold(true)
)

const amountColumn = 2

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers...)
}

func renderInvoiceTable(records []invoice.Record) string {
	t := newTable(invoice.ColDate, invoice.ColNumber, invoice.ColAmount).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("#87CEEB"))
			}
			if col == amountColumn {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	for _, r := range records {
		t.Row(r.Date, r.Number, report.FormatAmount(r.Amount))
	}
	return t.String()
}

func renderTotalsTable(totals []invoice.CustomerTotal) string {
	t := newTable(invoice.ColCustomer, invoice.ColAmount).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("#87CEEB"))
			}
			if col == 1 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	for _, ct := range totals {
		t.Row(ct.Customer, report.FormatAmount(ct.Total))
	}
	return t.String()
}

func renderButton(label string, active bool) string {
	if active {
		return activeButtonStyle.Render("[ " + label + " ]")
	}
	return buttonStyle.Render("[ " + label + " ]")
}

// renderHomeBody lays out the landing screen. selected is the highlighted
// customer group, or -1 for none. The second result is the line on which the
// selected group starts, so callers can scroll it into view.
func renderHomeBody(view report.HomeView, selected int) (string, int) {
	if view.Empty() {
		return warnStyle.Render("No current invoices to display."), 0
	}

	var lines []string
	add := func(block string) {
		lines = append(lines, strings.Split(block, "\n")...)
	}

	add(headingStyle.Render("Total Amount Owed By Client"))
	add(renderTotalsTable(view.Totals))
	add(okStyle.Render("Overall Total: " + report.FormatTotal(view.GrandTotal)))
	add("")
	add(headingStyle.Render("Current Invoices"))

	anchor := 0
	for i, g := range view.Groups {
		add("")
		marker := "  "
		if i == selected {
			marker = accentStyle.Render("> ")
			anchor = len(lines)
		}
		add(marker + subheadingStyle.Render(g.Customer))
		add(renderInvoiceTable(g.Records))
		add(renderButton("See Past Invoices for "+g.Customer, i == selected))
	}
	return strings.Join(lines, "\n"), anchor
}

// renderDetailBody lays out one customer's history.
func renderDetailBody(view report.DetailView) string {
	blocks := []string{headingStyle.Render("All Invoices for " + view.Customer), ""}

	if !view.Found() {
		blocks = append(blocks, warnStyle.Render(fmt.Sprintf("No invoices found for %s.", view.Customer)))
	} else {
		if view.HasDue() {
			blocks = append(blocks, subheadingStyle.Render("Currently Due"), renderInvoiceTable(view.CurrentlyDue))
		} else {
			blocks = append(blocks, mutedStyle.Render("No Currently Due Invoices for this customer."))
		}
		blocks = append(blocks, "")
		if view.HasPaid() {
			blocks = append(blocks, subheadingStyle.Render("Already Paid"), renderInvoiceTable(view.AlreadyPaid))
		} else {
			blocks = append(blocks, mutedStyle.Render("No Already Paid Invoices for this customer."))
		}
	}

	blocks = append(blocks, "", renderButton("Return to Home Page", true))
	return strings.Join(blocks, "\n")
}

// RenderHome returns the landing screen as static text.
func RenderHome(snap report.Snapshot) string {
	body, _ := renderHomeBody(snap.Home(), -1)
	if snap.Err != nil {
		return warnStyle.Render(errorText(snap.Err)) + "\n\n" + body
	}
	return body
}

// RenderCustomerDetail returns one customer's history as static text.
func RenderCustomerDetail(snap report.Snapshot, customer string) string {
	body := renderDetailBody(snap.CustomerDetail(customer))
	if snap.Err != nil {
		return warnStyle.Render(errorText(snap.Err)) + "\n\n" + body
	}
	return body
}

func errorText(err error) string {
	msg := err.Error()
	if msg == "" {
		return ""
	}
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
