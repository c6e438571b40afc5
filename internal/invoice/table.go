package invoice

import "github.com/shopspring/decimal"

// Column names recognised in invoice exports.
const (
	ColCustomer    = "Customer full name"
	ColDate        = "Invoice date"
	ColNumber      = "Invoice number"
	ColAmount      = "Amount"
	ColOpenBalance = "Open balance"
)

// Record is one invoice row.
type Record struct {
	Customer    string
	Date        string
	Number      string
	Amount      decimal.Decimal
	OpenBalance decimal.Decimal

	// Fields holds every cell of the source row in Table column order.
	// Monetary cells hold the cleaned string once the table is normalized.
	Fields []string
}

// IsOpen reports whether the invoice still has money owing.
func (r Record) IsOpen() bool {
	return r.OpenBalance.IsPositive()
}

// Field returns the cell for column i, or "" when the row is short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Table is an ordered set of invoice records sharing one column set.
type Table struct {
	columns []string
	records []Record
	numeric bool
}

// Columns returns the header in source order.
func (t Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Records returns the rows in source order.
func (t Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.records) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.records) == 0 }

// HasColumn reports whether name is in the header.
func (t Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Numeric reports whether Amount and Open balance were coerced to decimals.
func (t Table) Numeric() bool { return t.numeric }

func (t Table) columnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Filter returns the records accepted by keep, in order, under the same header.
func (t Table) Filter(keep func(Record) bool) Table {
	out := Table{columns: t.columns, numeric: t.numeric}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Concat appends the rows of other to t. Both tables must share a header;
// when they do not, the header of t wins.
func (t Table) Concat(other Table) Table {
	cols := t.columns
	if len(cols) == 0 {
		cols = other.columns
	}
	out := Table{
		columns: cols,
		numeric: (t.numeric || t.Empty()) && (other.numeric || other.Empty()),
		records: make([]Record, 0, len(t.records)+len(other.records)),
	}
	out.records = append(out.records, t.records...)
	out.records = append(out.records, other.records...)
	return out
}
