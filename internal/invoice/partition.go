package invoice

// Partition splits one table into invoices still owing and the rest.
type Partition struct {
	Open   Table
	Closed Table
}

// All returns the open rows followed by the closed rows.
func (p Partition) All() Table {
	return p.Open.Concat(p.Closed)
}

// Split places each record with a positive open balance in Open and every
// other record, including credits with a negative balance, in Closed. Row
// order is kept on both sides.
//
// The table must be non-empty and carry a numeric Open balance column;
// otherwise Split returns an empty Partition and a *ValidationError.
func Split(t Table) (Partition, error) {
	if t.Empty() {
		return Partition{}, &ValidationError{Err: ErrEmptyData}
	}
	if !t.HasColumn(ColOpenBalance) {
		return Partition{}, &ValidationError{Column: ColOpenBalance, Err: ErrMissingColumn}
	}
	if !t.Numeric() {
		return Partition{}, &ValidationError{Column: ColOpenBalance, Err: ErrNotNumeric}
	}

	return Partition{
		Open:   t.Filter(Record.IsOpen),
		Closed: t.Filter(func(r Record) bool { return !r.IsOpen() }),
	}, nil
}
