package invoice

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"
)

// csvRow binds the identifying columns of an export row by header name.
// Monetary columns are read from the raw record so they can be cleaned first.
type csvRow struct {
	Customer string `csv:"Customer full name"`
	Date     string `csv:"Invoice date"`
	Number   string `csv:"Invoice number"`
}

var (
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
	moneyStripper = strings.NewReplacer("$", "", ",", "")
)

// LoadCSV reads an invoice export with a header row. Every column is kept.
// When both Amount and Open balance exist they are coerced to decimals; a
// single bad cell rejects the whole table with a *NumericConversionError.
func LoadCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("reading invoice CSV header: %w", err)
	}

	t := Table{columns: append([]string(nil), dec.Header()...)}
	for {
		var row csvRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, fmt.Errorf("reading invoice CSV row %d: %w", len(t.records)+1, err)
		}
		t.records = append(t.records, Record{
			Customer: row.Customer,
			Date:     row.Date,
			Number:   row.Number,
			Fields:   append([]string(nil), dec.Record()...),
		})
	}

	if err := coerceMoney(&t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Normalize builds a Table from a header and raw string rows, applying the
// same monetary coercion as LoadCSV. Rows shorter than the header are padded.
func Normalize(columns []string, rows [][]string) (Table, error) {
	t := Table{columns: append([]string(nil), columns...)}
	customerIdx := t.columnIndex(ColCustomer)
	dateIdx := t.columnIndex(ColDate)
	numberIdx := t.columnIndex(ColNumber)

	for _, raw := range rows {
		fields := make([]string, len(columns))
		copy(fields, raw)
		rec := Record{Fields: fields}
		rec.Customer = rec.Field(customerIdx)
		rec.Date = rec.Field(dateIdx)
		rec.Number = rec.Field(numberIdx)
		t.records = append(t.records, rec)
	}

	if err := coerceMoney(&t); err != nil {
		return Table{}, err
	}
	return t, nil
}

func coerceMoney(t *Table) error {
	amountIdx := t.columnIndex(ColAmount)
	balanceIdx := t.columnIndex(ColOpenBalance)
	if amountIdx < 0 || balanceIdx < 0 {
		return nil
	}

	for i := range t.records {
		rec := &t.records[i]

		balance, err := parseMoney(rec, balanceIdx)
		if err != nil {
			return &NumericConversionError{Row: i + 1, Column: ColOpenBalance, Value: rec.Field(balanceIdx), Err: err}
		}
		amount, err := parseMoney(rec, amountIdx)
		if err != nil {
			return &NumericConversionError{Row: i + 1, Column: ColAmount, Value: rec.Field(amountIdx), Err: err}
		}

		rec.Fields[balanceIdx] = cleanMoney(rec.Fields[balanceIdx])
		rec.Fields[amountIdx] = cleanMoney(rec.Fields[amountIdx])
		rec.OpenBalance = balance
		rec.Amount = amount
	}
	t.numeric = true
	return nil
}

func cleanMoney(raw string) string {
	return strings.TrimSpace(moneyStripper.Replace(raw))
}

func parseMoney(rec *Record, idx int) (decimal.Decimal, error) {
	if idx >= len(rec.Fields) {
		return decimal.Decimal{}, errors.New("missing value")
	}
	cleaned := cleanMoney(rec.Fields[idx])
	if cleaned == "" {
		return decimal.Decimal{}, errors.New("empty value")
	}
	return decimal.NewFromString(cleaned)
}
