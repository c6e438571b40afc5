package invoice

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripCSV = `Customer full name,Invoice date,Invoice number,Amount,Open balance
Acme,2024-01-01,INV-1,"$1,000.00",$500.00
Acme,2024-01-02,INV-2,$200.00,$0.00
`

func loadTestdata(t *testing.T) Table {
	t.Helper()
	f, err := os.Open("testdata/invoices.csv")
	require.NoError(t, err)
	defer f.Close()

	tbl, err := LoadCSV(f)
	require.NoError(t, err)
	return tbl
}

func TestLoadCSV_CoercesMoney(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(roundTripCSV))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Numeric())

	recs := tbl.Records()
	assert.Equal(t, "Acme", recs[0].Customer)
	assert.Equal(t, "2024-01-01", recs[0].Date)
	assert.Equal(t, "INV-1", recs[0].Number)
	assert.Equal(t, "1000.00", recs[0].Amount.StringFixed(2))
	assert.Equal(t, "500.00", recs[0].OpenBalance.StringFixed(2))
	assert.True(t, recs[1].OpenBalance.IsZero())

	// Cleaned strings replace the raw monetary cells.
	assert.Equal(t, []string{"Acme", "2024-01-01", "INV-1", "1000.00", "500.00"}, recs[0].Fields)
}

func TestLoadCSV_KeepsAllColumns(t *testing.T) {
	tbl := loadTestdata(t)

	assert.Equal(t, []string{ColCustomer, ColDate, ColNumber, ColAmount, ColOpenBalance, "Memo"}, tbl.Columns())
	require.Equal(t, 7, tbl.Len())

	recs := tbl.Records()
	assert.Equal(t, "first half paid", recs[0].Field(5))
	assert.Equal(t, "", recs[1].Field(5))
	assert.Equal(t, "12345.67", recs[3].Amount.StringFixed(2))
	assert.Equal(t, "-20.00", recs[4].OpenBalance.StringFixed(2))
}

func TestLoadCSV_ColumnOrderIndependent(t *testing.T) {
	csv := "Open balance,Invoice number,Amount,Customer full name,Invoice date\n$5.00,INV-9,$9.00,Wayne,2024-02-02\n"
	tbl, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	rec := tbl.Records()[0]
	assert.Equal(t, "Wayne", rec.Customer)
	assert.Equal(t, "INV-9", rec.Number)
	assert.Equal(t, "9.00", rec.Amount.StringFixed(2))
	assert.Equal(t, "5.00", rec.OpenBalance.StringFixed(2))
}

func TestLoadCSV_StripsBOM(t *testing.T) {
	csv := "\ufeff" + roundTripCSV
	tbl, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, ColCustomer, tbl.Columns()[0])
	assert.Equal(t, "Acme", tbl.Records()[0].Customer)
}

func TestLoadCSV_MissingMoneyColumnsLeftAlone(t *testing.T) {
	csv := "Customer full name,Invoice date,Invoice number,Amount\nAcme,2024-01-01,INV-1,\"$1,000.00\"\n"
	tbl, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, tbl.Numeric())
	assert.Equal(t, "$1,000.00", tbl.Records()[0].Field(3))
	assert.True(t, tbl.Records()[0].Amount.IsZero())
}

func TestLoadCSV_BadNumberRejectsTable(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		row    int
		column string
		value  string
	}{
		{
			name:   "text amount",
			csv:    "Customer full name,Amount,Open balance\nA,$1.00,$1.00\nB,n/a,$0.00\n",
			row:    2,
			column: ColAmount,
			value:  "n/a",
		},
		{
			name:   "blank balance",
			csv:    "Customer full name,Amount,Open balance\nA,$1.00,\n",
			row:    1,
			column: ColOpenBalance,
			value:  "",
		},
		{
			name:   "accounting parentheses",
			csv:    "Customer full name,Amount,Open balance\nA,($5.00),$0.00\n",
			row:    1,
			column: ColAmount,
			value:  "($5.00)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := LoadCSV(strings.NewReader(tt.csv))
			require.Error(t, err)

			var convErr *NumericConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, tt.row, convErr.Row)
			assert.Equal(t, tt.column, convErr.Column)
			assert.Equal(t, tt.value, convErr.Value)
			assert.Contains(t, err.Error(), "error converting columns to numeric")

			assert.True(t, tbl.Empty())
			assert.Empty(t, tbl.Columns())
		})
	}
}

func TestLoadCSV_EmptyInput(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
	assert.Empty(t, tbl.Columns())
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader("Customer full name,Amount,Open balance\n"))
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
	assert.Len(t, tbl.Columns(), 3)
}

func TestLoadCSV_RaggedRow(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("Customer full name,Amount,Open balance\nA,$1.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading invoice CSV row 1")
}

func TestNormalize(t *testing.T) {
	cols := []string{ColCustomer, ColNumber, ColAmount, ColOpenBalance, "Id"}
	rows := [][]string{
		{"Acme", "1001", "150.5", "150.5", "7"},
		{"Globex", "1002", "99", "0"},
	}
	tbl, err := Normalize(cols, rows)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	recs := tbl.Records()
	assert.Equal(t, "Acme", recs[0].Customer)
	assert.Equal(t, "1001", recs[0].Number)
	assert.Equal(t, "", recs[0].Date)
	assert.Equal(t, "150.50", recs[0].Amount.StringFixed(2))
	assert.Equal(t, "7", recs[0].Field(4))
	assert.Len(t, recs[1].Fields, 5, "short rows are padded to the header")
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	rows := [][]string{{"Acme", "$1.00", "$1.00"}}
	_, err := Normalize([]string{ColCustomer, ColAmount, ColOpenBalance}, rows)
	require.NoError(t, err)
	assert.Equal(t, "$1.00", rows[0][1])
}

func TestTableAccessorsCopy(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(roundTripCSV))
	require.NoError(t, err)

	cols := tbl.Columns()
	cols[0] = "changed"
	recs := tbl.Records()
	recs[0].Customer = "changed"

	assert.Equal(t, ColCustomer, tbl.Columns()[0])
	assert.Equal(t, "Acme", tbl.Records()[0].Customer)
}
