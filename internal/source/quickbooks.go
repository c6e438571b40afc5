package source

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/logging"
	"github.com/lachiem1/tallyUp/internal/qbapi"
)

// InvoiceQuerier fetches raw invoices. *qbapi.Client satisfies it.
type InvoiceQuerier interface {
	QueryInvoices(ctx context.Context) ([]qbapi.Invoice, error)
}

// canonicalFields maps flattened QuickBooks keys onto export column names.
var canonicalFields = []struct {
	key    string
	column string
}{
	{"CustomerRef.name", invoice.ColCustomer},
	{"TxnDate", invoice.ColDate},
	{"DocNumber", invoice.ColNumber},
	{"TotalAmt", invoice.ColAmount},
	{"Balance", invoice.ColOpenBalance},
}

// QuickBooks loads invoices from a QuickBooks Online company. A successful
// load is kept until Invalidate. A QuickBooks is not safe for concurrent use.
type QuickBooks struct {
	client  InvoiceQuerier
	realm   string
	timeout time.Duration
	logger  *zap.Logger

	cached *invoice.Table
}

// NewQuickBooks wraps client. A zero timeout means no extra deadline beyond
// the client's own.
func NewQuickBooks(client InvoiceQuerier, realm string, timeout time.Duration, logger *zap.Logger) *QuickBooks {
	return &QuickBooks{
		client:  client,
		realm:   realm,
		timeout: timeout,
		logger:  logging.OrNop(logger),
	}
}

func (s *QuickBooks) Name() string { return "QuickBooks company " + s.realm }

// Load queries every invoice and normalizes them into a table. Any API
// failure comes back as a *RemoteSourceError with an empty table.
func (s *QuickBooks) Load(ctx context.Context) (invoice.Table, error) {
	if s.cached != nil {
		return *s.cached, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.client.QueryInvoices(ctx)
	if err != nil {
		s.logger.Warn("quickbooks load failed", zap.String("realm", s.realm), zap.Error(err))
		return invoice.Table{}, remoteError(err)
	}

	columns, rows := FlattenInvoices(raw)
	table, err := invoice.Normalize(columns, rows)
	if err != nil {
		return invoice.Table{}, err
	}

	s.logger.Info("quickbooks loaded",
		zap.String("realm", s.realm),
		zap.Int("rows", table.Len()),
		zap.Duration("elapsed", time.Since(started)),
	)
	s.cached = &table
	return table, nil
}

// Invalidate forces the next Load to query the API again.
func (s *QuickBooks) Invalidate() {
	s.cached = nil
}

// FlattenInvoices turns API entities into a header and string rows. Nested
// objects are flattened with "." separators. The five export columns come
// first, then every other key sorted by name.
func FlattenInvoices(invoices []qbapi.Invoice) ([]string, [][]string) {
	flat := make([]map[string]string, len(invoices))
	extra := map[string]struct{}{}
	canonical := map[string]bool{}
	for _, f := range canonicalFields {
		canonical[f.key] = true
	}

	for i, inv := range invoices {
		m := map[string]string{}
		flatten("", map[string]any(inv), m)
		flat[i] = m
		for k := range m {
			if !canonical[k] {
				extra[k] = struct{}{}
			}
		}
	}

	extraKeys := make([]string, 0, len(extra))
	for k := range extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)

	columns := make([]string, 0, len(canonicalFields)+len(extraKeys))
	keys := make([]string, 0, cap(columns))
	for _, f := range canonicalFields {
		columns = append(columns, f.column)
		keys = append(keys, f.key)
	}
	columns = append(columns, extraKeys...)
	keys = append(keys, extraKeys...)

	rows := make([][]string, len(flat))
	for i, m := range flat {
		row := make([]string, len(keys))
		for j, k := range keys {
			row[j] = m[k]
		}
		rows[i] = row
	}
	return columns, rows
}

func flatten(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	default:
		out[prefix] = cellString(v)
	}
}

func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
