package qbapi

import (
	"context"
	"fmt"
	"net/url"
)

// pageSize is the largest MAXRESULTS the query endpoint accepts.
const pageSize = 1000

// Invoice is one invoice entity as returned by the query endpoint. Numbers
// are json.Number so amounts stay exact.
type Invoice map[string]any

type queryResponse struct {
	QueryResponse struct {
		Invoice       []Invoice `json:"Invoice"`
		StartPosition int       `json:"startPosition"`
		MaxResults    int       `json:"maxResults"`
	} `json:"QueryResponse"`
}

// QueryInvoices runs SELECT * FROM Invoice and follows pages until a short
// page comes back.
func (c *Client) QueryInvoices(ctx context.Context) ([]Invoice, error) {
	var all []Invoice
	for start := 1; ; start += pageSize {
		page, err := c.queryInvoicePage(ctx, start)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) queryInvoicePage(ctx context.Context, start int) ([]Invoice, error) {
	query := url.Values{}
	query.Set("query", invoiceQuery(start))

	var out queryResponse
	if err := c.get(ctx, c.companyPath("/query"), query, &out); err != nil {
		return nil, err
	}
	return out.QueryResponse.Invoice, nil
}

func invoiceQuery(start int) string {
	if start <= 1 {
		return fmt.Sprintf("SELECT * FROM Invoice MAXRESULTS %d", pageSize)
	}
	return fmt.Sprintf("SELECT * FROM Invoice STARTPOSITION %d MAXRESULTS %d", start, pageSize)
}
