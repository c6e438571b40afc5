package qbapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func stubClient(fn roundTripFunc, opts ...Option) *Client {
	opts = append(opts, WithHTTPClient(&http.Client{Transport: fn}))
	return NewWithBaseURL("test-token", "123", "https://example.test", opts...)
}

func TestNewDefaults(t *testing.T) {
	c := New("tok", "realm")
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, defaultMinorVersion, c.minorVersion)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, "realm", c.RealmID())

	c = New("tok", "realm", WithTimeout(3*time.Second), WithMinorVersion("70"))
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "70", c.minorVersion)

	c = NewWithBaseURL("tok", "realm", "")
	assert.Equal(t, defaultBaseURL, c.baseURL)
}

func TestQueryInvoicesRequest(t *testing.T) {
	var seenReq *http.Request
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		seenReq = req
		return jsonResponse(http.StatusOK, `{"QueryResponse":{"Invoice":[]}}`), nil
	})

	invoices, err := client.QueryInvoices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, invoices)

	require.NotNil(t, seenReq)
	assert.Equal(t, http.MethodGet, seenReq.Method)
	assert.Equal(t, "/v3/company/123/query", seenReq.URL.Path)
	assert.Equal(t, "SELECT * FROM Invoice MAXRESULTS 1000", seenReq.URL.Query().Get("query"))
	assert.Equal(t, defaultMinorVersion, seenReq.URL.Query().Get("minorversion"))
	assert.Equal(t, "Bearer test-token", seenReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json", seenReq.Header.Get("Accept"))
}

func TestQueryInvoicesKeepsExactNumbers(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"QueryResponse":{"Invoice":[
			{"Id":"1","DocNumber":"1001","TotalAmt":1234.10,"Balance":0.30,"CustomerRef":{"value":"7","name":"Acme"}}
		]}}`), nil
	})

	invoices, err := client.QueryInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, json.Number("1234.10"), invoices[0]["TotalAmt"])
	assert.Equal(t, json.Number("0.30"), invoices[0]["Balance"])
	ref, ok := invoices[0]["CustomerRef"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", ref["name"])
}

func TestQueryInvoicesFollowsPages(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query().Get("query")
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()

		count := pageSize
		if strings.Contains(q, "STARTPOSITION 1001") {
			count = 2
		}
		items := make([]string, count)
		for i := range items {
			items[i] = fmt.Sprintf(`{"Id":"%d"}`, i)
		}
		return jsonResponse(http.StatusOK,
			`{"QueryResponse":{"Invoice":[`+strings.Join(items, ",")+`]}}`), nil
	})

	invoices, err := client.QueryInvoices(context.Background())
	require.NoError(t, err)
	assert.Len(t, invoices, pageSize+2)
	assert.Equal(t, []string{
		"SELECT * FROM Invoice MAXRESULTS 1000",
		"SELECT * FROM Invoice STARTPOSITION 1001 MAXRESULTS 1000",
	}, queries)
}

func TestQueryInvoicesNon200(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"fault":"AuthenticationFailed"}`), nil
	})

	_, err := client.QueryInvoices(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "AuthenticationFailed")
	assert.Contains(t, err.Error(), "status 401")
}

func TestQueryInvoicesTransportError(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := client.QueryInvoices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestQueryInvoicesBadJSON(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"QueryResponse":`), nil
	})

	_, err := client.QueryInvoices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestPing(t *testing.T) {
	var seenPath string
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		seenPath = req.URL.Path
		return jsonResponse(http.StatusOK, `{"CompanyInfo":{"CompanyName":"Sandbox Co"}}`), nil
	})

	name, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sandbox Co", name)
	assert.Equal(t, "/v3/company/123/companyinfo/123", seenPath)
}

func TestRequestLoggingMasksToken(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"QueryResponse":{}}`), nil
	}, WithLogger(zap.New(core)))

	_, err := client.QueryInvoices(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, logs.FilterMessage("quickbooks request").All())
	for _, entry := range logs.All() {
		raw, err := json.Marshal(entry.ContextMap())
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "test-token")
	}
}
