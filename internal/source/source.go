// Package source loads invoice tables from the places tallyup can read them:
// a CSV export on disk or a QuickBooks Online company.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/qbapi"
)

// Kind names a source type in config and on the command line.
type Kind string

const (
	KindCSV        Kind = "csv"
	KindQuickBooks Kind = "quickbooks"
)

// Kinds lists the accepted source kinds.
func Kinds() []Kind { return []Kind{KindCSV, KindQuickBooks} }

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCSV:
		return KindCSV, nil
	case KindQuickBooks, "qb":
		return KindQuickBooks, nil
	}
	return "", fmt.Errorf("unknown source %q: must be one of %v", s, Kinds())
}

// Source produces a normalized invoice table.
type Source interface {
	// Name describes the source for status lines.
	Name() string
	Load(ctx context.Context) (invoice.Table, error)
}

// Invalidator is implemented by sources that memoize their last load.
type Invalidator interface {
	Invalidate()
}

// Invalidate drops any memoized table held by s.
func Invalidate(s Source) {
	if inv, ok := s.(Invalidator); ok {
		inv.Invalidate()
	}
}

// RemoteSourceError reports a failed fetch from the accounting API.
type RemoteSourceError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *RemoteSourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load data from QuickBooks (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("failed to load data from QuickBooks: %v", e.Err)
}

func (e *RemoteSourceError) Unwrap() error { return e.Err }

func remoteError(err error) error {
	remote := &RemoteSourceError{Err: err}
	var statusErr *qbapi.StatusError
	if errors.As(err, &statusErr) {
		remote.StatusCode = statusErr.StatusCode
	}
	return remote
}
