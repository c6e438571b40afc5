package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/logging"
)

type fileStamp struct {
	size    int64
	modTime time.Time
}

// CSVFile loads an invoice export from disk. The parsed table is reused
// until the file's size or modification time changes. A CSVFile is not safe
// for concurrent use.
type CSVFile struct {
	path   string
	logger *zap.Logger

	stamp  fileStamp
	cached *invoice.Table
}

// NewCSVFile returns a source reading path.
func NewCSVFile(path string, logger *zap.Logger) *CSVFile {
	return &CSVFile{path: path, logger: logging.OrNop(logger)}
}

// Path returns the file the source reads.
func (s *CSVFile) Path() string { return s.path }

func (s *CSVFile) Name() string { return "CSV " + s.path }

// Load parses the file, or returns the memoized table when it is unchanged.
func (s *CSVFile) Load(ctx context.Context) (invoice.Table, error) {
	if err := ctx.Err(); err != nil {
		return invoice.Table{}, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return invoice.Table{}, fmt.Errorf("stat invoice CSV %s: %w", s.path, err)
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}
	if s.cached != nil && s.stamp == stamp {
		s.logger.Debug("csv cache hit", zap.String("path", s.path))
		return *s.cached, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return invoice.Table{}, fmt.Errorf("open invoice CSV %s: %w", s.path, err)
	}
	defer f.Close()

	table, err := invoice.LoadCSV(f)
	if err != nil {
		s.logger.Warn("csv load failed", zap.String("path", s.path), zap.Error(err))
		return invoice.Table{}, err
	}

	s.logger.Info("csv loaded",
		zap.String("path", s.path),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns())),
	)
	s.stamp = stamp
	s.cached = &table
	return table, nil
}

// Invalidate forces the next Load to re-read the file.
func (s *CSVFile) Invalidate() {
	s.cached = nil
}
