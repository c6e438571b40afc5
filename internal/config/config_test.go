package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lachiem1/tallyUp/internal/source"
)

var envKeys = []string{
	"TALLYUP_SOURCE", "TALLYUP_CSV", "QUICKBOOKS_REALM_ID", "QUICKBOOKS_BASE_URL",
	"QUICKBOOKS_MINOR_VERSION", "QUICKBOOKS_TIMEOUT", "TALLYUP_LOG_PATH", "TALLYUP_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Source = "quickbooks"
	cfg.CSVPath = "/tmp/invoices.csv"
	cfg.QuickBooks.RealmID = "4620816365"
	cfg.QuickBooks.Timeout = 30 * time.Second
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "csv", cfg.Source)
	assert.Equal(t, "https://quickbooks.api.intuit.com", cfg.QuickBooks.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.QuickBooks.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, source.KindCSV, cfg.SourceKind())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: quickbooks\nquickbooks:\n  realm_id: \"123\"\n  timeout: 45s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quickbooks", cfg.Source)
	assert.Equal(t, "123", cfg.QuickBooks.RealmID)
	assert.Equal(t, 45*time.Second, cfg.QuickBooks.Timeout)
	assert.Equal(t, "75", cfg.QuickBooks.MinorVersion)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestResolveMissingFile(t *testing.T) {
	chdirForTest(t, t.TempDir())
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Resolve(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Resolve(missing, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TALLYUP_CSV=from-dotenv.csv\n"), 0o644))
	clearEnv(t)
	require.NoError(t, os.Unsetenv("TALLYUP_CSV"))
	t.Setenv("TALLYUP_SOURCE", "quickbooks")

	cfg, err := Resolve(filepath.Join(dir, "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.CSVPath)
	assert.Equal(t, "quickbooks", cfg.Source)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		"TALLYUP_SOURCE":      "quickbooks",
		"TALLYUP_CSV":         "  /data/x.csv ",
		"QUICKBOOKS_REALM_ID": "999",
		"QUICKBOOKS_BASE_URL": "https://sandbox-quickbooks.api.intuit.com",
		"QUICKBOOKS_TIMEOUT":  "20s",
		"TALLYUP_LOG_PATH":    "/tmp/t.log",
		"TALLYUP_LOG_LEVEL":   "debug",
	}))

	assert.Equal(t, "quickbooks", cfg.Source)
	assert.Equal(t, "/data/x.csv", cfg.CSVPath)
	assert.Equal(t, "999", cfg.QuickBooks.RealmID)
	assert.Equal(t, "https://sandbox-quickbooks.api.intuit.com", cfg.QuickBooks.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.QuickBooks.Timeout)
	assert.Equal(t, "/tmp/t.log", cfg.Log.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvIgnoresBlankAndBadValues(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		"TALLYUP_SOURCE":     "   ",
		"QUICKBOOKS_TIMEOUT": "soon",
	}))
	assert.Equal(t, Default(), cfg)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.Source = "sheets"
	cfg.QuickBooks.BaseURL = "ftp://example.test"
	cfg.QuickBooks.Timeout = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown source "sheets"`)
	assert.Contains(t, msg, "scheme 'ftp'")
	assert.Contains(t, msg, "must be at least 1 second")
	assert.Contains(t, msg, `invalid log level "loud"`)
}

func TestValidateQuickBooksNeedsRealm(t *testing.T) {
	cfg := Default()
	cfg.Source = "quickbooks"
	assert.ErrorContains(t, cfg.Validate(), "realm id is required")

	cfg.QuickBooks.RealmID = "1"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, source.KindQuickBooks, cfg.SourceKind())
}

func TestLogOptions(t *testing.T) {
	cfg := Default()
	cfg.Log.Path = "/tmp/a.log"
	cfg.Log.Disabled = true
	opts := cfg.LogOptions()
	assert.Equal(t, "/tmp/a.log", opts.Path)
	assert.Equal(t, "info", opts.Level)
	assert.True(t, opts.Disabled)
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
