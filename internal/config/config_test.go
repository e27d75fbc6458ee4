package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend_url: https://api.example.com
payment:
  payee_vpa: shop@upi
  payee_name: Example Shop
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, "shop@upi", cfg.Payment.PayeeVPA)
	assert.Equal(t, "Example Shop", cfg.Payment.PayeeName)

	// Untouched fields keep defaults
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 0.05, cfg.Payment.TaxRate)
	assert.Equal(t, "storefront.db", cfg.StorePath)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend_url: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault_MatchesHostedBackend(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "biteroute@upi", cfg.Payment.PayeeVPA)
	assert.Equal(t, "BiteRoute", cfg.Payment.PayeeName)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 0.05, cfg.Payment.TaxRate)
}
