// Package config loads the storefront client configuration from a YAML
// file, falling back to defaults that match the hosted BiteRoute backend.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration.
type Config struct {
	// BackendURL is the base URL of the backend collaborator.
	BackendURL string `yaml:"backend_url"`
	// StorePath is the SQLite file backing the persistent store.
	StorePath string `yaml:"store_path"`
	// Payment configures the scan-to-pay step of online checkout.
	Payment Payment `yaml:"payment"`
}

// Payment holds the payee side of the payment-reference token and the
// checkout tax rate.
type Payment struct {
	PayeeVPA  string  `yaml:"payee_vpa"`
	PayeeName string  `yaml:"payee_name"`
	Currency  string  `yaml:"currency"`
	TaxRate   float64 `yaml:"tax_rate"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BackendURL: "http://127.0.0.1:8000",
		StorePath:  "storefront.db",
		Payment: Payment{
			PayeeVPA:  "biteroute@upi",
			PayeeName: "BiteRoute",
			Currency:  "INR",
			TaxRate:   0.05,
		},
	}
}

// Load reads the configuration at path. A missing file yields Default();
// a present but malformed file is an error. Fields absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
