package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissing is wrapped by Validate when required settings are absent.
var ErrMissing = errors.New("missing required configuration")

// Validate checks that everything needed at startup is present. All missing
// keys are reported at once.
func (c *Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch c.StoreBackend {
	case StoreMongo:
		require("mongo_uri", c.MongoURI)
		require("mongo_database", c.MongoDatabase)
	case StoreMemory:
	default:
		return fmt.Errorf("invalid store_backend %q: must be %s or %s", c.StoreBackend, StoreMongo, StoreMemory)
	}

	require("tech_collection", c.TechCollection)
	require("pipeline_collection", c.PipelineCollection)
	require("identity_dsn", c.IdentityDSN)
	require("jwt_key", c.JWTKey)
	require("jwt_issuer", c.JWTIssuer)
	require("jwt_audience", c.JWTAudience)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	if c.TokenValidity <= 0 {
		return fmt.Errorf("token_validity must be positive, got %v", c.TokenValidity)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive, got %v", c.StoreTimeout)
	}
	return nil
}
