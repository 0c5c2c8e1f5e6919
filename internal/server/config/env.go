package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "PORTFOLIO_"

// parseEnv overlays PORTFOLIO_* variables. Secrets are usually supplied this
// way so they stay out of files and process listings.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("STORE_BACKEND", &config.StoreBackend)
	str("MONGO_URI", &config.MongoURI)
	str("MONGO_DATABASE", &config.MongoDatabase)
	str("TECH_COLLECTION", &config.TechCollection)
	str("PIPELINE_COLLECTION", &config.PipelineCollection)
	str("IDENTITY_DSN", &config.IdentityDSN)
	str("JWT_KEY", &config.JWTKey)
	str("JWT_ISSUER", &config.JWTIssuer)
	str("JWT_AUDIENCE", &config.JWTAudience)
	str("LOG_BACKEND", &config.LogBackend)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"TOKEN_VALIDITY", &config.TokenValidity},
		{"STORE_TIMEOUT", &config.StoreTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(EnvPrefix + d.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, d.name, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup(EnvPrefix + "PROTECT_ALL_WRITES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sPROTECT_ALL_WRITES: %w", EnvPrefix, err)
		}
		config.ProtectAllWrites = b
	}
	return nil
}
