// Package config handles configuration for the portfolio server, including
// defaults, a JSON file overlay, environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"
)

// Store backends for record collections.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds runtime settings for the portfolio server.
//
// Fields:
//   - HTTPAddr: bind address for the REST endpoint.
//   - StoreBackend: "mongo" (default) or "memory" for throwaway local runs.
//   - MongoURI / MongoDatabase: document store connection.
//   - TechCollection / PipelineCollection: collection names.
//   - IdentityDSN: PostgreSQL DSN (pgx) of the identity store.
//   - JWTKey / JWTIssuer / JWTAudience: HS256 signing key and the iss/aud
//     claims every token must carry.
//   - TokenValidity: lifetime of issued tokens.
//   - StoreTimeout: per-call deadline for document store operations.
//   - ProtectAllWrites: require the Admin role on every mutating endpoint
//     instead of only on entry creation.
//   - LogBackend: "slog" (default) or "zap".
//   - S3*: object storage for entry images; images are disabled when
//     S3Bucket is empty.
type Config struct {
	HTTPAddr           string
	StoreBackend       string
	MongoURI           string
	MongoDatabase      string
	TechCollection     string
	PipelineCollection string
	IdentityDSN        string
	JWTKey             string
	JWTIssuer          string
	JWTAudience        string
	TokenValidity      time.Duration
	StoreTimeout       time.Duration
	ProtectAllWrites   bool
	LogBackend         string
	S3RootUser         string
	S3RootPassword     string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
}

// LoadDefaults populates Config with values that are safe to ship. Secrets
// and connection strings have no defaults and must be supplied.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.StoreBackend = StoreMongo
	c.TechCollection = "techstack"
	c.PipelineCollection = "pipelinestages"
	c.TokenValidity = time.Hour
	c.StoreTimeout = 5 * time.Second
	c.LogBackend = "slog"
	c.S3Region = "us-east-1"
}

// ImagesEnabled reports whether object storage is configured.
func (c *Config) ImagesEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. The result is validated; any missing required value is an error.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
