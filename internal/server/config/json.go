package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Durations use
// timex.Duration so files may say "5s" or give integer nanoseconds. Only
// keys present in the file override earlier values.
type JsonConfig struct {
	HTTPAddr           string          `json:"http_addr"`
	StoreBackend       string          `json:"store_backend"`
	MongoURI           string          `json:"mongo_uri"`
	MongoDatabase      string          `json:"mongo_database"`
	TechCollection     string          `json:"tech_collection"`
	PipelineCollection string          `json:"pipeline_collection"`
	IdentityDSN        string          `json:"identity_dsn"`
	JWTKey             string          `json:"jwt_key"`
	JWTIssuer          string          `json:"jwt_issuer"`
	JWTAudience        string          `json:"jwt_audience"`
	TokenValidity      *timex.Duration `json:"token_validity"`
	StoreTimeout       *timex.Duration `json:"store_timeout"`
	ProtectAllWrites   *bool           `json:"protect_all_writes"`
	LogBackend         string          `json:"log_backend"`
	S3RootUser         string          `json:"s3_root_user"`
	S3RootPassword     string          `json:"s3_root_password"`
	S3Bucket           string          `json:"s3_bucket"`
	S3Region           string          `json:"s3_region"`
	S3BaseEndpoint     string          `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config in args, if any, and copies
// its non-empty values into config. No flag means nothing to do.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.TechCollection, c.TechCollection)
	setString(&config.PipelineCollection, c.PipelineCollection)
	setString(&config.IdentityDSN, c.IdentityDSN)
	setString(&config.JWTKey, c.JWTKey)
	setString(&config.JWTIssuer, c.JWTIssuer)
	setString(&config.JWTAudience, c.JWTAudience)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenValidity != nil {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.ProtectAllWrites != nil {
		config.ProtectAllWrites = *c.ProtectAllWrites
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
