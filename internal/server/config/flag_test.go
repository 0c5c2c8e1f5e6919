package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{
			"-a", "127.0.0.1:9090", "-s", "memory", "-m", "mongodb://db", "-n", "portfolio",
			"-d", "dsn", "-k", "secret", "-i", "issuer", "-u", "audience", "-t", "30", "-w", "2",
			"-p", "-l", "zap", "-U", "user", "-P", "password", "-B", "bucket", "-R", "us-west-1", "-E", "http://endpoint",
		},
			expected: &Config{
				HTTPAddr:         "127.0.0.1:9090",
				StoreBackend:     "memory",
				MongoURI:         "mongodb://db",
				MongoDatabase:    "portfolio",
				IdentityDSN:      "dsn",
				JWTKey:           "secret",
				JWTIssuer:        "issuer",
				JWTAudience:      "audience",
				TokenValidity:    30 * time.Minute,
				StoreTimeout:     2 * time.Second,
				ProtectAllWrites: true,
				LogBackend:       "zap",
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
			}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"}},
		{name: "bad int", args: []string{"-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDurationsWhenNotGiven(t *testing.T) {
	config := &Config{TokenValidity: 90 * time.Second, StoreTimeout: 500 * time.Millisecond}
	require.NoError(t, parseFlags(config, []string{"-a", ":1"}))

	assert.Equal(t, 90*time.Second, config.TokenValidity)
	assert.Equal(t, 500*time.Millisecond, config.StoreTimeout)
}
