package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
)

var ownFlags = []string{
	"-a", "-s", "-m", "-n", "-d", "-k", "-i", "-u", "-t", "-w", "-p", "-l",
	"-U", "-P", "-B", "-R", "-E",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   store backend: mongo or memory
//	-m string   MongoDB URI
//	-n string   MongoDB database name
//	-d string   identity store PostgreSQL DSN
//	-k string   JWT signing key
//	-i string   JWT issuer
//	-u string   JWT audience
//	-t int      token validity, minutes
//	-w int      document store call timeout, seconds
//	-p bool     require the Admin role on every write (use -p or -p=true)
//	-l string   log backend: slog or zap
//	-U string   S3 root user
//	-P string   S3 root password
//	-B string   S3 bucket name
//	-R string   S3 region
//	-E string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only these flags are taken from args (see flagx.FilterArgs), so -c/-config
// and flags of other components do not collide.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend (mongo|memory)")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.IdentityDSN, "d", config.IdentityDSN, "identity store DSN")
	fs.StringVar(&config.JWTKey, "k", config.JWTKey, "JWT signing key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "JWT issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "JWT audience")

	tokenValidity := fs.Int("t", int(config.TokenValidity.Minutes()), "token validity (in minutes)")
	storeTimeout := fs.Int("w", int(config.StoreTimeout.Seconds()), "store call timeout (in seconds)")

	fs.BoolVar(&config.ProtectAllWrites, "p", config.ProtectAllWrites, "require Admin role on every write")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&config.S3RootUser, "U", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "P", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "B", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "R", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "E", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	// Durations are only touched when given explicitly, so sub-unit values
	// from the file or the environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidity = time.Duration(*tokenValidity) * time.Minute
		case "w":
			config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
		}
	})
	return nil
}
