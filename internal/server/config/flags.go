package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/flagx"
)

var serverFlags = []string{
	"-a", "-w", "-f", "-P", "-E", "-m", "-l", "-s", "-t", "-D", "-d", "-M", "-u", "-p", "-g", "-e", "-v",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8080")
//	-f string   credential file
//	-P string   bootstrap admin password
//	-E string   bootstrap admin email
//	-m int      failed attempts before lockout
//	-l int      lockout duration, minutes
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-D string   audit driver (sqlite, pgx, none)
//	-d string   audit DSN
//	-M string   model source (path or s3://bucket/key)
//	-u string   S3 root user
//	-p string   S3 root password
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-v string   log level
//
// Duration flags are accepted as integers in minutes and only replace the
// current value when given, so sub-minute durations from JSON survive.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.UsersFile, "f", config.UsersFile, "credential file")
	fs.StringVar(&config.AdminPassword, "P", config.AdminPassword, "bootstrap admin password")
	fs.StringVar(&config.AdminEmail, "E", config.AdminEmail, "bootstrap admin email")
	fs.IntVar(&config.MaxLoginAttempts, "m", config.MaxLoginAttempts, "failed attempts before lockout")
	lockout := fs.Int("l", int(config.LockoutDuration.Minutes()), "lockout duration (in minutes)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	session := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")
	fs.StringVar(&config.AuditDriver, "D", config.AuditDriver, "audit driver")
	fs.StringVar(&config.AuditDSN, "d", config.AuditDSN, "audit DSN")
	fs.StringVar(&config.ModelSource, "M", config.ModelSource, "model source")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			config.LockoutDuration = time.Duration(*lockout) * time.Minute
		case "t":
			config.SessionValidityDuration = time.Duration(*session) * time.Minute
		}
	})
}
