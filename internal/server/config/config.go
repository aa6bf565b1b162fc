// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the salarygate server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses for the admin RPC
//     endpoint and the browser JSON API.
//   - UsersFile: path of the JSON credential file.
//   - AdminPassword / AdminEmail: bootstrap admin written when UsersFile is missing.
//   - MaxLoginAttempts / LockoutDuration: brute-force lockout thresholds.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use test defaults in prod.
//   - SessionValidityDuration: session token lifetime.
//   - AuditDriver / AuditDSN: "sqlite", "pgx" or "none" plus its DSN.
//   - ModelSource: prediction model artifact, a local path or s3://bucket/key.
//   - S3RootUser / S3RootPassword / S3Region / S3BaseEndpoint: object storage settings.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC        string
	EndpointAddrHTTP        string
	UsersFile               string
	AdminPassword           string
	AdminEmail              string
	MaxLoginAttempts        int
	LockoutDuration         time.Duration
	SecretKey               string
	SessionValidityDuration time.Duration
	AuditDriver             string
	AuditDSN                string
	ModelSource             string
	S3RootUser              string
	S3RootPassword          string
	S3Region                string
	S3BaseEndpoint          string
	LogLevel                string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.UsersFile = "user_credentials.json"
	c.AdminPassword = "admin123"
	c.AdminEmail = "admin@example.com"
	c.MaxLoginAttempts = 5
	c.LockoutDuration = 4 * time.Minute
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 30 * time.Minute
	c.AuditDriver = "sqlite"
	c.AuditDSN = "file:audit.db"
	c.ModelSource = "model.json"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.LogLevel = "info"
}

// Validate rejects thresholds that would disable lockout or sessions.
func (c *Config) Validate() error {
	switch {
	case c.MaxLoginAttempts < 1:
		return errors.New("max login attempts must be at least 1")
	case c.LockoutDuration <= 0:
		return errors.New("lockout duration must be positive")
	case c.SessionValidityDuration <= 0:
		return errors.New("session validity duration must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
// An invalid result panics, like a malformed flag or config file.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
