package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/salarygate/internal/flagx"
	"github.com/dmitrijs2005/salarygate/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "4m" and integer nanoseconds are accepted. Absent or zero fields
// leave the current value alone.
type JsonConfig struct {
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	UsersFile               string         `json:"users_file"`
	AdminPassword           string         `json:"admin_password"`
	AdminEmail              string         `json:"admin_email"`
	MaxLoginAttempts        int            `json:"max_login_attempts"`
	LockoutDuration         timex.Duration `json:"lockout_duration"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	AuditDriver             string         `json:"audit_driver"`
	AuditDSN                string         `json:"audit_dsn"`
	ModelSource             string         `json:"model_source"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	LogLevel                string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.UsersFile, c.UsersFile)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminEmail, c.AdminEmail)
	if c.MaxLoginAttempts > 0 {
		config.MaxLoginAttempts = c.MaxLoginAttempts
	}
	if c.LockoutDuration.Duration > 0 {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration.Duration > 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	setString(&config.AuditDriver, c.AuditDriver)
	setString(&config.AuditDSN, c.AuditDSN)
	setString(&config.ModelSource, c.ModelSource)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
