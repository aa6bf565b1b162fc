package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, "user_credentials.json", c.UsersFile)
	assert.Equal(t, "admin123", c.AdminPassword)
	assert.Equal(t, "admin@example.com", c.AdminEmail)
	assert.Equal(t, 5, c.MaxLoginAttempts)
	assert.Equal(t, 4*time.Minute, c.LockoutDuration)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.SessionValidityDuration)
	assert.Equal(t, "sqlite", c.AuditDriver)
	assert.Equal(t, "file:audit.db", c.AuditDSN)
	assert.Equal(t, "model.json", c.ModelSource)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": ":9000",
		"lockout_duration":   "10m",
		"users_file":         "from-json.json",
	})
	os.Args = []string{"server", "-c", path, "-f", "from-flag.json"}

	c := LoadConfig()

	assert.Equal(t, ":9000", c.EndpointAddrHTTP)
	assert.Equal(t, 10*time.Minute, c.LockoutDuration)
	assert.Equal(t, "from-flag.json", c.UsersFile)
}

func TestLoadConfig_KeepsSubMinuteDurationsFromJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"lockout_duration":          "90s",
		"session_validity_duration": "45s",
	})
	os.Args = []string{"server", "-c", path}

	c := LoadConfig()

	assert.Equal(t, 90*time.Second, c.LockoutDuration)
	assert.Equal(t, 45*time.Second, c.SessionValidityDuration)
}

func TestLoadConfig_RejectsBadThresholds(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, args := range [][]string{
		{"server", "-m", "0"},
		{"server", "-l", "0"},
		{"server", "-t", "0"},
	} {
		os.Args = args
		assert.Panics(t, func() { LoadConfig() }, "%v", args)
	}
}

func TestConfig_Validate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	require.NoError(t, c.Validate())

	c.MaxLoginAttempts = 0
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.LockoutDuration = -time.Second
	assert.Error(t, c.Validate())
}
