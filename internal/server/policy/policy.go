// Package policy holds the account rules: password strength, username
// format and the brute-force lockout thresholds.
package policy

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxLoginAttempts consecutive failures lock an account.
	MaxLoginAttempts = 5
	// LockoutDuration is how long a locked account refuses logins.
	LockoutDuration = 4 * time.Minute

	PasswordMinLength = 8

	// SpecialCharacters is the set a password must draw at least one character from.
	SpecialCharacters = `!@#$%^&*(),.?":{}|<>`
)

// Violation messages, in the order the rules are checked.
var (
	MsgPasswordTooShort  = fmt.Sprintf("Password must be at least %d characters long", PasswordMinLength)
	MsgPasswordNoUpper   = "Password must contain at least one uppercase letter"
	MsgPasswordNoDigit   = "Password must contain at least one number"
	MsgPasswordNoSpecial = "Password must contain at least one special character"
	MsgInvalidUsername   = "Username must be 3-20 characters and contain only letters, numbers, and underscores"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Lockout bundles the thresholds enforced by the account service.
type Lockout struct {
	MaxAttempts int
	Duration    time.Duration
}

// DefaultLockout returns the built-in thresholds.
func DefaultLockout() Lockout {
	return Lockout{MaxAttempts: MaxLoginAttempts, Duration: LockoutDuration}
}

// Minutes is Duration rounded to whole minutes, as shown to users.
func (l Lockout) Minutes() int {
	return int(math.RoundToEven(l.Duration.Minutes()))
}

// ValidatePassword checks every strength rule and returns all violations.
// An empty result means the password is acceptable.
func ValidatePassword(password string) []string {
	var violations []string

	if len([]rune(password)) < PasswordMinLength {
		violations = append(violations, MsgPasswordTooShort)
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		violations = append(violations, MsgPasswordNoUpper)
	}
	if !strings.ContainsFunc(password, isASCIIDigit) {
		violations = append(violations, MsgPasswordNoDigit)
	}
	if !strings.ContainsAny(password, SpecialCharacters) {
		violations = append(violations, MsgPasswordNoSpecial)
	}

	return violations
}

// FirstPasswordViolation returns the first failed rule, or "" if none.
func FirstPasswordViolation(password string) string {
	if v := ValidatePassword(password); len(v) > 0 {
		return v[0]
	}
	return ""
}

// ValidateUsername reports whether username matches ^[A-Za-z0-9_]{3,20}$.
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
