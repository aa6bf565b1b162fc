// Package credentials is the durable username → account mapping backing the
// account service. The mapping lives in one JSON file that is read once at
// start-up and rewritten in full after every change.
package credentials

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/timex"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Entry is one stored value. It is either a LegacyHash (a bare password
// hash written before accounts carried metadata) or a *Record.
type Entry interface {
	// Hash returns the encoded password hash.
	Hash() string
	entry()
}

// LegacyHash is the pre-migration form of an entry. It reads as a plain
// user with no metadata.
type LegacyHash string

func (h LegacyHash) Hash() string { return string(h) }
func (LegacyHash) entry()         {}

// Record is the structured form of an entry.
type Record struct {
	PasswordHash   string
	CreatedAt      time.Time
	LastLogin      *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
	Role           Role
	Email          *string
}

func (r *Record) Hash() string { return r.PasswordHash }
func (*Record) entry()         {}

// Upgrade converts a legacy entry into a Record with role user, created at
// now. A Record is returned unchanged.
func Upgrade(e Entry, now time.Time) *Record {
	switch v := e.(type) {
	case *Record:
		return v
	case LegacyHash:
		return &Record{PasswordHash: string(v), CreatedAt: now, Role: RoleUser}
	default:
		panic(fmt.Sprintf("credentials: unknown entry type %T", e))
	}
}

// RoleOf returns the role of e; legacy entries are always users.
func RoleOf(e Entry) Role {
	if r, ok := e.(*Record); ok {
		return r.Role
	}
	return RoleUser
}

// Users is the whole credential mapping keyed by username.
type Users map[string]Entry

// AdminCount counts structured records with role admin.
func (u Users) AdminCount() int {
	n := 0
	for _, e := range u {
		if r, ok := e.(*Record); ok && r.Role == RoleAdmin {
			n++
		}
	}
	return n
}

// recordJSON is the on-disk layout of a Record. Absent values are null.
type recordJSON struct {
	PasswordHash   string  `json:"password_hash"`
	CreatedAt      *string `json:"created_at"`
	LastLogin      *string `json:"last_login"`
	FailedAttempts int     `json:"failed_attempts"`
	LockedUntil    *string `json:"locked_until"`
	Role           Role    `json:"role"`
	Email          *string `json:"email"`
}

func (r *Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		PasswordHash:   r.PasswordHash,
		LastLogin:      formatOptional(r.LastLogin),
		FailedAttempts: r.FailedAttempts,
		LockedUntil:    formatOptional(r.LockedUntil),
		Role:           r.Role,
		Email:          r.Email,
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = formatOptional(&r.CreatedAt)
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var in recordJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	created, err := parseOptional(in.CreatedAt)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	lastLogin, err := parseOptional(in.LastLogin)
	if err != nil {
		return fmt.Errorf("last_login: %w", err)
	}
	lockedUntil, err := parseOptional(in.LockedUntil)
	if err != nil {
		return fmt.Errorf("locked_until: %w", err)
	}

	*r = Record{
		PasswordHash:   in.PasswordHash,
		LastLogin:      lastLogin,
		FailedAttempts: max(in.FailedAttempts, 0),
		LockedUntil:    lockedUntil,
		Role:           in.Role,
		Email:          in.Email,
	}
	if created != nil {
		r.CreatedAt = *created
	}
	if r.Role == "" {
		r.Role = RoleUser
	}
	return nil
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timex.FormatTimestamp(*t)
	return &s
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := timex.ParseTimestamp(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
