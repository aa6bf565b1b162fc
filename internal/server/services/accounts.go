// Package services contains server-side business logic. AccountService owns
// the credential mapping and implements login with lockout, registration,
// password changes and the admin account operations.
package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/cryptox"
	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/metrics"
	"github.com/dmitrijs2005/salarygate/internal/server/policy"
	"github.com/dmitrijs2005/salarygate/internal/timex"
)

// Store persists the whole credential mapping.
type Store interface {
	Load(ctx context.Context) (credentials.Users, error)
	Save(ctx context.Context, users credentials.Users) error
}

// UserInfo is an account without its password hash.
type UserInfo struct {
	Username       string
	CreatedAt      *time.Time
	LastLogin      *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
	Role           credentials.Role
	Email          *string
	Legacy         bool
}

// AccountService is built once per process and shared by every transport.
// All methods are safe for concurrent use; operations are serialized.
type AccountService struct {
	mu      sync.Mutex
	store   Store
	users   credentials.Users
	lockout policy.Lockout
	clock   timex.Clock
	logger  logging.Logger
	audit   audit.Recorder
}

type Option func(*AccountService)

func WithLockout(l policy.Lockout) Option {
	return func(s *AccountService) { s.lockout = l }
}

func WithClock(c timex.Clock) Option {
	return func(s *AccountService) { s.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *AccountService) { s.logger = l.With("module", "accounts") }
}

func WithAudit(r audit.Recorder) Option {
	return func(s *AccountService) { s.audit = r }
}

// NewAccountService loads the credential mapping from store. A load failure
// (common.ErrStorage) is returned as is; the service cannot run without it.
func NewAccountService(ctx context.Context, store Store, opts ...Option) (*AccountService, error) {
	s := &AccountService{
		store:   store,
		lockout: policy.DefaultLockout(),
		clock:   timex.SystemClock{},
		logger:  logging.Nop{},
		audit:   audit.NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	users, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	s.users = users
	return s, nil
}

// Authenticate checks username and password, applying lockout bookkeeping.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authenticate(ctx, username, password)
}

func (s *AccountService) authenticate(ctx context.Context, username, password string) Result {
	entry, ok := s.users[username]
	if !ok {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.record(ctx, audit.EventLoginFailure, username, "unknown user")
		return fail(common.ErrAuthentication, MsgInvalidCredentials)
	}

	if s.isLocked(ctx, username) {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked).Inc()
		return fail(common.ErrAuthentication, msgLocked(s.remainingMinutes(username)))
	}

	now := s.clock.Now()
	if !cryptox.VerifyPassword(entry.Hash(), password) {
		rec := s.upgrade(ctx, username, now)
		rec.FailedAttempts++

		if rec.FailedAttempts >= s.lockout.MaxAttempts {
			until := now.Add(s.lockout.Duration)
			rec.LockedUntil = &until
			if err := s.persist(ctx); err != nil {
				return fail(common.ErrStorage, MsgSaveFailed)
			}
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLockout).Inc()
			s.logger.Warn(ctx, "account locked", "username", username, "until", until)
			s.record(ctx, audit.EventAccountLocked, username, fmt.Sprintf("%d failed attempts", rec.FailedAttempts))
			return fail(common.ErrAuthentication, msgLockedNow(s.lockout.Minutes()))
		}

		if err := s.persist(ctx); err != nil {
			return fail(common.ErrStorage, MsgSaveFailed)
		}
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.record(ctx, audit.EventLoginFailure, username, "wrong password")
		return fail(common.ErrAuthentication, MsgInvalidCredentials)
	}

	rec := s.upgrade(ctx, username, now)
	rec.FailedAttempts = 0
	rec.LastLogin = &now
	if err := s.persist(ctx); err != nil {
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.record(ctx, audit.EventLoginSuccess, username, "")
	return succeed(MsgLoginSuccessful)
}

// CreateAccount registers a new account. An empty email is stored as
// absent; an empty role means credentials.RoleUser.
func (s *AccountService) CreateAccount(ctx context.Context, username, password, email string, role credentials.Role) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.createAccount(ctx, username, password, email, role)
	metrics.ObserveOperation("create_account", res.OK)
	return res
}

func (s *AccountService) createAccount(ctx context.Context, username, password, email string, role credentials.Role) Result {
	if _, exists := s.users[username]; exists {
		return fail(common.ErrValidation, MsgUsernameTaken)
	}
	if !policy.ValidateUsername(username) {
		return fail(common.ErrValidation, policy.MsgInvalidUsername)
	}
	if v := policy.FirstPasswordViolation(password); v != "" {
		return fail(common.ErrValidation, v)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "hashing password", "error", err)
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	if role == "" {
		role = credentials.RoleUser
	}
	rec := &credentials.Record{
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
		Role:         role,
	}
	if email != "" {
		rec.Email = &email
	}

	s.users[username] = rec
	if err := s.persist(ctx); err != nil {
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	s.logger.Info(ctx, "account created", "username", username, "role", role)
	s.record(ctx, audit.EventAccountCreated, username, "role="+string(role))
	return succeed(MsgAccountCreated)
}

// ChangePassword re-authenticates with the current password (which runs
// the full lockout bookkeeping of Authenticate) before setting the new one.
func (s *AccountService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.changePassword(ctx, username, currentPassword, newPassword)
	metrics.ObserveOperation("change_password", res.OK)
	return res
}

func (s *AccountService) changePassword(ctx context.Context, username, currentPassword, newPassword string) Result {
	if auth := s.authenticate(ctx, username, currentPassword); !auth.OK {
		if auth.Kind == common.ErrStorage {
			return auth
		}
		return fail(common.ErrAuthentication, MsgCurrentPassword)
	}
	if v := policy.FirstPasswordViolation(newPassword); v != "" {
		return fail(common.ErrValidation, v)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		s.logger.Error(ctx, "hashing password", "error", err)
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	rec := s.upgrade(ctx, username, s.clock.Now())
	rec.PasswordHash = hash
	if err := s.persist(ctx); err != nil {
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	s.record(ctx, audit.EventPasswordChanged, username, "")
	return succeed(MsgPasswordChanged)
}

// ResetPassword sets a new password without the current one and unlocks
// the account. Intended for administrators.
func (s *AccountService) ResetPassword(ctx context.Context, username, newPassword string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.resetPassword(ctx, username, newPassword)
	metrics.ObserveOperation("reset_password", res.OK)
	return res
}

func (s *AccountService) resetPassword(ctx context.Context, username, newPassword string) Result {
	if _, ok := s.users[username]; !ok {
		return fail(common.ErrNotFound, MsgUserNotFound)
	}
	if v := policy.FirstPasswordViolation(newPassword); v != "" {
		return fail(common.ErrValidation, v)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		s.logger.Error(ctx, "hashing password", "error", err)
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	rec := s.upgrade(ctx, username, s.clock.Now())
	rec.PasswordHash = hash
	rec.FailedAttempts = 0
	rec.LockedUntil = nil
	if err := s.persist(ctx); err != nil {
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	s.logger.Info(ctx, "password reset", "username", username)
	s.record(ctx, audit.EventPasswordReset, username, "")
	return succeed(msgPasswordReset(username))
}

// UpdateUserInfo changes the email and/or role; nil leaves a field as is.
// Demoting the last admin is refused.
func (s *AccountService) UpdateUserInfo(ctx context.Context, username string, email *string, role *credentials.Role) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.updateUserInfo(ctx, username, email, role)
	metrics.ObserveOperation("update_user", res.OK)
	return res
}

func (s *AccountService) updateUserInfo(ctx context.Context, username string, email *string, role *credentials.Role) Result {
	entry, ok := s.users[username]
	if !ok {
		return fail(common.ErrNotFound, MsgUserNotFound)
	}

	if role != nil && *role != credentials.RoleAdmin &&
		credentials.RoleOf(entry) == credentials.RoleAdmin && s.users.AdminCount() <= 1 {
		return fail(common.ErrInvariant, MsgLastAdminDemote)
	}

	rec := s.upgrade(ctx, username, s.clock.Now())
	if email != nil {
		e := *email
		rec.Email = &e
	}
	if role != nil {
		rec.Role = *role
	}
	if err := s.persist(ctx); err != nil {
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	s.record(ctx, audit.EventAccountUpdated, username, fmt.Sprintf("role=%s", rec.Role))
	return succeed(MsgUserUpdated)
}

// DeleteUser removes an account unless it is the last admin.
func (s *AccountService) DeleteUser(ctx context.Context, username string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.deleteUser(ctx, username)
	metrics.ObserveOperation("delete_user", res.OK)
	return res
}

func (s *AccountService) deleteUser(ctx context.Context, username string) Result {
	entry, ok := s.users[username]
	if !ok {
		return fail(common.ErrNotFound, MsgUserNotFound)
	}
	if credentials.RoleOf(entry) == credentials.RoleAdmin && s.users.AdminCount() <= 1 {
		return fail(common.ErrInvariant, MsgLastAdminDelete)
	}

	delete(s.users, username)
	if err := s.persist(ctx); err != nil {
		s.users[username] = entry
		return fail(common.ErrStorage, MsgSaveFailed)
	}

	s.logger.Info(ctx, "account deleted", "username", username)
	s.record(ctx, audit.EventAccountDeleted, username, "")
	return succeed(msgUserDeleted(username))
}

// MigrateLegacy upgrades every bare-hash entry to a structured record and
// reports how many were converted.
func (s *AccountService) MigrateLegacy(ctx context.Context) (int, Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var migrated []string
	for name, entry := range s.users {
		if _, legacy := entry.(credentials.LegacyHash); legacy {
			s.upgrade(ctx, name, now)
			migrated = append(migrated, name)
		}
	}
	if len(migrated) == 0 {
		return 0, succeed("No legacy accounts to migrate")
	}

	if err := s.persist(ctx); err != nil {
		return 0, fail(common.ErrStorage, MsgSaveFailed)
	}

	sort.Strings(migrated)
	events := make([]audit.Event, 0, len(migrated))
	for _, name := range migrated {
		events = append(events, audit.NewEvent(audit.EventLegacyMigrated, name, "", now))
	}
	s.recordAll(ctx, events)
	s.logger.Info(ctx, "legacy accounts migrated", "count", len(migrated))
	return len(migrated), succeed(fmt.Sprintf("Migrated %d legacy accounts", len(migrated)))
}

// GetUserInfo returns the account without its hash, or nil if unknown.
func (s *AccountService) GetUserInfo(username string) *UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.users[username]
	if !ok {
		return nil
	}
	info := project(username, entry)
	return &info
}

// ListUsers returns every account without hashes, ordered by username.
func (s *AccountService) ListUsers() []UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserInfo, 0, len(s.users))
	for name, entry := range s.users {
		out = append(out, project(name, entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// IsAccountLocked reports whether username is currently locked. An expired
// lock found here is cleared and persisted.
func (s *AccountService) IsAccountLocked(ctx context.Context, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isLocked(ctx, username)
}

// RemainingLockoutMinutes returns the rounded minutes left on the lock, or 0.
func (s *AccountService) RemainingLockoutMinutes(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remainingMinutes(username)
}

// Lockout returns the thresholds in force.
func (s *AccountService) Lockout() policy.Lockout {
	return s.lockout
}

func (s *AccountService) isLocked(ctx context.Context, username string) bool {
	rec, ok := s.users[username].(*credentials.Record)
	if !ok || rec.LockedUntil == nil {
		return false
	}
	if s.clock.Now().Before(*rec.LockedUntil) {
		return true
	}

	rec.FailedAttempts = 0
	rec.LockedUntil = nil
	if err := s.persist(ctx); err == nil {
		s.record(ctx, audit.EventLockExpired, username, "")
	}
	return false
}

func (s *AccountService) remainingMinutes(username string) int {
	rec, ok := s.users[username].(*credentials.Record)
	if !ok || rec.LockedUntil == nil {
		return 0
	}
	left := rec.LockedUntil.Sub(s.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(math.RoundToEven(left.Minutes()))
}

// upgrade returns the structured record for username, converting a legacy
// entry in place. The caller must know the user exists.
func (s *AccountService) upgrade(ctx context.Context, username string, now time.Time) *credentials.Record {
	entry := s.users[username]
	rec := credentials.Upgrade(entry, now)
	if _, legacy := entry.(credentials.LegacyHash); legacy {
		s.users[username] = rec
		s.logger.Info(ctx, "legacy account upgraded", "username", username)
	}
	return rec
}

func (s *AccountService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.users); err != nil {
		s.logger.Error(ctx, "saving credentials", "error", err)
		return err
	}
	return nil
}

func (s *AccountService) record(ctx context.Context, t audit.EventType, username, detail string) {
	if err := s.audit.Record(ctx, audit.NewEvent(t, username, detail, s.clock.Now())); err != nil {
		s.logger.Warn(ctx, "audit event dropped", "type", t, "username", username, "error", err)
	}
}

// recordAll writes events in one transaction when the recorder supports it.
func (s *AccountService) recordAll(ctx context.Context, events []audit.Event) {
	if br, ok := s.audit.(audit.BatchRecorder); ok {
		if err := br.RecordBatch(ctx, events); err != nil {
			s.logger.Warn(ctx, "audit events dropped", "count", len(events), "error", err)
		}
		return
	}
	for _, e := range events {
		if err := s.audit.Record(ctx, e); err != nil {
			s.logger.Warn(ctx, "audit event dropped", "type", e.Type, "username", e.Username, "error", err)
		}
	}
}

func project(username string, entry credentials.Entry) UserInfo {
	rec, ok := entry.(*credentials.Record)
	if !ok {
		return UserInfo{Username: username, Role: credentials.RoleUser, Legacy: true}
	}

	info := UserInfo{
		Username:       username,
		FailedAttempts: rec.FailedAttempts,
		Role:           rec.Role,
	}
	if !rec.CreatedAt.IsZero() {
		created := rec.CreatedAt
		info.CreatedAt = &created
	}
	if rec.LastLogin != nil {
		t := *rec.LastLogin
		info.LastLogin = &t
	}
	if rec.LockedUntil != nil {
		t := *rec.LockedUntil
		info.LockedUntil = &t
	}
	if rec.Email != nil {
		e := *rec.Email
		info.Email = &e
	}
	return info
}
