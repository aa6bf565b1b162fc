package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/cryptox"
	"github.com/dmitrijs2005/salarygate/internal/filex"
	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/timex"
)

// Bootstrap describes the admin account created when no credential file
// exists yet.
type Bootstrap struct {
	Username string
	Password string
	Email    string
}

// DefaultBootstrap returns the first-run admin credentials.
func DefaultBootstrap() Bootstrap {
	return Bootstrap{Username: "admin", Password: "admin123", Email: "admin@example.com"}
}

// FileStore keeps Users in a single JSON file.
//
// It assumes one writer: there is no file locking, and two processes
// saving concurrently will lose each other's updates.
type FileStore struct {
	path      string
	bootstrap Bootstrap
	clock     timex.Clock
	logger    logging.Logger
}

type Option func(*FileStore)

func WithBootstrap(b Bootstrap) Option {
	return func(s *FileStore) { s.bootstrap = b }
}

func WithClock(c timex.Clock) Option {
	return func(s *FileStore) { s.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *FileStore) { s.logger = l.With("module", "credential_store") }
}

func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:      path,
		bootstrap: DefaultBootstrap(),
		clock:     timex.SystemClock{},
		logger:    logging.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the whole mapping. A missing file is replaced by a fresh
// mapping holding only the bootstrap admin, which is persisted at once.
// Any other failure wraps common.ErrStorage.
func (s *FileStore) Load(ctx context.Context) (Users, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.bootstrapUsers(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrStorage, s.path, err)
	}

	users, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", common.ErrStorage, s.path, err)
	}

	s.logger.Info(ctx, "credential file loaded", "path", s.path, "accounts", len(users))
	return users, nil
}

// Save serializes users and replaces the backing file.
func (s *FileStore) Save(ctx context.Context, users Users) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding users: %v", common.ErrStorage, err)
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	s.logger.Debug(ctx, "credential file saved", "path", s.path, "accounts", len(users))
	return nil
}

func (s *FileStore) bootstrapUsers(ctx context.Context) (Users, error) {
	hash, err := cryptox.HashPassword(s.bootstrap.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	rec := &Record{
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
		Role:         RoleAdmin,
	}
	if s.bootstrap.Email != "" {
		email := s.bootstrap.Email
		rec.Email = &email
	}

	users := Users{s.bootstrap.Username: rec}
	if err := s.Save(ctx, users); err != nil {
		return nil, err
	}

	s.logger.Warn(ctx, "no credential file found, created bootstrap admin",
		"path", s.path, "username", s.bootstrap.Username)
	return users, nil
}

func decode(data []byte) (Users, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("top-level value is not a JSON object")
	}

	users := make(Users, len(raw))
	for name, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			return nil, fmt.Errorf("user %q: empty value", name)
		}

		switch value[0] {
		case '"':
			var hash string
			if err := json.Unmarshal(value, &hash); err != nil {
				return nil, fmt.Errorf("user %q: %w", name, err)
			}
			users[name] = LegacyHash(hash)
		case '{':
			rec := &Record{}
			if err := json.Unmarshal(value, rec); err != nil {
				return nil, fmt.Errorf("user %q: %w", name, err)
			}
			users[name] = rec
		default:
			return nil, fmt.Errorf("user %q: expected object or string", name)
		}
	}
	return users, nil
}
