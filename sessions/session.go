// Package sessions persists the signed-in user's tokens and profile snapshot.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/storage"
)

// Storage keys. Each is a separate entry in the area.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

var allKeys = []string{KeyToken, KeyRefreshToken, KeyUser}

// UserProfile is the snapshot returned at login. It is not refreshed until the next login.
type UserProfile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Session is the persisted proof of authentication.
type Session struct {
	Token        string
	RefreshToken string
	User         UserProfile
}

// Store reads and writes the session. Load reports autherrors.ErrNoSession
// whenever the stored state is missing or malformed.
type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
	// Token returns the access token alone; the remaining entries are not consulted.
	Token(ctx context.Context) (string, error)
}

var _ Store = (*AreaStore)(nil)

// AreaStore keeps the session as three entries of a storage area.
type AreaStore struct {
	area storage.Area
}

func NewAreaStore(area storage.Area) *AreaStore {
	return &AreaStore{area: area}
}

// Save overwrites all three entries in one storage write.
func (s *AreaStore) Save(ctx context.Context, session Session) error {
	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("[sessions Save] failed to encode user: %w", err)
	}
	err = s.area.Set(ctx, map[string]string{
		KeyToken:        session.Token,
		KeyRefreshToken: session.RefreshToken,
		KeyUser:         string(user),
	})
	if err != nil {
		return autherrors.Wrapf(err, "[sessions Save]")
	}
	return nil
}

// Load reads all three entries in one storage call so a concurrent Save or
// Clear is seen whole or not at all. An empty refresh token is a valid entry;
// an empty access token is not.
func (s *AreaStore) Load(ctx context.Context) (Session, error) {
	values, err := s.area.GetMany(ctx, allKeys...)
	if err != nil {
		return Session{}, autherrors.Wrapf(err, "[sessions Load]")
	}
	for _, k := range allKeys {
		if _, ok := values[k]; !ok {
			return Session{}, fmt.Errorf("[sessions Load] missing %s: %w", k, autherrors.ErrNoSession)
		}
	}
	if values[KeyToken] == "" {
		return Session{}, fmt.Errorf("[sessions Load] empty %s: %w", KeyToken, autherrors.ErrNoSession)
	}

	var user UserProfile
	if err := json.Unmarshal([]byte(values[KeyUser]), &user); err != nil {
		return Session{}, fmt.Errorf("[sessions Load] %w: %v: %w", autherrors.ErrMalformedEntry, err, autherrors.ErrNoSession)
	}

	return Session{
		Token:        values[KeyToken],
		RefreshToken: values[KeyRefreshToken],
		User:         user,
	}, nil
}

// Clear removes all three entries in a single storage operation.
func (s *AreaStore) Clear(ctx context.Context) error {
	if err := s.area.Remove(ctx, allKeys...); err != nil {
		return autherrors.Wrapf(err, "[sessions Clear]")
	}
	return nil
}

func (s *AreaStore) Token(ctx context.Context) (string, error) {
	v, ok, err := s.area.Get(ctx, KeyToken)
	if err != nil {
		return "", autherrors.Wrapf(err, "[sessions Token]")
	}
	if !ok || v == "" {
		return "", autherrors.ErrNoSession
	}
	return v, nil
}
