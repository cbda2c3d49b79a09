package stores

import (
	"YouthHealth/models"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var ErrNotLoggedIn = errors.New("not logged in")

// UserAPI is the subset of the REST client used by the signed-in user.
type UserAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, patch models.UserPatch) (models.User, error)
	SendMessage(ctx context.Context, msg models.OutgoingMessage) (models.Message, error)
	GetInTouch(ctx context.Context, req models.ContactRequest) error
	SetToken(token string)
}

// SessionStorage persists the session token and the last known profile.
// The profile is only a fallback display source, never a system of record.
type SessionStorage interface {
	SaveToken(token string) error
	Token() (string, error)
	SaveProfile(user models.User) error
	LastProfile() (*models.User, error)
	Clear() error
}

// UserStore holds the signed-in user's session and profile.
type UserStore struct {
	base
	api     UserAPI
	storage SessionStorage

	token string
	user  *models.User
	stale bool
	sent  []models.Message
}

func NewUserStore(api UserAPI, storage SessionStorage, logger *logrus.Logger) *UserStore {
	s := &UserStore{api: api, storage: storage}
	s.init("user", logger)
	return s
}

// User returns the current profile. fromStorage is true while the profile
// is the locally stored fallback rather than a fresh server copy.
func (s *UserStore) User() (user *models.User, fromStorage bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, s.stale
}

func (s *UserStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the session token, or "" when signed out.
func (s *UserStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *UserStore) SentMessages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.sent)
}

// Restore loads the stored token and profile, if any.
func (s *UserStore) Restore() error {
	if s.storage == nil {
		return nil
	}
	token, err := s.storage.Token()
	if err != nil {
		return fmt.Errorf("failed to restore session token: %w", err)
	}
	profile, err := s.storage.LastProfile()
	if err != nil {
		return fmt.Errorf("failed to restore profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if profile != nil {
		s.user = profile
		s.stale = true
	}
	s.api.SetToken(token)
	return nil
}

func (s *UserStore) Login(ctx context.Context, creds models.Credentials) error {
	var session models.Session
	load := func(ctx context.Context) (models.Session, error) {
		return s.api.Login(ctx, creds)
	}
	err := fetch(ctx, &s.base, "login", load, func(sess models.Session) {
		session = sess
		user := sess.User
		s.token = sess.Token
		s.user = &user
		s.stale = false
		s.api.SetToken(sess.Token)
	})
	if err != nil || session.Token == "" {
		return err
	}

	s.persist(session.Token, &session.User)
	return nil
}

func (s *UserStore) FetchProfile(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	err := fetch(ctx, &s.base, "profile", s.api.Profile, func(user models.User) {
		s.user = &user
		s.stale = false
	})
	if err != nil {
		return err
	}
	u, _ := s.User()
	s.persist("", u)
	return nil
}

// UpdateProfile sends patch to the server and merges the result.
func (s *UserStore) UpdateProfile(ctx context.Context, patch models.UserPatch) error {
	if !s.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("invalid profile update: %w", err)
	}
	load := func(ctx context.Context) (models.User, error) {
		return s.api.UpdateProfile(ctx, patch)
	}
	_, err := mutate(ctx, &s.base, "updateProfile", load, func(user models.User) {
		s.user = &user
		s.stale = false
	}, "profile")
	if err != nil {
		return err
	}
	u, _ := s.User()
	s.persist("", u)
	return nil
}

func (s *UserStore) SendMessage(ctx context.Context, msg models.OutgoingMessage) (models.Message, error) {
	if err := msg.Validate(); err != nil {
		return models.Message{}, fmt.Errorf("invalid message: %w", err)
	}
	load := func(ctx context.Context) (models.Message, error) {
		return s.api.SendMessage(ctx, msg)
	}
	return mutate(ctx, &s.base, "message", load, func(m models.Message) {
		s.sent = append(cloneSlice(s.sent), m)
	})
}

func (s *UserStore) GetInTouch(ctx context.Context, req models.ContactRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid contact request: %w", err)
	}
	load := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.GetInTouch(ctx, req)
	}
	_, err := mutate(ctx, &s.base, "contact", load, func(struct{}) {})
	return err
}

// Logout forgets the session locally and in storage.
func (s *UserStore) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.stale = false
	s.api.SetToken("")
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}
	return s.storage.Clear()
}

func (s *UserStore) persist(token string, user *models.User) {
	if s.storage == nil {
		return
	}
	if token != "" {
		if err := s.storage.SaveToken(token); err != nil {
			s.logger.WithError(err).Warn("failed to store session token")
		}
	}
	if user != nil {
		if err := s.storage.SaveProfile(*user); err != nil {
			s.logger.WithError(err).Warn("failed to store profile")
		}
	}
}
