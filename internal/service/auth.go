package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/metrics"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/session"
	"github.com/iliyamo/recipe-catalog/internal/utils"
)

// AuthService handles login, logout, registration and token resolution.
// Tokens are opaque; the session store is the only place they mean anything.
type AuthService struct {
	chefs      *ChefService
	sessions   session.Store
	bcryptCost int
	newToken   func() string
	notifier
}

// NewAuthService wires the authenticator. A bcryptCost of 0 stores
// registered passwords unhashed.
func NewAuthService(chefs *ChefService, sessions session.Store, bcryptCost int, events queue.Publisher, logger *slog.Logger) *AuthService {
	return &AuthService{
		chefs:      chefs,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		newToken:   utils.NewSessionToken,
		notifier:   newNotifier(logger, events),
	}
}

// Login looks chefs up by username and accepts the first one whose username
// matches exactly and whose password verifies. On success a fresh token is
// stored and returned along with the chef.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.Chef, error) {
	candidates, err := s.chefs.Search(ctx, username)
	if err != nil {
		metrics.ObserveAuth("login", "error")
		return "", nil, err
	}
	for i := range candidates {
		c := candidates[i]
		if c.Username != username || !utils.VerifyPassword(c.Password, password) {
			continue
		}
		token := s.newToken()
		if err := s.sessions.Put(ctx, token, c); err != nil {
			metrics.ObserveAuth("login", "error")
			return "", nil, fmt.Errorf("open session: %w", err)
		}
		metrics.ObserveAuth("login", "success")
		metrics.SessionOpened()
		s.log.InfoContext(ctx, "chef logged in", "username", c.Username, "chef_id", c.ID)
		c.Password = ""
		return token, &c, nil
	}
	metrics.ObserveAuth("login", "failure")
	s.log.InfoContext(ctx, "login rejected", "username", username)
	return "", nil, ErrInvalidCredentials
}

// Logout forgets the token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	removed, err := s.sessions.Remove(ctx, token)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if !removed {
		return nil
	}
	metrics.ObserveAuth("logout", "success")
	metrics.SessionClosed()
	return nil
}

// Resolve returns the chef bound to token, or ErrUnauthorized. The chef is
// reloaded from storage so role changes apply to live sessions; a session
// whose chef was deleted is dropped.
func (s *AuthService) Resolve(ctx context.Context, token string) (*model.Chef, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	c, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	current, err := s.chefs.Find(ctx, c.ID)
	if errors.Is(err, ErrNotFound) {
		removed, rerr := s.sessions.Remove(ctx, token)
		if rerr != nil {
			s.log.WarnContext(ctx, "drop orphaned session", "chef_id", c.ID, "err", rerr)
		} else if removed {
			metrics.SessionClosed()
		}
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	current.Password = ""
	return current, nil
}

// Register creates the chef unless one already has exactly the same
// username. The password is hashed before it is stored and c.ID is set.
func (s *AuthService) Register(ctx context.Context, c *model.Chef) error {
	if c.Username == "" || c.Password == "" {
		return ErrInvalidInput
	}
	existing, err := s.chefs.Search(ctx, c.Username)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Username == c.Username {
			metrics.ObserveAuth("register", "duplicate")
			return ErrDuplicateUsername
		}
	}

	stored := *c
	stored.ID = 0
	stored.Password, err = utils.HashPassword(c.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.chefs.Save(ctx, &stored); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			metrics.ObserveAuth("register", "duplicate")
		}
		return err
	}
	c.ID = stored.ID
	metrics.ObserveAuth("register", "success")
	s.log.InfoContext(ctx, "chef registered", "username", c.Username, "chef_id", c.ID)
	s.emit(ctx, queue.NewEvent(queue.ChefRegistered, c.ID, c.Username, c.ID))
	return nil
}
