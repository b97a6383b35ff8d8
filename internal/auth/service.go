package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard-api/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrAuthenticationFailure is returned for an unknown user or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrAuthenticationFailure = errors.New("invalid username or password")
	// ErrSessionClosed is returned for a valid token whose session was
	// closed or has expired.
	ErrSessionClosed = errors.New("session is closed")
)

// Session is the result of a successful login.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Service owns the user registry and the open sessions.
type Service struct {
	db       *gorm.DB
	tokens   *TokenManager
	sessions *SessionStore
	log      *log.Entry
}

// NewService creates a new auth Service.
func NewService(db *gorm.DB, tokens *TokenManager, sessions *SessionStore, logger *log.Logger) *Service {
	return &Service{
		db:       db,
		tokens:   tokens,
		sessions: sessions,
		log:      logger.WithField("component", "auth"),
	}
}

// Sessions exposes the session store, e.g. for the purge janitor.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Register adds a user to the registry. An existing user is never modified.
// Passwords are stored as given; no hashing is applied.
func (s *Service) Register(ctx context.Context, username, password string, role models.Role) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		user := models.User{Username: username, Password: password, Role: role}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(log.Fields{"username": username, "role": role}).Info("user registered")
	return nil
}

// Login checks credentials with an exact, case-sensitive comparison.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailure
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Password != password {
		return nil, ErrAuthenticationFailure
	}
	return &user, nil
}

// OpenSession logs the user in and issues a session token.
func (s *Service) OpenSession(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	token, expiresAt, err := s.tokens.GenerateToken(id, user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	s.sessions.Open(id, user, expiresAt)
	s.log.WithFields(log.Fields{"username": user.Username, "session_id": id}).Info("session opened")

	return &Session{ID: id, Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate validates a token and checks that its session is still open.
func (s *Service) Authenticate(token string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	username, ok := s.sessions.Lookup(claims.SessionID())
	if !ok || username != claims.Username {
		return nil, ErrSessionClosed
	}
	return claims, nil
}

// CloseSession logs a session out. Closing an unknown session is a no-op.
func (s *Service) CloseSession(sessionID string) {
	s.sessions.Close(sessionID)
	s.log.WithField("session_id", sessionID).Info("session closed")
}

// GetUser returns a registered user by username.
func (s *Service) GetUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailure
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every registered user in registration order.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SeedDemoUsers registers the demo accounts. Accounts that already exist
// are left untouched.
func (s *Service) SeedDemoUsers(ctx context.Context) error {
	seeds := []struct {
		username, password string
		role               models.Role
	}{
		{"manager", "123", models.RoleManager},
		{"employee", "123", models.RoleEmployee},
	}
	for _, u := range seeds {
		if err := s.Register(ctx, u.username, u.password, u.role); err != nil && !errors.Is(err, ErrDuplicateUsername) {
			return fmt.Errorf("seed %s: %w", u.username, err)
		}
	}
	return nil
}
