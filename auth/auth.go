// Package auth issues and verifies sessions: registered users, read-only
// guests and the admin elevation of a signed-in user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"deliciasmz/db"
	"deliciasmz/kv"
	"deliciasmz/logging"
	"deliciasmz/models"
	"deliciasmz/mq"
	"deliciasmz/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	GuestName     = "Visitante"
	DefaultAvatar = "https://via.placeholder.com/150"
	minPassword   = 6
)

// ProfileStore persists user profiles. Lookups of unknown profiles return
// db.ErrNotFound and taken emails db.ErrDuplicate.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p models.Profile) error
	ProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	Profile(ctx context.Context, id string) (models.Profile, error)
	ConfirmProfile(ctx context.Context, id string) error
}

type Config struct {
	Secret []byte
	// AdminSecret is the shared password that elevates a session to admin.
	// Empty disables elevation.
	AdminSecret         string
	RequireConfirmation bool
	SessionTTL          time.Duration
	ConfirmTTL          time.Duration
	BcryptCost          int
}

type Service struct {
	profiles  ProfileStore
	revoked   kv.Store
	bus       *mq.Bus
	cfg       Config
	adminHash []byte
	log       *zap.Logger
	now       func() time.Time
}

// NewService builds the identity service. A nil profiles store puts it in
// demo mode: only guest sessions can be issued.
func NewService(profiles ProfileStore, revoked kv.Store, bus *mq.Bus, cfg Config, log *zap.Logger) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.ConfirmTTL <= 0 {
		cfg.ConfirmTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	s := &Service{
		profiles: profiles,
		revoked:  revoked,
		bus:      bus,
		cfg:      cfg,
		log:      logging.OrNop(log),
		now:      time.Now,
	}
	if cfg.AdminSecret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminSecret), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin secret: %w", err)
		}
		s.adminHash = hash
	}
	return s, nil
}

// Registration is the outcome of Register. ConfirmToken is set when the
// account must be confirmed before signing in; Session otherwise.
type Registration struct {
	Message      string          `json:"message"`
	Session      *models.Session `json:"session,omitempty"`
	ConfirmToken string          `json:"-"`
}

func (s *Service) Register(ctx context.Context, email, password, fullName string) (Registration, error) {
	if s.profiles == nil {
		return Registration{}, storage.ErrUnconfigured
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return Registration{}, ErrInvalidEmail
	}
	email = strings.ToLower(addr.Address)
	if len(password) < minPassword {
		return Registration{}, ErrWeakPassword
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return Registration{}, fmt.Errorf("hash password: %w", err)
	}
	p := models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		AvatarURL:    DefaultAvatar,
		PasswordHash: string(hash),
		Confirmed:    !s.cfg.RequireConfirmation,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return Registration{}, ErrUserExists
		}
		return Registration{}, fmt.Errorf("register: %w", err)
	}
	s.log.Info("User registered", zap.String("user", p.ID))

	if s.cfg.RequireConfirmation {
		c := Claims{Purpose: purposeConfirm}
		c.Subject = p.ID
		token, _, err := s.sign(c, s.cfg.ConfirmTTL)
		if err != nil {
			return Registration{}, err
		}
		// no mailer is wired; the link is only logged
		s.log.Info("Confirmation token issued", zap.String("user", p.ID), zap.String("token", token))
		return Registration{Message: MsgRegistered, ConfirmToken: token}, nil
	}

	sess, err := s.issue(p.User(), false, false)
	if err != nil {
		return Registration{}, err
	}
	s.emit(mq.SignedIn, p.ID)
	return Registration{Message: "Conta criada com sucesso!", Session: &sess}, nil
}

// Confirm marks the account behind a confirmation token as confirmed.
func (s *Service) Confirm(ctx context.Context, token string) error {
	if s.profiles == nil {
		return storage.ErrUnconfigured
	}
	c, err := s.parse(token, purposeConfirm)
	if err != nil {
		return err
	}
	if err := s.profiles.ConfirmProfile(ctx, c.Subject); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("confirm: %w", err)
	}
	s.emit(mq.UserConfirmed, c.Subject)
	return nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	if s.profiles == nil {
		return models.Session{}, storage.ErrUnconfigured
	}
	p, err := s.profiles.ProfileByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return models.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return models.Session{}, ErrInvalidCredentials
	}
	if !p.Confirmed && s.cfg.RequireConfirmation {
		return models.Session{}, ErrNotConfirmed
	}

	sess, err := s.issue(p.User(), false, false)
	if err != nil {
		return models.Session{}, err
	}
	s.emit(mq.SignedIn, p.ID)
	return sess, nil
}

// Guest issues a read-only visitor session. It works without a backend.
func (s *Service) Guest() (models.Session, error) {
	return s.issue(models.User{ID: models.GuestID, Name: GuestName, Avatar: DefaultAvatar}, true, false)
}

// Verify returns the session a token stands for, rejecting expired,
// revoked or foreign tokens.
func (s *Service) Verify(ctx context.Context, token string) (models.Session, error) {
	c, err := s.parse(token, purposeSession)
	if err != nil {
		return models.Session{}, err
	}
	if s.revoked != nil {
		_, revoked, err := s.revoked.Get(ctx, revokedKey(c.ID))
		if err != nil {
			s.log.Warn("Revocation lookup failed", zap.Error(err))
		}
		if revoked {
			return models.Session{}, ErrInvalidToken
		}
	}
	return c.session(token), nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, token string) error {
	c, err := s.parse(token, purposeSession)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, c); err != nil {
		return err
	}
	s.emit(mq.SignedOut, c.Subject)
	return nil
}

// ElevateAdmin trades a signed-in session for an admin one when secret
// matches the configured admin password.
func (s *Service) ElevateAdmin(ctx context.Context, sess models.Session, secret string) (models.Session, error) {
	if !sess.SignedIn() {
		return models.Session{}, ErrGuestNotAllowed
	}
	if s.adminHash == nil {
		return models.Session{}, ErrAdminDisabled
	}
	if bcrypt.CompareHashAndPassword(s.adminHash, []byte(secret)) != nil {
		return models.Session{}, ErrBadAdminSecret
	}
	return s.reissue(ctx, sess, true)
}

func (s *Service) DropAdmin(ctx context.Context, sess models.Session) (models.Session, error) {
	if !sess.SignedIn() {
		return models.Session{}, ErrGuestNotAllowed
	}
	return s.reissue(ctx, sess, false)
}

func (s *Service) reissue(ctx context.Context, sess models.Session, admin bool) (models.Session, error) {
	if c, err := s.parse(sess.Token, purposeSession); err == nil {
		if err := s.revoke(ctx, c); err != nil {
			return models.Session{}, err
		}
	}
	next, err := s.issue(sess.User, false, admin)
	if err != nil {
		return models.Session{}, err
	}
	s.emit(mq.AdminChanged, sess.User.ID)
	return next, nil
}

func (s *Service) revoke(ctx context.Context, c *Claims) error {
	if s.revoked == nil || c.ID == "" {
		return nil
	}
	ttl := time.Minute
	if c.ExpiresAt != nil {
		if left := c.ExpiresAt.Sub(s.now()); left > 0 {
			ttl = left
		}
	}
	if err := s.revoked.Set(ctx, revokedKey(c.ID), "1", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) emit(event, userID string) {
	_ = s.bus.Emit(event, mq.Index{EntityType: "user", Method: "auth", EntityId: userID})
}
