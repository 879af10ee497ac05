package auth

import (
	"fmt"
	"time"

	"deliciasmz/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	purposeSession = "session"
	purposeConfirm = "confirm"
)

// Claims is the JWT payload of every token the service issues.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Admin   bool   `json:"admin,omitempty"`
	Guest   bool   `json:"guest,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (c *Claims) session(token string) models.Session {
	s := models.Session{
		Token: token,
		User:  models.User{ID: c.Subject, Name: c.Name, Avatar: c.Avatar},
		Guest: c.Guest,
		Admin: c.Admin && !c.Guest,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

func (s *Service) sign(c Claims, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   c.Subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

func (s *Service) issue(user models.User, guest, admin bool) (models.Session, error) {
	c := Claims{Name: user.Name, Avatar: user.Avatar, Guest: guest, Admin: admin, Purpose: purposeSession}
	c.Subject = user.ID
	token, exp, err := s.sign(c, s.cfg.SessionTTL)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Token: token, User: user, Guest: guest, Admin: admin, ExpiresAt: exp}, nil
}

func (s *Service) parse(token, purpose string) (*Claims, error) {
	c := &Claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || c.Purpose != purpose || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}
