package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

// AdminStore is the identity lookup the login flow depends on.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	TouchSignIn(ctx context.Context, id int, at time.Time) error
}

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID int        `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// AuthService handles admin authentication, JWT and session management.
// First-access activation never goes through here; this is the ordinary
// password login for already-activated accounts.
type AuthService struct {
	cfg    *config.Config
	rdb    *redis.Client
	admins AdminStore
	events EventRecorder
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, admins AdminStore, events EventRecorder) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, admins: admins, events: events, now: time.Now}
}

// Login authenticates an admin and returns a signed JWT. Every failed
// attempt is recorded as a login_failed security event; the error never
// distinguishes an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password, origin string) (*model.AdminLoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.events.Record(ctx, model.EventLoginFailed, email, origin, model.SeverityMedium)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if !admin.Active() {
		s.events.Record(ctx, model.EventLoginFailed, email, origin, model.SeverityMedium)
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.events.Record(ctx, model.EventLoginFailed, email, origin, model.SeverityMedium)
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(ctx, admin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.admins.TouchSignIn(ctx, admin.ID, now); err == nil {
		admin.LastSignInAt = &now
	}
	s.events.Record(ctx, model.EventLoginSucceeded, email, origin, model.SeverityLow)

	return &model.AdminLoginResponse{Token: token, Admin: *admin}, nil
}

// Logout removes the admin's active session from Redis.
func (s *AuthService) Logout(ctx context.Context, adminID int) error {
	return s.rdb.Del(ctx, config.CacheKey.AdminSessionKey(adminID)).Err()
}

// GetProfile returns the admin behind a set of claims.
func (s *AuthService) GetProfile(ctx context.Context, adminID int) (*model.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks that the token's JTI matches the active session in
// Redis; a mismatch means the session was invalidated by a newer login.
func (s *AuthService) ValidateSession(ctx context.Context, adminID int, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.AdminSessionKey(adminID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("no active session")
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return errors.New("session invalidated")
	}
	return nil
}

func (s *AuthService) generateToken(ctx context.Context, admin *model.Admin) (string, error) {
	jti := uuid.New().String()
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: admin.ID,
		Email:  admin.Email,
		Role:   admin.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	// A newer login replaces the previous session.
	if err := s.rdb.Set(ctx, config.CacheKey.AdminSessionKey(admin.ID), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}
