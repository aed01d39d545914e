package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/requestdata"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService guards the admin panel. There are no user accounts; one
// password from the environment unlocks a short-lived bearer token. The
// configured password may be a bcrypt digest or, matching the original
// deployment, the plain value.
type AuthService interface {
	Login(ctx context.Context, password string) (string, time.Duration, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log           *logger.Logger
	adminPassword string
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(baseLog *logger.Logger, adminPassword, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		log:           serviceLog,
		adminPassword: adminPassword,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (as *authService) Login(ctx context.Context, password string) (string, time.Duration, error) {
	if as.adminPassword == "" {
		as.log.Error("ADMIN_PASSWORD is not configured, refusing all logins")
		return "", 0, ErrInvalidCredentials
	}
	if !as.passwordMatches(password) {
		return "", 0, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	as.log.Info("Admin login succeeded")
	return signed, as.accessTTL, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != "admin" {
		return ctx, ErrInvalidCredentials
	}
	rd := &requestdata.RequestData{TokenString: tokenString, IsAdmin: true}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) passwordMatches(password string) bool {
	if looksLikeBcrypt(as.adminPassword) {
		return bcrypt.CompareHashAndPassword([]byte(as.adminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(as.adminPassword), []byte(password)) == 1
}

func looksLikeBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
