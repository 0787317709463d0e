package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"partnerhub/internal/caching"
	"partnerhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenIssuer   = "partnerhub-auth"
	tokenAudience = "partnerhub-api"
)

// AuthService issues and validates portal tokens
type AuthService interface {
	GenerateTokens(ctx context.Context, role models.Role, subjectID uuid.UUID, name string) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	Revoke(ctx context.Context, claims *TokenClaims, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
	logger     *zap.SugaredLogger
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

func NewAuthService(cacheSvc caching.CacheService, jwtSecret string, tokenTTL, refreshTTL time.Duration, lg *zap.SugaredLogger) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
		logger:     lg,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, role models.Role, subjectID uuid.UUID, name string) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subjectID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	subject := fmt.Sprintf("%s:%s:%s", role, subjectID, name)
	if err := s.cacheSvc.SetRefreshToken(ctx, hashToken(refreshToken), subject, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		RefreshToken: refreshToken,
		Role:         role,
		SubjectID:    subjectID.String(),
		Name:         name,
		TokenID:      tokenID,
		IssuedAt:     now,
	}, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	key := hashToken(refreshToken)
	data, err := s.cacheSvc.GetRefreshToken(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	if data == "" {
		return nil, ErrInvalidToken
	}

	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}
	subjectID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	if err := s.cacheSvc.DeleteRefreshToken(ctx, key); err != nil {
		s.logger.Warnw("failed to delete rotated refresh token", "error", err)
	}
	return s.GenerateTokens(ctx, models.Role(parts[0]), subjectID, parts[2])
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	revoked, err := s.cacheSvc.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blocks the access token for the rest of its lifetime and drops the refresh token
func (s *authService) Revoke(ctx context.Context, claims *TokenClaims, refreshToken string) error {
	if claims != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.cacheSvc.RevokeSession(ctx, claims.ID, ttl); err != nil {
				return fmt.Errorf("revoke session: %w", err)
			}
		}
	}
	if refreshToken != "" {
		if err := s.cacheSvc.DeleteRefreshToken(ctx, hashToken(refreshToken)); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	return nil
}

func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
