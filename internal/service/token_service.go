package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
)

// TokenConfig describes how access tokens are verified.
type TokenConfig struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// TokenService verifies HS256 access tokens minted by the identity backend.
type TokenService struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenService constructs a TokenService.
func NewTokenService(cfg TokenConfig) *TokenService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &TokenService{secret: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing token")
	}

	token, err := s.parser.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || !claims.UserType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
