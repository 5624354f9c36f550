package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/user/finflow-go/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for every verification failure: malformed
// token, wrong signature, wrong token type or expiry. Callers get no hint
// about which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for both token kinds.
type Claims struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}

// TokenService issues and verifies JWTs. Access and refresh tokens use
// independent secrets and independent expirations.
type TokenService struct {
	cfg config.AuthConfig
}

// NewTokenService creates a TokenService.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// IssuePair generates a new access/refresh token pair for the user.
func (ts *TokenService) IssuePair(userID int, username string) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := ts.issue(userID, username, tokenTypeAccess, ts.cfg.AccessSecret, ts.cfg.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := ts.issue(userID, username, tokenTypeRefresh, ts.cfg.RefreshSecret, ts.cfg.RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(time.Until(accessExpiresAt).Seconds()),
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (ts *TokenService) VerifyAccess(tokenString string) (*Claims, error) {
	return ts.verify(tokenString, tokenTypeAccess, ts.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (ts *TokenService) VerifyRefresh(tokenString string) (*Claims, error) {
	return ts.verify(tokenString, tokenTypeRefresh, ts.cfg.RefreshSecret)
}

func (ts *TokenService) issue(userID int, username, tokenType, secret string, duration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(duration)
	claims := &Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "finflow",
			Subject:   fmt.Sprintf("%d", userID),
			// Timestamps have second precision, so two pairs issued in the
			// same second would otherwise be byte-identical and rotation
			// would not actually retire the old refresh token.
			ID: uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// verify fails closed: every failure collapses into ErrInvalidToken so the
// response cannot be used as an oracle on token validity.
func (ts *TokenService) verify(tokenString, expectedTokenType, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedTokenType {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 digest of a token. Refresh tokens are
// stored server-side only in this form: JWTs exceed bcrypt's input limit,
// and a digest of a high-entropy token is sufficient for equality lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
