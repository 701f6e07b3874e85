package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService manages JWT token generation and validation for the
// WebSocket live feed.
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// AgentClaims is the JWT claims structure issued by this agent.
type AgentClaims struct {
	AppName string `json:"app_name"`
	jwt.RegisteredClaims
}

var authService *AuthService

// InitAuthService initializes the authentication service. With an
// empty secretKey a key is loaded from (or generated into) keyFile so
// tokens survive restarts.
func InitAuthService(secretKey, keyFile string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		if keyFile == "" {
			homeDir, _ := os.UserHomeDir()
			if homeDir == "" {
				homeDir = os.TempDir()
			}
			keyFile = filepath.Join(homeDir, ".memwatch-secret-key")
		}

		if data, err := os.ReadFile(keyFile); err == nil && len(data) > 0 {
			secretKey = strings.TrimSpace(string(data))
			log.Printf("[AUTH] Loaded persisted secret key from %s", keyFile)
		} else {
			randomBytes := make([]byte, 32)
			if _, err := rand.Read(randomBytes); err != nil {
				secretKey = fmt.Sprintf("memwatch-%d-fallback", time.Now().UnixNano())
				log.Printf("[AUTH] Warning: random generation failed, using fallback key")
			} else {
				secretKey = "memwatch-" + hex.EncodeToString(randomBytes)
			}
			if err := os.WriteFile(keyFile, []byte(secretKey), 0600); err != nil {
				log.Printf("[AUTH] Warning: could not persist secret key to %s: %v", keyFile, err)
			} else {
				log.Printf("[AUTH] Generated and persisted secret key to %s", keyFile)
			}
		}
	}

	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	authService = &AuthService{
		secretKey:   strings.TrimSpace(secretKey),
		tokenExpiry: tokenExpiry,
	}
	return authService
}

// GenerateToken creates a new JWT token for a feed consumer.
func GenerateToken(appName string) (string, error) {
	if authService == nil {
		return "", fmt.Errorf("auth service not initialized")
	}

	now := time.Now()
	claims := AgentClaims{
		AppName: appName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(authService.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "memwatch-agent",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authService.secretKey))
}

// ValidateToken verifies and parses a JWT token.
func ValidateToken(tokenString string) (*AgentClaims, error) {
	if authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	claims := &AgentClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authService.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
