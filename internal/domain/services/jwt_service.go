package services

import (
	"errors"
	"fmt"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// InterfaceJWTService defines the JWT service interface
type InterfaceJWTService interface {
	GenerateToken(userID uint, username, role string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	Login(username, password string) (*LoginResult, error)
}

// LoginResult represents a successful login
type LoginResult struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	Role      string      `json:"role"`
	Username  string      `json:"username"`
	CreatedAt interface{} `json:"created_at"`
}

// JWTService provides JWT issuing and validation
type JWTService struct {
	secretKey string
	issuer    string
	DB        *gorm.DB
}

// JWTClaims defines the token claims
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "fieldops-http-service",
		DB:        db,
	}
}

// GenerateToken issues a signed token carrying the identity the core
// operations trust verbatim.
func (s *JWTService) GenerateToken(userID uint, username, role string) (string, error) {
	// Tokens are valid for 24 hours
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken parses and validates a token string
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// Login checks credentials against the seeded user table. The comparison is
// plaintext by design: accounts come from static configuration and
// credential hardening is out of scope.
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errors.New("invalid username or password")
	}

	if user.Password != password {
		return nil, errors.New("invalid username or password")
	}

	token, err := s.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}
