package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// AuthService handles registration, login, and token validation for both
// customers and farmers.
type AuthService struct {
	users         *repositories.UserStore
	idgen         *IDGenerator
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repositories.UserStore, idgen *IDGenerator, jwtSecret string) *AuthService {
	return &AuthService{
		users:         users,
		idgen:         idgen,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
	}
}

// RegisterCustomer validates, hashes the password, and stores a new customer
// with a fresh C-prefixed id.
func (s *AuthService) RegisterCustomer(name, email, password, location string) (*models.Customer, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	customer, err := models.NewCustomer(s.idgen.Next(PrefixCustomer), name, email, hash, location)
	if err != nil {
		return nil, err
	}
	if !s.users.AddCustomer(*customer) {
		return nil, fmt.Errorf("user ID %s already exists", customer.ID)
	}
	log.Printf("User %s registered successfully as %s", customer.ID, customer.Role)
	return customer, nil
}

// RegisterFarmer validates, hashes the password, and stores a new farmer with
// a fresh F-prefixed id.
func (s *AuthService) RegisterFarmer(name, email, password, location string) (*models.Farmer, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	farmer, err := models.NewFarmer(s.idgen.Next(PrefixFarmer), name, email, hash, location)
	if err != nil {
		return nil, err
	}
	if !s.users.AddFarmer(*farmer) {
		return nil, fmt.Errorf("user ID %s already exists", farmer.ID)
	}
	log.Printf("User %s registered successfully as %s", farmer.ID, farmer.Role)
	return farmer, nil
}

// Login authenticates a user id and password and returns a signed JWT.
func (s *AuthService) Login(userID, password string) (string, error) {
	user, ok := s.users.GetUser(userID)
	if !ok {
		// Do not reveal whether the user id exists.
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenDuration).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", &models.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
