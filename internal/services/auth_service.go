package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"mindmap/internal/models"
	"mindmap/internal/repositories"
	"mindmap/pkg/events"
)

// AuthService handles registration, login, and token resolution.
type AuthService struct {
	userRepo      repositories.UserRepository
	publisher     *events.Publisher
	jwtSecret     []byte
	tokenDurat    time.Duration
	signupCredits int
}

// NewAuthService creates a new AuthService. The publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, publisher *events.Publisher, jwtSecret string, tokenTTL time.Duration, signupCredits int) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		publisher:     publisher,
		jwtSecret:     []byte(jwtSecret),
		tokenDurat:    tokenTTL,
		signupCredits: signupCredits,
	}
}

// Register creates a new user with a hashed password and their initial
// credit grant. The user and credit rows commit in one transaction.
func (s *AuthService) Register(email, username, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s': %w", email, ErrDuplicateEmail)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashedPassword),
		IsActive:       true,
	}
	credit := &models.Credit{Amount: s.signupCredits}

	if err := s.userRepo.CreateWithCredit(user, credit); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.publisher.PublishUserRegistered(user.ID, user.Email); err != nil {
		log.Printf("Warning: failed to publish user.registered for user %d: %v", user.ID, err)
	}

	return user, nil
}

// Login authenticates by email and password and returns a signed JWT whose
// subject is the user's email.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(s.tokenDurat).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// CurrentUser resolves the calling user from a bearer token by re-looking up
// the subject email. Used by every protected operation.
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return user, nil
}
