package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"mindmap/internal/models"
	"mindmap/internal/repositories"
	"mindmap/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithCredit(user *models.User, credit *models.Credit) error {
	args := m.Called(user, credit)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, nil, testJWTSecret, time.Hour, 10)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	notFound := fmt.Errorf("user with email u@example.com: %w", repositories.ErrNotFound)

	// Successful registration creates the user and a 10-credit grant together.
	mockRepo.On("GetByEmail", "u@example.com").Return(nil, notFound).Once()
	mockRepo.On("CreateWithCredit",
		mock.AnythingOfType("*models.User"),
		mock.MatchedBy(func(c *models.Credit) bool { return c.Amount == 10 }),
	).Return(nil).Once()

	user, err := authService.Register("u@example.com", "testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "u@example.com", user.Email)
	assert.Equal(t, "testuser", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Duplicate email is rejected before any insert.
	mockRepo.On("GetByEmail", "u@example.com").Return(&models.User{ID: 1, Email: "u@example.com"}, nil).Once()
	_, err = authService.Register("u@example.com", "testuser", "password123")
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:             1,
		Username:       "testuser",
		Email:          "u@example.com",
		HashedPassword: string(hashedPassword),
		IsActive:       true,
	}

	// Successful login issues a token with the email as subject.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, err := authService.Login("u@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.Email, claims["sub"])
	mockRepo.AssertExpectations(t)

	// Wrong password.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = authService.Login("u@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email yields the same generic failure.
	mockRepo.On("GetByEmail", "nobody@example.com").
		Return(nil, fmt.Errorf("user with email nobody@example.com: %w", repositories.ErrNotFound)).Once()
	_, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CurrentUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{ID: 1, Username: "testuser", Email: "u@example.com", IsActive: true}

	signed := func(claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, _ := token.SignedString([]byte(testJWTSecret))
		return s
	}

	// Valid token resolves the user by the embedded subject.
	validToken := signed(jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	resolved, err := authService.CurrentUser(validToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	mockRepo.AssertExpectations(t)

	// Expired token.
	expiredToken := signed(jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	_, err = authService.CurrentUser(expiredToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Garbage token.
	_, err = authService.CurrentUser("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token whose subject no longer resolves to a user.
	ghostToken := signed(jwt.MapClaims{
		"sub": "ghost@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	mockRepo.On("GetByEmail", "ghost@example.com").
		Return(nil, fmt.Errorf("user with email ghost@example.com: %w", repositories.ErrNotFound)).Once()
	_, err = authService.CurrentUser(ghostToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}
