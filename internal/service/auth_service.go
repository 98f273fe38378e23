package service

import (
	"errors"
	"fmt"
	"time"

	"improvemycity/config"
	"improvemycity/internal/model"
	"improvemycity/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	EmailExists(email string) (bool, error)
}

type AuthService struct {
	users     UserStore
	jwtConfig config.JWTConfig
	adminKey  string
}

func NewAuthService(users UserStore, jwtConfig config.JWTConfig, adminKey string) *AuthService {
	return &AuthService{
		users:     users,
		jwtConfig: jwtConfig,
		adminKey:  adminKey,
	}
}

// Register creates a citizen account, or an admin account when the configured
// admin key is presented. No user row is written on any failure path.
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, string, error) {
	role := model.RoleCitizen
	if req.Role == model.RoleAdmin {
		if s.adminKey == "" || req.AdminKey != s.adminKey {
			return nil, "", ErrInvalidAdminKey
		}
		role = model.RoleAdmin
	}

	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login returns the same generic error for unknown email and wrong password.
func (s *AuthService) Login(req *model.LoginRequest) (*model.User, string, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate verifies a bearer token and resolves the identity it names.
// A valid token referencing a deleted user still fails.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrUnauthenticated
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Hour * time.Duration(s.jwtConfig.ExpirationHours)).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
