package services

import (
	"fmt"

	"chat-thread/auth"
	"chat-thread/domain"
	"chat-thread/errors"
	"chat-thread/repositories"

	"github.com/go-playground/validator/v10"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(email, password string) (Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         auth.TokenIssuer
	validate       *validator.Validate
}

type Token string

// NewAuthService expects a validator built by auth.NewValidator.
func NewAuthService(repo repositories.IUserRepository, tokens auth.TokenIssuer, validate *validator.Validate) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens, validate: validate}
}

func (s *AuthService) Register(email, password string) (Token, error) {
	// Validate email format and password complexity before any expensive hashing
	if err := s.validate.Struct(domain.RegisterCommand{Email: email, Password: password}); err != nil {
		return "", auth.RegistrationError(err)
	}

	// The repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(email, hashedPassword)
	if err != nil {
		return "", err // ErrUserAlreadyExists if email is taken
	}

	token, err := s.tokens.GenerateToken(userID, []string{"user"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
