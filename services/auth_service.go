package services

import (
	"fmt"
	"time"

	"givelink/auth"
	"givelink/domain"
	"givelink/errors"
	"givelink/repositories"
)

type IAuthService interface {
	Register(email, password string, role domain.Role) (Token, error)
	Login(email, password string) (Token, error)
}

type AuthService struct {
	userRepository    repositories.IUserRepository
	profileRepository repositories.IProfileRepository
	tokenDuration     time.Duration
}

type Token string

func NewAuthService(userRepository repositories.IUserRepository,
	profileRepository repositories.IProfileRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		tokenDuration:     tokenDuration,
	}
}

func (s *AuthService) Register(email, password string, role domain.Role) (Token, error) {
	valReq := auth.RegisterRequest{
		Email:    email,
		Password: password,
	}

	// 1. Validate business rules (email format, password complexity)
	// We check this before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// 2. Hash the password using Argon2id
	// Done in the service layer to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash
	userID, err := s.userRepository.CreateUser(email, hashedPassword, role)
	if err != nil {
		return "", err // Will propagate ErrUserAlreadyExists if email is taken
	}

	// 4. Seed an incomplete profile. The user fills it in the setup flow,
	// nothing is searchable until then.
	seed := domain.Profile{
		UserID:    userID,
		Email:     email,
		Role:      role,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.profileRepository.Save(seed); err != nil {
		return "", err
	}

	// 5. Generate the initial session token
	token, err := auth.GenerateToken(userID, string(role), s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	// 1. Retrieve user by email from storage
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	// 2. Compare the provided password with the stored hash
	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	// 3. Issue the JWT token
	token, err := auth.GenerateToken(user.ID, string(user.Role), s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}
