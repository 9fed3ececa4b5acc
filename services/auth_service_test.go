package services

import (
	"testing"
	"time"

	"givelink/auth"
	"givelink/domain"
	"givelink/errors"
	"givelink/mocks"
	"givelink/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockProfiles := mocks.NewMockIProfileRepository(ctrl)
	svc := NewAuthService(mockUsers, mockProfiles, 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "test@example.com"
		password := "ComplexPass123!" // Must satisfy the complexity rules
		expectedUserID := "user-uuid"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockUsers.EXPECT().
			CreateUser(email, gomock.Any(), domain.RoleDonor).
			Return(expectedUserID, nil).
			Times(1)

		// A fresh account gets an incomplete profile seed
		mockProfiles.EXPECT().
			Save(gomock.Any()).
			DoAndReturn(func(profile domain.Profile) error {
				req.Equal(expectedUserID, profile.UserID)
				req.Equal(domain.RoleDonor, profile.Role)
				req.False(profile.Complete)
				return nil
			}).
			Times(1)

		token, err := svc.Register(email, password, domain.RoleDonor)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(string(token))
		req.NoError(err)
		req.Equal(expectedUserID, claims.UserID)
		req.Equal(string(domain.RoleDonor), claims.Role)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		email := "test@example.com"
		password := "simple" // Fails validation

		// Repository should NEVER be called
		mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register(email, password, domain.RoleHelpSeeker)

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"
		password := "ComplexPass123!"

		mockUsers.EXPECT().
			CreateUser(email, gomock.Any(), domain.RoleDonor).
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(email, password, domain.RoleDonor)

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockProfiles := mocks.NewMockIProfileRepository(ctrl)
	svc := NewAuthService(mockUsers, mockProfiles, 24*time.Hour)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "ComplexPass123!"

		hashed, err := auth.HashPassword(password)
		req.NoError(err)

		mockUsers.EXPECT().
			GetUserByEmail(email).
			Return(repositories.User{ID: "user-uuid", Email: email, PasswordHash: hashed, Role: domain.RoleHelpSeeker}, nil).
			Times(1)

		token, err := svc.Login(email, password)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(string(token))
		req.NoError(err)
		req.Equal(string(domain.RoleHelpSeeker), claims.Role)
	})

	t.Run("should fail with wrong password", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashed, err := auth.HashPassword("RightPassword123!")
		req.NoError(err)

		mockUsers.EXPECT().
			GetUserByEmail(email).
			Return(repositories.User{ID: "user-uuid", Email: email, PasswordHash: hashed, Role: domain.RoleDonor}, nil).
			Times(1)

		_, err = svc.Login(email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should fail with unknown email", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().
			GetUserByEmail("ghost@example.com").
			Return(repositories.User{}, errors.ErrInvalidCredentials).
			Times(1)

		_, err := svc.Login("ghost@example.com", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
