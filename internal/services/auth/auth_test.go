package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/model-sharing-service/internal/lib/password"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/token"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	services "github.com/magabrotheeeer/model-sharing-service/internal/services/auth"
	"github.com/magabrotheeeer/model-sharing-service/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserEmail(ctx context.Context, username, email string) (int64, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) UpdateUserPassword(ctx context.Context, username, passwordHash string) (int64, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) ListWriteModels(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *UserRepoMock) ListReadModels(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// Мок для token.Maker
type TokenMakerMock struct {
	mock.Mock
}

func (m *TokenMakerMock) GenerateToken(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *TokenMakerMock) ParseToken(tokenStr string) (*token.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		username    string
		password    string
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantErr     bool
		errMsg      string
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Username == "testuser" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123"
				})).Return("some-uuid-string", nil).Once()
			},
			wantUserUID: "some-uuid-string",
			wantErr:     false,
		},
		{
			name:     "duplicate username",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return("", repository.ErrUserExists).Once()
			},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "user already exists",
		},
		{
			name:     "repository error",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			makerMock := new(TokenMakerMock)
			svc := services.NewAuthService(repo, makerMock, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"

	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: hashedPassword,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    bool
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
			},
			wantErr: false,
		},
		{
			name:     "user not found",
			username: "nonexistent",
			password: "password",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "nonexistent").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: true,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
			},
			wantErr: true,
		},
		{
			name:     "repository error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			makerMock := new(TokenMakerMock)
			svc := services.NewAuthService(repo, makerMock, newNoopLogger())

			tt.setupMocks(repo)

			user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				// Все неудачи неразличимы для вызывающей стороны.
				assert.ErrorIs(t, err, services.ErrInvalidCredentials)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "testuser", user.Username)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_IssueAPIToken(t *testing.T) {
	rawPassword := "correctpassword"
	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		Username:     "testuser",
		PasswordHash: hashedPassword,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, m *TokenMakerMock)
		wantToken  string
		wantErr    bool
		errMsg     string
	}{
		{
			name:     "successful issue",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, m *TokenMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				m.On("GenerateToken", "testuser").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
			wantErr:   false,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *TokenMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
			},
			wantToken: "",
			wantErr:   true,
			errMsg:    "invalid credentials",
		},
		{
			name:     "token generation error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, m *TokenMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				m.On("GenerateToken", "testuser").Return("", errors.New("token error")).Once()
			},
			wantToken: "",
			wantErr:   true,
			errMsg:    "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			makerMock := new(TokenMakerMock)
			svc := services.NewAuthService(repo, makerMock, newNoopLogger())

			tt.setupMocks(repo, makerMock)

			got, err := svc.IssueAPIToken(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, got)
			}

			repo.AssertExpectations(t)
			makerMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	testUser := &models.User{
		UID:          "uid-1",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hashedpassword",
	}

	tests := []struct {
		name       string
		username   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
		wantWrite  []string
		wantRead   []string
	}{
		{
			name:     "profile with derived model lists",
			username: "testuser",
			setupMocks: func(r *UserRepoMock) {
				u := *testUser
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(&u, nil).Once()
				r.On("ListWriteModels", mock.Anything, "testuser").
					Return([]string{"model-1", "model-2"}, nil).Once()
				r.On("ListReadModels", mock.Anything, "testuser").
					Return([]string{"model-3"}, nil).Once()
			},
			wantWrite: []string{"model-1", "model-2"},
			wantRead:  []string{"model-3"},
		},
		{
			name:     "unknown user",
			username: "nonexistent",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "nonexistent").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:     "projection query error",
			username: "testuser",
			setupMocks: func(r *UserRepoMock) {
				u := *testUser
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(&u, nil).Once()
				r.On("ListWriteModels", mock.Anything, "testuser").
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			makerMock := new(TokenMakerMock)
			svc := services.NewAuthService(repo, makerMock, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Profile(context.Background(), tt.username)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "testuser", got.Username)
				// Хэш пароля из профиля вычищается.
				assert.Empty(t, got.PasswordHash)
				assert.Equal(t, tt.wantWrite, got.WriteModels)
				assert.Equal(t, tt.wantRead, got.ReadModels)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateEmail(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful update",
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateUserEmail", mock.Anything, "testuser", "new@example.com").
					Return(int64(1), nil).Once()
			},
		},
		{
			name: "user disappeared",
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateUserEmail", mock.Anything, "testuser", "new@example.com").
					Return(int64(0), nil).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name: "repository error",
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateUserEmail", mock.Anything, "testuser", "new@example.com").
					Return(int64(0), errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(TokenMakerMock), newNoopLogger())

			tt.setupMocks(repo)

			err := svc.UpdateEmail(context.Background(), "testuser", "new@example.com")
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	oldPassword := "oldpassword"
	hashedOld, err := password.GetHash(oldPassword)
	require.NoError(t, err)

	testUser := &models.User{
		Username:     "testuser",
		PasswordHash: hashedOld,
	}

	t.Run("successful change stores a new hash", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(TokenMakerMock), newNoopLogger())

		u := *testUser
		repo.On("GetUserByUsername", mock.Anything, "testuser").Return(&u, nil).Once()
		repo.On("UpdateUserPassword", mock.Anything, "testuser",
			mock.MatchedBy(func(hash string) bool {
				return hash != "" && hash != "newpassword" && hash != hashedOld
			})).Return(int64(1), nil).Once()

		err := svc.UpdatePassword(context.Background(), "testuser", oldPassword, "newpassword")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(TokenMakerMock), newNoopLogger())

		u := *testUser
		repo.On("GetUserByUsername", mock.Anything, "testuser").Return(&u, nil).Once()

		err := svc.UpdatePassword(context.Background(), "testuser", "wrongpassword", "newpassword")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdateUserPassword", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user gives the same error", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(TokenMakerMock), newNoopLogger())

		repo.On("GetUserByUsername", mock.Anything, "nonexistent").
			Return(nil, repository.ErrNotFound).Once()

		err := svc.UpdatePassword(context.Background(), "nonexistent", "whatever", "newpassword")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})

	t.Run("user disappeared between check and update", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewAuthService(repo, new(TokenMakerMock), newNoopLogger())

		u := *testUser
		repo.On("GetUserByUsername", mock.Anything, "testuser").Return(&u, nil).Once()
		repo.On("UpdateUserPassword", mock.Anything, "testuser", mock.Anything).
			Return(int64(0), nil).Once()

		err := svc.UpdatePassword(context.Background(), "testuser", oldPassword, "newpassword")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_ValidateAPIToken(t *testing.T) {
	validClaims := &token.CustomClaims{
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name         string
		token        string
		setupMocks   func(m *TokenMakerMock)
		wantUsername string
		wantErr      bool
		errMsg       string
	}{
		{
			name:  "valid token",
			token: "valid-token",
			setupMocks: func(m *TokenMakerMock) {
				m.On("ParseToken", "valid-token").Return(validClaims, nil).Once()
			},
			wantUsername: "testuser",
			wantErr:      false,
		},
		{
			name:  "invalid token",
			token: "invalid-token",
			setupMocks: func(m *TokenMakerMock) {
				m.On("ParseToken", "invalid-token").Return(nil, errors.New("invalid token")).Once()
			},
			wantUsername: "",
			wantErr:      true,
			errMsg:       "invalid token",
		},
		{
			name:  "expired token",
			token: "expired-token",
			setupMocks: func(m *TokenMakerMock) {
				m.On("ParseToken", "expired-token").Return(nil, errors.New("token expired")).Once()
			},
			wantUsername: "",
			wantErr:      true,
			errMsg:       "token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			makerMock := new(TokenMakerMock)
			svc := services.NewAuthService(repo, makerMock, newNoopLogger())

			tt.setupMocks(makerMock)

			got, err := svc.ValidateAPIToken(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantUsername, got)

			makerMock.AssertExpectations(t)
		})
	}
}
