package login_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	authservice "github.com/magabrotheeeer/model-sharing-service/internal/services/auth"
)

// Мок для Service
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// Мок для SessionCreator
type SessionCreatorMock struct {
	mock.Mock
}

func (m *SessionCreatorMock) Create(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func knownRoutes(path string) bool {
	switch path {
	case "/", "/models":
		return true
	}
	return false
}

func postLoginForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	testUser := &models.User{Username: "testuser"}

	tests := []struct {
		name         string
		form         url.Values
		setupMocks   func(a *AuthServiceMock, s *SessionCreatorMock)
		wantStatus   int
		wantLocation string
		wantCookie   bool
		wantErrText  string
	}{
		{
			name: "successful login redirects home",
			form: url.Values{"username": {"testuser"}, "password": {"password123"}},
			setupMocks: func(a *AuthServiceMock, s *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "password123").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "testuser").Return("session-token", nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/",
			wantCookie:   true,
		},
		{
			name: "successful login follows registered next",
			form: url.Values{"username": {"testuser"}, "password": {"password123"}, "next": {"/models"}},
			setupMocks: func(a *AuthServiceMock, s *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "password123").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "testuser").Return("session-token", nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/models",
			wantCookie:   true,
		},
		{
			name: "unregistered next goes to 404",
			form: url.Values{"username": {"testuser"}, "password": {"password123"}, "next": {"/no/such/page"}},
			setupMocks: func(a *AuthServiceMock, s *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "password123").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "testuser").Return("session-token", nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/404",
			wantCookie:   true,
		},
		{
			name: "external next goes to 404",
			form: url.Values{"username": {"testuser"}, "password": {"password123"}, "next": {"https://evil.example/phish"}},
			setupMocks: func(a *AuthServiceMock, s *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "password123").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "testuser").Return("session-token", nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/404",
			wantCookie:   true,
		},
		{
			name: "invalid credentials render generic error",
			form: url.Values{"username": {"testuser"}, "password": {"wrongpassword"}},
			setupMocks: func(a *AuthServiceMock, _ *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "wrongpassword").
					Return(nil, authservice.ErrInvalidCredentials).Once()
			},
			wantStatus:  http.StatusOK,
			wantErrText: "invalid username or password",
		},
		{
			name:        "empty username renders generic error",
			form:        url.Values{"password": {"password123"}},
			setupMocks:  func(_ *AuthServiceMock, _ *SessionCreatorMock) {},
			wantStatus:  http.StatusOK,
			wantErrText: "invalid username or password",
		},
		{
			name: "session store failure renders generic error",
			form: url.Values{"username": {"testuser"}, "password": {"password123"}},
			setupMocks: func(a *AuthServiceMock, s *SessionCreatorMock) {
				a.On("Login", mock.Anything, "testuser", "password123").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "testuser").Return("", errors.New("redis down")).Once()
			},
			wantStatus:  http.StatusOK,
			wantErrText: "invalid username or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			sessionsMock := new(SessionCreatorMock)
			tt.setupMocks(authMock, sessionsMock)

			handler := login.New(newNoopLogger(), authMock, sessionsMock, "session_id", knownRoutes)

			rec := postLoginForm(t, handler, tt.form)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantErrText != "" {
				assert.Contains(t, rec.Body.String(), tt.wantErrText)
			}

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				var sessionCookie *http.Cookie
				for _, c := range cookies {
					if c.Name == "session_id" {
						sessionCookie = c
					}
				}
				if assert.NotNil(t, sessionCookie) {
					assert.Equal(t, "session-token", sessionCookie.Value)
					assert.True(t, sessionCookie.HttpOnly)
					assert.Equal(t, "/", sessionCookie.Path)
				}
			} else {
				assert.Empty(t, cookies)
			}

			authMock.AssertExpectations(t)
			sessionsMock.AssertExpectations(t)
		})
	}
}
