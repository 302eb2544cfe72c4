package grant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Мок сервиса с методом Grant
type RightsServiceMock struct {
	mock.Mock
}

func (m *RightsServiceMock) Grant(ctx context.Context, grantor string, right models.Right) error {
	args := m.Called(ctx, grantor, right)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestGrantHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		grantor        string
		requestBody    interface{}
		setupMocks     func(s *RightsServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "creator grants write right",
			grantor:     "alice",
			requestBody: Request{Username: "bob", RightLevel: true},
			setupMocks: func(s *RightsServiceMock) {
				s.On("Grant", mock.Anything, "alice",
					models.Right{ModelID: "model-1", Username: "bob", RightLevel: true}).Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			grantor:        "alice",
			requestBody:    "not a json",
			setupMocks:     func(_ *RightsServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing username",
			grantor:        "alice",
			requestBody:    Request{RightLevel: true},
			setupMocks:     func(_ *RightsServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Username is a required field",
		},
		{
			name:        "grantor without write right",
			grantor:     "carol",
			requestBody: Request{Username: "bob", RightLevel: false},
			setupMocks: func(s *RightsServiceMock) {
				s.On("Grant", mock.Anything, "carol", mock.Anything).
					Return(rightsservice.ErrAccessDenied).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      "access denied",
		},
		{
			name:        "model not found",
			grantor:     "alice",
			requestBody: Request{Username: "bob", RightLevel: false},
			setupMocks: func(s *RightsServiceMock) {
				s.On("Grant", mock.Anything, "alice", mock.Anything).
					Return(rightsservice.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "model not found",
		},
		{
			name:        "service error",
			grantor:     "alice",
			requestBody: Request{Username: "bob", RightLevel: false},
			setupMocks: func(s *RightsServiceMock) {
				s.On("Grant", mock.Anything, "alice", mock.Anything).
					Return(errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to grant right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(RightsServiceMock)
			tt.setupMocks(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/models/model-1/rights", bytes.NewReader(bodyBytes))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "model-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.grantor)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "model-1", data["model_id"])
				assert.Equal(t, "bob", data["username"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
