package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/identity-provider/internal/errs"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/handler"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/model"
	"github.com/Astemirdum/book-exchange/pkg/auth"

	service_mocks "github.com/Astemirdum/book-exchange/identity-provider/internal/handler/mocks"
)

var authCfg = auth.Config{Secret: "test-secret", TTL: time.Hour, Issuer: "book-exchange"}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockAuthService)

	userID := uuid.MustParse("5d7e3d8e-6d3c-4f5b-9a71-0b9a3c1f6a10")
	okResp := model.AuthResponse{
		User:        model.User{ID: userID, Username: "alice", PasswordHash: "hidden"},
		AccessToken: "token",
		ExpiresIn:   3600,
	}

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().
					RegisterUser(gomock.Any(), model.UserCreateRequest{Username: "alice", Password: "secret1"}).
					Return(okResp, nil)
			},
			body: `{"username":"alice","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"user":{"id":"5d7e3d8e-6d3c-4f5b-9a71-0b9a3c1f6a10","username":"alice","fullName":"","city":"","state":"","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"},"accessToken":"token","expiresIn":3600}`,
			},
		},
		{
			name:         "err. short password",
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			body:         `{"username":"alice","password":"123"}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"password must be at least 6 long"}`,
			},
		},
		{
			name: "err. exists",
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(model.AuthResponse{}, errs.ErrUserExists)
			},
			body: `{"username":"alice","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"user already exists"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(model.AuthResponse{}, errors.New("db internal"))
			},
			body: `{"username":"alice","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"internal server error"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockAuthService(c)
			h := handler.New(svc, authCfg, zap.NewExample().Named("test"))
			e := h.NewRouter()

			r := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Authorize(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockAuthService(c)
	svc.EXPECT().
		Authorize(gomock.Any(), model.AuthRequest{Username: "alice", Password: "nope"}).
		Return(model.AuthResponse{}, errs.ErrInvalidCredentials)

	e := handler.New(svc, authCfg, zap.NewNop()).NewRouter()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/authorize", strings.NewReader(`{"username":"alice","password":"nope"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"invalid username or password"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()
	p := auth.Profile{UserID: uuid.New(), Username: "alice"}
	token, _, err := auth.NewToken(authCfg, p, time.Now())
	require.NoError(t, err)

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockAuthService(c)
	city := "London"
	svc.EXPECT().GetProfile(gomock.Any(), p.UserID).Return(model.User{ID: p.UserID, Username: "alice"}, nil)
	svc.EXPECT().
		UpdateProfile(gomock.Any(), p.UserID, model.UpdateProfileRequest{City: &city}).
		DoAndReturn(func(_ context.Context, id uuid.UUID, req model.UpdateProfileRequest) (model.User, error) {
			return model.User{ID: id, Username: "alice", City: *req.City}, nil
		})
	e := handler.New(svc, authCfg, zap.NewNop()).NewRouter()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/me", http.NoBody)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPut, "/api/v1/me", strings.NewReader(`{"city":"London"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "London", got.City)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/me", http.NoBody)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
