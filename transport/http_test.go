package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muhammadheryan/internmatch/constant"
	authmocks "github.com/muhammadheryan/internmatch/mocks/application/auth"
	chatmocks "github.com/muhammadheryan/internmatch/mocks/application/chat"
	recommendmocks "github.com/muhammadheryan/internmatch/mocks/application/recommend"
	usermocks "github.com/muhammadheryan/internmatch/mocks/application/user"
	"github.com/muhammadheryan/internmatch/model"
	cerr "github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const internalKey = "internal-key"

type handlerFields struct {
	authApp      *authmocks.AuthApp
	userApp      *usermocks.UserApp
	chatApp      *chatmocks.ChatApp
	recommendApp *recommendmocks.RecommendApp
}

func newHandlerFields(t *testing.T) handlerFields {
	return handlerFields{
		authApp:      authmocks.NewAuthApp(t),
		userApp:      usermocks.NewUserApp(t),
		chatApp:      chatmocks.NewChatApp(t),
		recommendApp: recommendmocks.NewRecommendApp(t),
	}
}

func (f handlerFields) handler() http.Handler {
	return NewTransport(&RestHandler{
		AuthApp:      f.authApp,
		UserApp:      f.userApp,
		ChatApp:      f.chatApp,
		RecommendApp: f.recommendApp,
	}, Options{InternalAPIKey: internalKey})
}

func errorBody(t constant.ErrorType) string {
	b, _ := json.Marshal(ErrorResponse{Error: constant.ErrorTypeMessage[t]})
	return string(b)
}

func TestRestHandler(t *testing.T) {
	claims := &model.TokenClaims{UserID: "u-1", Username: "joe", Email: "joe@example.com"}
	validToken := func(f handlerFields) {
		f.authApp.On("ValidateToken", mock.Anything, "tok").Return(claims, nil).Once()
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		header     map[string]string
		mockCall   func(f handlerFields)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:   "signup: created",
			method: http.MethodPost,
			path:   "/api/auth/signup",
			body:   `{"username":"joe","email":"joe@example.com","password":"secret1"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("Signup", mock.Anything, &model.SignupRequest{
					Username: "joe", Email: "joe@example.com", Password: "secret1",
				}).Return(&model.MessageResponse{Message: "User registered successfully"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"message":"User registered successfully"}`,
		},
		{
			name:       "signup: malformed json",
			method:     http.MethodPost,
			path:       "/api/auth/signup",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidRequest),
		},
		{
			name:       "signup: short username",
			method:     http.MethodPost,
			path:       "/api/auth/signup",
			body:       `{"username":"jo","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidUsername),
		},
		{
			name:       "signup: short password",
			method:     http.MethodPost,
			path:       "/api/auth/signup",
			body:       `{"username":"joe","password":"12345"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidPassword),
		},
		{
			name:       "signup: bad email",
			method:     http.MethodPost,
			path:       "/api/auth/signup",
			body:       `{"username":"joe","email":"nope","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidEmail),
		},
		{
			name:   "signup: duplicate username",
			method: http.MethodPost,
			path:   "/api/auth/signup",
			body:   `{"username":"joe","password":"secret1"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("Signup", mock.Anything, mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrDuplicateUsername)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrDuplicateUsername),
		},
		{
			name:       "login: missing fields",
			method:     http.MethodPost,
			path:       "/api/auth/login",
			body:       `{"identifier":"joe"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidRequest),
		},
		{
			name:   "login: bad credentials",
			method: http.MethodPost,
			path:   "/api/auth/login",
			body:   `{"identifier":"joe","password":"wrong"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("Login", mock.Anything, mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrInvalidCredentials)).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   errorBody(constant.ErrInvalidCredentials),
		},
		{
			name:   "login: success",
			method: http.MethodPost,
			path:   "/api/auth/login",
			body:   `{"identifier":"joe","password":"secret1"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("Login", mock.Anything, &model.LoginRequest{Identifier: "joe", Password: "secret1"}).
					Return(&model.LoginResponse{Token: "t", User: model.UserResponse{ID: "u-1", Username: "joe", Name: "Joe"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"t","user":{"id":"u-1","username":"joe","name":"Joe"}}`,
		},
		{
			name:       "send-otp: missing email",
			method:     http.MethodPost,
			path:       "/api/auth/send-otp",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrEmailRequired),
		},
		{
			name:   "send-otp: delivery failure",
			method: http.MethodPost,
			path:   "/api/auth/send-otp",
			body:   `{"email":"a@b.co"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("SendOTP", mock.Anything, mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrOTPDelivery)).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorBody(constant.ErrOTPDelivery),
		},
		{
			name:       "verify-otp: missing session",
			method:     http.MethodPost,
			path:       "/api/auth/verify-otp",
			body:       `{"email":"a@b.co","otp":"123456"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrOTPFieldsRequired),
		},
		{
			name:   "verify-otp: expired",
			method: http.MethodPost,
			path:   "/api/auth/verify-otp",
			body:   `{"email":"a@b.co","otp":"123456","sessionId":"s-1"}`,
			mockCall: func(f handlerFields) {
				f.authApp.On("VerifyOTP", mock.Anything, &model.VerifyOTPRequest{Email: "a@b.co", OTP: "123456", SessionID: "s-1"}).
					Return(nil, cerr.SetCustomError(constant.ErrSessionExpired)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrSessionExpired),
		},
		{
			name:       "logout",
			method:     http.MethodPost,
			path:       "/api/auth/logout",
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Logged out successfully"}`,
		},
		{
			name:       "me: no token",
			method:     http.MethodGet,
			path:       "/api/auth/me",
			wantStatus: http.StatusUnauthorized,
			wantBody:   errorBody(constant.ErrMissingToken),
		},
		{
			name:   "me: success",
			method: http.MethodGet,
			path:   "/api/auth/me",
			header: map[string]string{"Authorization": "Bearer tok"},
			mockCall: func(f handlerFields) {
				validToken(f)
				f.authApp.On("Me", mock.Anything, claims).
					Return(&model.UserEnvelope{User: model.UserResponse{ID: "u-1", Username: "joe", Name: "Joe"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"user":{"id":"u-1","username":"joe","name":"Joe"}}`,
		},
		{
			name:   "profile: get",
			method: http.MethodGet,
			path:   "/api/users/profile",
			header: map[string]string{"Authorization": "Bearer tok"},
			mockCall: func(f handlerFields) {
				validToken(f)
				f.userApp.On("GetProfile", mock.Anything, "u-1").
					Return(&model.UserResponse{ID: "u-1", Name: "Joe"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"user":{"id":"u-1","name":"Joe"}}`,
		},
		{
			name:   "profile: user gone",
			method: http.MethodGet,
			path:   "/api/users/profile",
			header: map[string]string{"Authorization": "Bearer tok"},
			mockCall: func(f handlerFields) {
				validToken(f)
				f.userApp.On("GetProfile", mock.Anything, "u-1").
					Return(nil, cerr.SetCustomError(constant.ErrUserNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   errorBody(constant.ErrUserNotFound),
		},
		{
			name:   "profile: update",
			method: http.MethodPut,
			path:   "/api/users/profile",
			body:   `{"name":"Joseph"}`,
			header: map[string]string{"Authorization": "Bearer tok"},
			mockCall: func(f handlerFields) {
				validToken(f)
				f.userApp.On("UpdateProfile", mock.Anything, "u-1", mock.MatchedBy(func(req *model.UpdateProfileRequest) bool {
					return req.Name != nil && *req.Name == "Joseph" && req.PhoneNumber == nil
				})).Return(&model.UpdateProfileResponse{
					Message: "Profile updated successfully",
					User:    model.UserResponse{ID: "u-1", Name: "Joseph"},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Profile updated successfully","user":{"id":"u-1","name":"Joseph"}}`,
		},
		{
			name:   "profile: update rejects blank name",
			method: http.MethodPut,
			path:   "/api/users/profile",
			body:   `{"name":"   "}`,
			header: map[string]string{"Authorization": "Bearer tok"},
			mockCall: func(f handlerFields) {
				validToken(f)
				f.userApp.On("UpdateProfile", mock.Anything, "u-1", mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrInvalidRequest)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidRequest),
		},
		{
			name:   "chat: not configured",
			method: http.MethodPost,
			path:   "/api/chat",
			body:   `{"messages":[{"role":"user","content":"hi"}]}`,
			mockCall: func(f handlerFields) {
				f.chatApp.On("Reply", mock.Anything, mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrChatNotConfigured)).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorBody(constant.ErrChatNotConfigured),
		},
		{
			name:   "chat: reply",
			method: http.MethodPost,
			path:   "/api/chat",
			body:   `{"messages":[{"role":"user","content":"hi"}]}`,
			mockCall: func(f handlerFields) {
				f.chatApp.On("Reply", mock.Anything, &model.ChatRequest{
					Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
				}).Return(&model.ChatResponse{Reply: "hello"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"reply":"hello"}`,
		},
		{
			name:       "chat: non-string content",
			method:     http.MethodPost,
			path:       "/api/chat",
			body:       `{"messages":[{"role":"user","content":42}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody(constant.ErrInvalidRequest),
		},
		{
			name:   "recommend: passthrough",
			method: http.MethodPost,
			path:   "/api/recommend",
			body:   `{"skills":["go"]}`,
			mockCall: func(f handlerFields) {
				f.recommendApp.On("Recommend", mock.Anything, []byte(`{"skills":["go"]}`)).
					Return(json.RawMessage(`{"recommendations":[]}`), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"recommendations":[]}`,
		},
		{
			name:   "recommend: upstream down",
			method: http.MethodPost,
			path:   "/api/recommend",
			body:   `{}`,
			mockCall: func(f handlerFields) {
				f.recommendApp.On("Recommend", mock.Anything, mock.Anything).
					Return(nil, cerr.SetCustomError(constant.ErrRecommendUpstream)).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorBody(constant.ErrRecommendUpstream),
		},
		{
			name:       "internal: wrong key",
			method:     http.MethodGet,
			path:       "/internal/users",
			header:     map[string]string{"Authorization": "Bearer guess"},
			wantStatus: http.StatusForbidden,
			wantBody:   errorBody(constant.ErrForbidden),
		},
		{
			name:   "internal: list users",
			method: http.MethodGet,
			path:   "/internal/users",
			header: map[string]string{"Authorization": "Bearer " + internalKey},
			mockCall: func(f handlerFields) {
				f.userApp.On("ListUsers", mock.Anything).
					Return(&model.UserListResponse{Users: []model.UserResponse{}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"users":[]}`,
		},
		{
			name:   "internal: storage failure is hidden",
			method: http.MethodGet,
			path:   "/internal/users",
			header: map[string]string{"Authorization": "Bearer " + internalKey},
			mockCall: func(f handlerFields) {
				f.userApp.On("ListUsers", mock.Anything).Return(nil, errors.New("permission denied")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorBody(constant.ErrInternal),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			f.handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRestHandler_RecommendBodyTooLarge(t *testing.T) {
	f := newHandlerFields(t)
	body := `{"pad":"` + strings.Repeat("x", maxBodySize) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, errorBody(constant.ErrInvalidRequest), rec.Body.String())
}
