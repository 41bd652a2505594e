package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/internmatch/application/ratelimit"
	"github.com/muhammadheryan/internmatch/constant"
	authmocks "github.com/muhammadheryan/internmatch/mocks/application/auth"
	"github.com/muhammadheryan/internmatch/model"
	utilsContext "github.com/muhammadheryan/internmatch/utils/context"
	cerr "github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(mw mux.MiddlewareFunc, next http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "valid", header: "Bearer abc", want: "abc", wantOK: true},
		{name: "scheme is case-insensitive", header: "bearer abc", want: "abc", wantOK: true},
		{name: "extra spaces", header: "  Bearer   abc ", want: "abc", wantOK: true},
		{name: "missing header"},
		{name: "no token", header: "Bearer"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "too many parts", header: "Bearer a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.1 ", "", "2001:db8::1"})
	require.NoError(t, err)
	require.Len(t, proxies, 3)
	assert.True(t, proxies.contains("10.1.2.3"))
	assert.True(t, proxies.contains("192.0.2.1"))
	assert.False(t, proxies.contains("192.0.2.2"))
	assert.True(t, proxies.contains("2001:db8::1"))
	assert.False(t, proxies.contains("not-an-ip"))

	_, err = ParseTrustedProxies([]string{"proxy.internal"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/40"})
	assert.Error(t, err)
}

func TestTrustedProxies_ClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		trusted    TrustedProxies
		remoteAddr string
		xff        []string
		want       string
	}{
		{name: "no proxy", remoteAddr: "203.0.113.9:5123", want: "203.0.113.9"},
		{name: "forwarded header from an untrusted peer is ignored", remoteAddr: "203.0.113.9:5123", xff: []string{"198.51.100.4"}, want: "203.0.113.9"},
		{name: "nothing trusted by default", remoteAddr: "10.0.0.7:5123", xff: []string{"198.51.100.4"}, want: "10.0.0.7"},
		{name: "trusted peer reports the client", trusted: trusted, remoteAddr: "10.0.0.7:5123", xff: []string{" 198.51.100.4 "}, want: "198.51.100.4"},
		{name: "client-supplied hops left of the proxy are skipped", trusted: trusted, remoteAddr: "10.0.0.7:5123", xff: []string{"1.1.1.1, 198.51.100.4, 10.0.0.2"}, want: "198.51.100.4"},
		{name: "repeated headers form one chain", trusted: trusted, remoteAddr: "10.0.0.7:5123", xff: []string{"1.1.1.1", "198.51.100.4"}, want: "198.51.100.4"},
		{name: "all hops trusted", trusted: trusted, remoteAddr: "10.0.0.7:5123", xff: []string{"10.0.0.3, 10.0.0.2"}, want: "10.0.0.3"},
		{name: "trusted peer without header", trusted: trusted, remoteAddr: "10.0.0.7:5123", want: "10.0.0.7"},
		{name: "unparseable remote addr", remoteAddr: "unix-socket", want: "unix-socket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, tt.trusted.ClientIP(req))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	claims := &model.TokenClaims{UserID: "u-1", Email: "a@b.co"}

	type fields struct {
		authApp *authmocks.AuthApp
	}
	tests := []struct {
		name       string
		header     string
		mockCall   func(f fields)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantBody:   constant.ErrorTypeMessage[constant.ErrMissingToken],
		},
		{
			name:   "invalid token",
			header: "Bearer nope",
			mockCall: func(f fields) {
				f.authApp.On("ValidateToken", mock.Anything, "nope").
					Return(nil, cerr.SetCustomError(constant.ErrInvalidToken)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   constant.ErrorTypeMessage[constant.ErrInvalidToken],
		},
		{
			name:   "valid token",
			header: "Bearer good",
			mockCall: func(f fields) {
				f.authApp.On("ValidateToken", mock.Anything, "good").Return(claims, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields{authApp: authmocks.NewAuthApp(t)}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = utilsContext.GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(AuthMiddleware(f.authApp), next, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantBody+`"}`, rec.Body.String())
				assert.Empty(t, seen)
				return
			}
			assert.Equal(t, "u-1", seen)
		})
	}
}

func TestInternalMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		header     string
		wantStatus int
	}{
		{name: "matching key", apiKey: "k3y", header: "Bearer k3y", wantStatus: http.StatusOK},
		{name: "wrong key", apiKey: "k3y", header: "Bearer other", wantStatus: http.StatusForbidden},
		{name: "missing header", apiKey: "k3y", wantStatus: http.StatusForbidden},
		{name: "unconfigured key locks the route", apiKey: "", header: "Bearer ", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/internal/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(InternalMiddleware(tt.apiKey), okHandler, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		wantStatus int
	}{
		{name: "allowed", limiter: &stubLimiter{allowed: true}, wantStatus: http.StatusOK},
		{name: "over the limit", limiter: &stubLimiter{allowed: false}, wantStatus: http.StatusTooManyRequests},
		{name: "limiter failure lets the request through", limiter: &stubLimiter{err: errors.New("redis down")}, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "198.51.100.4:40000"
			rec := serve(RateLimitMiddleware(tt.limiter, nil), okHandler, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, []string{"198.51.100.4"}, tt.limiter.keys)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.JSONEq(t,
					`{"error":"Too many authentication attempts, please try again later."}`,
					rec.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware_SpoofedForwardedForKeepsCount(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Window: 15 * time.Minute, Max: 3})
	mw := RateLimitMiddleware(limiter, nil)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		assert.Equal(t, http.StatusOK, serve(mw, okHandler, req).Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.9:40001"
	req.Header.Set("X-Forwarded-For", "198.51.100.99")
	assert.Equal(t, http.StatusTooManyRequests, serve(mw, okHandler, req).Code)
}

func TestRateLimitMiddleware_TrustedProxyKeysByClient(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)
	limiter := &stubLimiter{allowed: true}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	rec := serve(RateLimitMiddleware(limiter, trusted), okHandler, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"198.51.100.4"}, limiter.keys)
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var captured *responseWriter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short"))
	})

	rec := serve(LoggingMiddleware(nil), next, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusTeapot, captured.statusCode)
	assert.Equal(t, 5, captured.bytes)
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"error internal"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
