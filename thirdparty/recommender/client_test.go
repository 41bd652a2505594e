package recommender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Recommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommend/", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"skills":["go"],"sector":"IT"}`, string(body))
		_, _ = w.Write([]byte(`[{"title":"Backend Intern"}]`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, time.Second).Recommend(context.Background(), []byte(`{"skills":["go"],"sector":"IT"}`))
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Backend Intern"}]`, string(out))
}

func TestHTTPClient_RecommendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"model not loaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Recommend(context.Background(), []byte(`{}`))
	assert.ErrorContains(t, err, "status 503")

	srv.Close()
	_, err = NewClient(srv.URL, time.Second).Recommend(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}
