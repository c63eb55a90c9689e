package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/time/rate"
)

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenRejects(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0), 3)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := doRequest(h, "10.0.0.1:54321")
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
	}

	w := doRequest(h, "10.0.0.1:54321")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0), 1)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:2222").Code)

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1111").Code)
}
