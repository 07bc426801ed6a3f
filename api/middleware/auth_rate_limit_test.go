package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubLimiterStore struct {
	counts  map[string]int64
	keys    []string
	failure error
}

func (s *stubLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.failure != nil {
		return 0, s.failure
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	s.keys = append(s.keys, key)
	return s.counts[key], nil
}

func loginPolicy(ipLimit, emailLimit int) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("login", time.Minute, ipLimit, emailLimit)
}

func loginRequestBody() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"Maria@Prefeitura.example","password":"hunter2-hunter2"}`))
	req.RemoteAddr = "203.0.113.9:51234"
	return req
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := &stubLimiterStore{}
	handler := AuthRateLimit(loginPolicy(2, 0), store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequestBody())
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequestBody())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: status = %d", rec.Code)
	}

	if store.keys[0] != "auth:login:ip:203.0.113.9" {
		t.Fatalf("ip key = %q", store.keys[0])
	}
}

func TestAuthRateLimitHashesEmailKey(t *testing.T) {
	store := &stubLimiterStore{}
	handler := AuthRateLimit(loginPolicy(0, 5), store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequestBody())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	sum := sha256.Sum256([]byte("maria@prefeitura.example"))
	want := "auth:login:email:" + hex.EncodeToString(sum[:])
	if len(store.keys) != 1 || store.keys[0] != want {
		t.Fatalf("email keys = %v, want %q", store.keys, want)
	}
}

func TestAuthRateLimitPreservesBodyForHandler(t *testing.T) {
	store := &stubLimiterStore{}
	var seenBody string
	handler := AuthRateLimit(loginPolicy(5, 5), store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seenBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequestBody())

	if !strings.Contains(seenBody, "Maria@Prefeitura.example") {
		t.Fatalf("handler saw body %q", seenBody)
	}
}

func TestAuthRateLimitFailsOpenOnCounterError(t *testing.T) {
	store := &stubLimiterStore{failure: errors.New("redis: connection refused")}
	handler := AuthRateLimit(loginPolicy(1, 1), store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequestBody())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, counter failures must not block logins", rec.Code)
	}
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	handler := AuthRateLimit(loginPolicy(1, 1), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequestBody())
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if got := ClientIP(req); got != "198.51.100.7" {
		t.Fatalf("client ip = %q", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Fatalf("client ip = %q", got)
	}
}
