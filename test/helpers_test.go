//go:build integration
// +build integration

package test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	goThrottle "github.com/KarimL92/goThrottle"
	"github.com/KarimL92/goThrottle/jwt"
	"github.com/KarimL92/goThrottle/middleware"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const integrationSecret = "integration-test-secret"

type harness struct {
	engine *goThrottle.Engine
	mr     *miniredis.Miniredis
	server *httptest.Server
}

func newHarness(t *testing.T, mutate func(*goThrottle.Config)) *harness {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := goThrottle.DefaultConfig()
	cfg.JWT.Secret = []byte(integrationSecret)
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := goThrottle.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}

	guarded := middleware.RateLimit(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	}))

	server := httptest.NewServer(guarded)
	t.Cleanup(func() {
		server.Close()
		_ = rdb.Close()
		mr.Close()
	})

	return &harness{engine: engine, mr: mr, server: server}
}

func (h *harness) get(t *testing.T, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, h.server.URL+"/ping", nil)
	if err != nil {
		t.Fatalf("request build failed: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func mintIntegrationToken(t *testing.T, userID string, limit int) string {
	t.Helper()

	manager, err := jwt.NewManager(jwt.Config{Secret: []byte(integrationSecret)})
	if err != nil {
		t.Fatalf("jwt manager failed: %v", err)
	}

	token, _, err := manager.Issue(userID, limit, "USER", 1)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	return token
}
