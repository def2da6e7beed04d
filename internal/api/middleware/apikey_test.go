package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/statusteacher/statusteacher/internal/api/middleware"
	pkgmw "github.com/statusteacher/statusteacher/pkg/middleware"
)

// echoCaller answers 200 with the caller recorded in the context.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pkgmw.GetCaller(r.Context())))
})

func serve(h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	auth := middleware.NewAPIKeyAuth([]string{" ", ""})
	if auth.Enabled() {
		t.Error("Expected auth to be disabled when only blank keys are configured")
	}

	w := serve(auth.Middleware(echoCaller), "/api/v1/explain?code=404", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Disabled auth: status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != pkgmw.Anonymous {
		t.Errorf("Disabled auth: caller = %q, want %q", got, pkgmw.Anonymous)
	}
}

func TestAPIKeyAuth_ValidKeys(t *testing.T) {
	auth := middleware.NewAPIKeyAuth([]string{"test-key-1", "test-key-2"})
	if !auth.Enabled() {
		t.Fatal("Expected auth to be enabled")
	}
	h := auth.Middleware(echoCaller)

	// Bearer token
	w := serve(h, "/api/v1/explain", map[string]string{"Authorization": "Bearer test-key-1"})
	if w.Code != http.StatusOK {
		t.Errorf("Valid Bearer key: status = %d, want %d", w.Code, http.StatusOK)
	}
	caller := w.Body.String()
	if !strings.HasPrefix(caller, "key:") {
		t.Errorf("Valid Bearer key: caller = %q, want key: prefix", caller)
	}
	if strings.Contains(caller, "test-key-1") {
		t.Errorf("Caller %q leaks the raw key", caller)
	}

	// X-API-Key header
	w = serve(h, "/api/v1/codes", map[string]string{"X-API-Key": "test-key-2"})
	if w.Code != http.StatusOK {
		t.Errorf("Valid X-API-Key: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAPIKeyAuth_Rejects(t *testing.T) {
	h := middleware.NewAPIKeyAuth([]string{"secret"}).Middleware(echoCaller)

	w := serve(h, "/api/v1/explain", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("No key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(w.Body.String(), "API key required") {
		t.Errorf("No key: body = %q, want it to mention API key required", w.Body.String())
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("No key: missing WWW-Authenticate header")
	}

	w = serve(h, "/api/v1/a2a/status-code-teacher", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Wrong key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(w.Body.String(), "Invalid API key") {
		t.Errorf("Wrong key: body = %q, want it to mention Invalid API key", w.Body.String())
	}
}

func TestAPIKeyAuth_PublicPaths(t *testing.T) {
	h := middleware.NewAPIKeyAuth([]string{"secret"}).Middleware(echoCaller)

	for _, path := range []string{"/api/v1/health", "/.well-known/agent.json"} {
		if w := serve(h, path, nil); w.Code != http.StatusOK {
			t.Errorf("Public path %s: status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}
