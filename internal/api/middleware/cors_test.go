package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(allowAll bool, origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(allowAll, origins))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	return r
}

func TestCORS_AllowAll(t *testing.T) {
	r := corsRouter(true, nil)

	for _, origin := range []string{"", "https://anywhere.example.com"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("origin %q: expected wildcard allow-origin, got %q", origin, got)
		}
	}
}

func TestCORS_AllowListEchoesKnownOrigin(t *testing.T) {
	r := corsRouter(false, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected origin echoed, got %q", got)
	}
}

func TestCORS_UnknownOriginGetsNoAllowOrigin(t *testing.T) {
	r := corsRouter(false, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
	// Fixed allowances are always present.
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials header on every response")
	}
	if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS, PUT, DELETE, PATCH" {
		t.Error("expected fixed method list on every response")
	}
	if w.Header().Get("Access-Control-Allow-Headers") != "Authorization, Content-Type, X-Requested-With, Accept, Origin" {
		t.Error("expected fixed header list on every response")
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	r := corsRouter(true, nil)

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
}

func TestAllowedHosts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AllowedHosts([]string{"api.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "api.example.com:8080"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected allowed host to pass, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "other.example.com"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected disallowed host rejected with 400, got %d", w.Code)
	}
}

func TestAllowedHosts_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AllowedHosts([]string{"*"}))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "whatever.example.com"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected wildcard to pass any host, got %d", w.Code)
	}
}
