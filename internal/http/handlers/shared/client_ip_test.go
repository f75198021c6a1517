package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.RemoteAddr = "192.0.2.10:4321"
	c.Request = req
	return c
}

func TestExtractClientIPPrefersForwardedFor(t *testing.T) {
	c := newTestContext(t)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	c.Request.Header.Set("X-Real-IP", "198.51.100.9")

	if got := ExtractClientIP(c); got != "203.0.113.5" {
		t.Fatalf("expected first forwarded entry, got %q", got)
	}
}

func TestExtractClientIPFallsBackToRealIP(t *testing.T) {
	c := newTestContext(t)
	c.Request.Header.Set("X-Real-IP", "198.51.100.9")

	if got := ExtractClientIP(c); got != "198.51.100.9" {
		t.Fatalf("expected X-Real-IP, got %q", got)
	}
}

func TestExtractClientIPFallsBackToRemoteAddr(t *testing.T) {
	c := newTestContext(t)

	if got := ExtractClientIP(c); got != "192.0.2.10" {
		t.Fatalf("expected remote address, got %q", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	page, size := NormalizePagination(0, 0)
	if page != 1 || size != 50 {
		t.Fatalf("expected defaults 1/50, got %d/%d", page, size)
	}

	page, size = NormalizePagination(3, 500)
	if page != 3 || size != 100 {
		t.Fatalf("expected cap at 100, got %d/%d", page, size)
	}

	page, size = NormalizePagination(2, 25)
	if page != 2 || size != 25 {
		t.Fatalf("expected passthrough, got %d/%d", page, size)
	}
}
