package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/models"
)

func newForwardTestService(handler http.HandlerFunc) (*ForwardService, *httptest.Server) {
	server := httptest.NewServer(handler)
	svc := NewForwardService(config.ForwardConfig{
		APIURL:         server.URL,
		TimeoutSeconds: 2,
	})
	return svc, server
}

func TestForwardSuccessReturnsUpstreamBody(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var payload models.JSON
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["name"] != "Jane" {
			t.Errorf("unexpected payload %v", payload)
		}
		w.Write([]byte(`{"json":{"name":"Jane"},"url":"/post"}`))
	})
	defer server.Close()

	result := svc.Forward(context.Background(), models.JSON{"name": "Jane"})
	if result["url"] != "/post" {
		t.Fatalf("expected upstream body passthrough, got %v", result)
	}
	if _, hasErr := result["error"]; hasErr {
		t.Fatalf("unexpected error in result %v", result)
	}
}

func TestForwardNon200ReturnsStatusCode(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	result := svc.Forward(context.Background(), models.JSON{"name": "Jane"})
	if result["status_code"] != http.StatusBadGateway {
		t.Fatalf("expected status_code 502, got %v", result)
	}
	if result["error"] == nil {
		t.Fatalf("expected error message, got %v", result)
	}
}

func TestForwardConnectionFailure(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	result := svc.Forward(context.Background(), models.JSON{"name": "Jane"})
	if result["connection_error"] != true {
		t.Fatalf("expected connection_error flag, got %v", result)
	}
}

func TestForwardInvalidResponseBody(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	defer server.Close()

	result := svc.Forward(context.Background(), models.JSON{"name": "Jane"})
	if result["request_error"] != true {
		t.Fatalf("expected request_error flag, got %v", result)
	}
}

func TestRelaySuccess(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	defer server.Close()

	result, err := svc.Relay(context.Background(), models.JSON{"key": "value"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result["ok"] != true {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestRelayWrapsFailures(t *testing.T) {
	svc, server := newForwardTestService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	if _, err := svc.Relay(context.Background(), models.JSON{}); !errors.Is(err, ErrForwardUnavailable) {
		t.Fatalf("expected ErrForwardUnavailable, got %v", err)
	}

	server.Close()
	if _, err := svc.Relay(context.Background(), models.JSON{}); !errors.Is(err, ErrForwardUnavailable) {
		t.Fatalf("expected ErrForwardUnavailable on connection failure, got %v", err)
	}
}
