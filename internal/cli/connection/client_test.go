package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lingtalfi/CSRFTools/internal/session"
)

func newCookieServer(t *testing.T, sessionID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(session.DefaultCookieName); err != nil {
			http.SetCookie(w, &http.Cookie{Name: session.DefaultCookieName, Value: sessionID})
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"OK","data":{"status":"healthy"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSessionID(t *testing.T) string {
	t.Helper()
	id, err := session.NewID()
	if err != nil {
		t.Fatalf("new session id: %v", err)
	}
	return id
}

func TestClient_SchemePrefix(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"localhost:5317", "http://localhost:5317"},
		{"http://localhost:5317", "http://localhost:5317"},
		{"https://csrf.example.com", "https://csrf.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			c := NewClient(tt.server, "")
			if c.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), tt.want)
			}
		})
	}
}

func TestClient_CapturesSessionCookie(t *testing.T) {
	id := testSessionID(t)
	srv := newCookieServer(t, id)

	c := NewClient(srv.URL, "")
	resp, err := c.Get(context.Background(), "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if c.SessionID() != id {
		t.Errorf("SessionID() = %q, want %q", c.SessionID(), id)
	}
}

func TestClient_PersistsSessionAcrossClients(t *testing.T) {
	id := testSessionID(t)
	srv := newCookieServer(t, id)
	cookieFile := filepath.Join(t.TempDir(), "session")

	first := NewClient(srv.URL, cookieFile)
	resp, err := first.Get(context.Background(), "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	second := NewClient(srv.URL, cookieFile)
	if second.SessionID() != id {
		t.Errorf("second client SessionID() = %q, want %q", second.SessionID(), id)
	}
}

func TestClient_IgnoresCorruptCookieFile(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(cookieFile, []byte("not a session id"), 0600); err != nil {
		t.Fatalf("seed cookie file: %v", err)
	}

	c := NewClient("localhost:5317", cookieFile)
	if c.SessionID() != "" {
		t.Errorf("SessionID() = %q, want empty", c.SessionID())
	}
}

func TestClient_DropsDestroyedSession(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "session")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expired := &http.Cookie{Name: session.DefaultCookieName, Value: "", MaxAge: -1}
		http.SetCookie(w, expired)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	id := testSessionID(t)
	if err := os.WriteFile(cookieFile, []byte(id), 0600); err != nil {
		t.Fatalf("seed cookie file: %v", err)
	}

	c := NewClient(srv.URL, cookieFile)
	resp, err := c.Delete(context.Background(), "/session")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()

	if c.SessionID() != "" {
		t.Errorf("SessionID() = %q, want empty", c.SessionID())
	}
	if _, err := os.Stat(cookieFile); !os.IsNotExist(err) {
		t.Error("cookie file still present after session destruction")
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes data", func(t *testing.T) {
		srv := newCookieServer(t, testSessionID(t))
		c := NewClient(srv.URL, "")

		resp, err := c.Get(context.Background(), "/healthz")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		var data struct {
			Status string `json:"status"`
		}
		if err := ParseResponse(resp, &data); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if data.Status != "healthy" {
			t.Errorf("status = %q, want healthy", data.Status)
		}
	})

	t.Run("surfaces server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"CSRF-4001","message":"slot must be \"old\" or \"new\""}`))
		}))
		t.Cleanup(srv.Close)

		c := NewClient(srv.URL, "")
		resp, err := c.Get(context.Background(), "/whatever")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		err = ParseResponse(resp, nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "CSRF-4001") {
			t.Errorf("error %q does not carry the server code", err)
		}
	})
}
