package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lingtalfi/CSRFTools/internal/storage"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

func TestNewID(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID failed: %v", err)
		}
		if !strings.HasPrefix(id, IDPrefix) {
			t.Errorf("id %q missing prefix %q", id, IDPrefix)
		}
		if len(id) != 31 {
			t.Errorf("id length = %d, want 31", len(id))
		}
		if id != strings.ToLower(id) {
			t.Errorf("id %q is not lowercase", id)
		}
		if !IsValidID(id) {
			t.Errorf("generated id %q fails IsValidID", id)
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]bool, 1000)
		for i := 0; i < 1000; i++ {
			id, err := NewID()
			if err != nil {
				t.Fatalf("NewID failed: %v", err)
			}
			if seen[id] {
				t.Fatal("duplicate session id")
			}
			seen[id] = true
		}
	})
}

func TestIsValidID(t *testing.T) {
	valid, _ := NewID()

	cases := []struct {
		name string
		id   string
		want bool
	}{
		{"generated id", valid, true},
		{"empty", "", false},
		{"wrong prefix", "xxxx-01hq2w3e4r5t6y7u8i9o0p1q2s", false},
		{"too short", "sess-01hq2w3e", false},
		{"bad ulid characters", "sess-!!!!!!!!!!!!!!!!!!!!!!!!!!", false},
		{"excluded base32 letter", "sess-01hu2w3e4r5t6y7a8b9c0d1e2f", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidID(tc.id); got != tc.want {
				t.Errorf("IsValidID(%q) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}
}

func TestManager_Attach(t *testing.T) {
	backend := storage.NewMemory()
	defer backend.Close()
	m := NewManager(backend, Config{TTL: time.Hour}, nil)

	t.Run("issues cookie when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		id, err := m.Attach(w, r)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		if !IsValidID(id) {
			t.Errorf("attached id %q is invalid", id)
		}

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("got %d cookies, want 1", len(cookies))
		}
		c := cookies[0]
		if c.Name != DefaultCookieName || c.Value != id {
			t.Errorf("cookie = %s=%s, want %s=%s", c.Name, c.Value, DefaultCookieName, id)
		}
		if !c.HttpOnly {
			t.Error("session cookie is not HttpOnly")
		}
		if c.MaxAge != 3600 {
			t.Errorf("cookie MaxAge = %d, want 3600", c.MaxAge)
		}
	})

	t.Run("reuses valid cookie", func(t *testing.T) {
		existing, _ := NewID()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: existing})

		id, err := m.Attach(w, r)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		if id != existing {
			t.Errorf("id = %q, want existing %q", id, existing)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Error("Attach re-issued a cookie for a valid session")
		}
	})

	t.Run("replaces malformed cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "garbage"})

		id, err := m.Attach(w, r)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		if id == "garbage" || !IsValidID(id) {
			t.Errorf("malformed cookie not replaced, id = %q", id)
		}
	})
}

func TestManager_StoreBinding(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	defer backend.Close()
	m := NewManager(backend, Config{}, nil)

	id, _ := NewID()
	store := m.Store(id)

	if err := store.EnsureActive(ctx); err != nil {
		t.Fatalf("EnsureActive failed: %v", err)
	}

	entries := map[string]csrf.Entry{"form": {New: "v"}}
	if err := store.Set(ctx, "ns", entries); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "ns")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v)", ok, err)
	}
	if got["form"].New != "v" {
		t.Errorf("entry = %+v", got["form"])
	}

	// Another session id must not see the data.
	otherID, _ := NewID()
	if _, ok, _ := m.Store(otherID).Get(ctx, "ns"); ok {
		t.Error("entries visible from another session")
	}
}

func TestManager_ContextStore(t *testing.T) {
	backend := storage.NewMemory()
	defer backend.Close()
	m := NewManager(backend, Config{}, nil)

	var _ csrf.SessionStore = m

	t.Run("requires a context-bound id", func(t *testing.T) {
		ctx := context.Background()
		if err := m.EnsureActive(ctx); err != ErrNoSession {
			t.Errorf("EnsureActive = %v, want ErrNoSession", err)
		}
		if _, _, err := m.Get(ctx, "ns"); err != ErrNoSession {
			t.Errorf("Get = %v, want ErrNoSession", err)
		}
		if err := m.Set(ctx, "ns", nil); err != ErrNoSession {
			t.Errorf("Set = %v, want ErrNoSession", err)
		}
	})

	t.Run("scopes operations to the bound session", func(t *testing.T) {
		id, _ := NewID()
		ctx := WithID(context.Background(), id)

		if err := m.EnsureActive(ctx); err != nil {
			t.Fatalf("EnsureActive failed: %v", err)
		}
		if err := m.Set(ctx, "ns", map[string]csrf.Entry{"form": {New: "v"}}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, ok, err := m.Get(ctx, "ns")
		if err != nil || !ok {
			t.Fatalf("Get = (%v, %v)", ok, err)
		}
		if got["form"].New != "v" {
			t.Errorf("entry = %+v", got["form"])
		}

		otherID, _ := NewID()
		otherCtx := WithID(context.Background(), otherID)
		if _, ok, _ := m.Get(otherCtx, "ns"); ok {
			t.Error("entries visible from another context-bound session")
		}
	})
}

func TestManager_Destroy(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	defer backend.Close()
	m := NewManager(backend, Config{TTL: time.Hour}, nil)

	id, _ := NewID()
	store := m.Store(id)
	store.Set(ctx, "ns", map[string]csrf.Entry{"form": {New: "v"}})

	w := httptest.NewRecorder()
	if err := m.Destroy(ctx, w, id); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "ns"); ok {
		t.Error("session data survived Destroy")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("Destroy did not expire the session cookie")
	}
}
