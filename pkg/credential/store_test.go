package credential

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unquoted", input: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "wrapped once", input: `"abc"`, want: "abc"},
		{name: "wrapped twice strips one layer", input: `""abc""`, want: `"abc"`},
		{name: "leading only", input: `"abc`, want: `"abc`},
		{name: "trailing only", input: `abc"`, want: `abc"`},
		{name: "single quote char", input: `"`, want: `"`},
		{name: "just quotes", input: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unquote(tt.input); got != tt.want {
				t.Errorf("Unquote(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "auth.json"))

	if _, ok := store.Get(); ok {
		t.Fatalf("expected no token before Set")
	}

	if err := store.Set(`"tok-123"`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, ok := store.Get()
	if !ok || token != "tok-123" {
		t.Errorf("Get() = %q, %v; want tok-123, true", token, ok)
	}

	// A second store on the same path sees the token, as a restarted process would.
	reloaded := NewFileStore(store.Path())
	if token, ok := reloaded.Get(); !ok || token != "tok-123" {
		t.Errorf("reloaded Get() = %q, %v", token, ok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Errorf("expected no token after Clear")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file should succeed, got %v", err)
	}
}

func TestFileStore_MalformedContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "definitely not json"},
		{name: "wrong shape", content: `["tok"]`},
		{name: "token not a string", content: `{"token": 42}`},
		{name: "empty token", content: `{"token": ""}`},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "auth.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			token, ok := NewFileStore(path).Get()
			if ok || token != "" {
				t.Errorf("Get() = %q, %v; want absent", token, ok)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Get(); ok {
		t.Fatalf("new store should be empty")
	}

	_ = store.Set(`"quoted"`)
	if token, ok := store.Get(); !ok || token != "quoted" {
		t.Errorf("Get() = %q, %v", token, ok)
	}

	_ = store.Clear()
	if _, ok := store.Get(); ok {
		t.Errorf("expected empty store after Clear")
	}
}

func signedToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   "guest",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	exp := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	claims, err := Inspect(signedToken(t, "64b7f0c2a1b2c3d4e5f60718", exp))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if claims.UserID != "64b7f0c2a1b2c3d4e5f60718" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, exp)
	}

	if _, err := Inspect("opaque-session-token"); err != ErrOpaqueToken {
		t.Errorf("Inspect(opaque) error = %v, want ErrOpaqueToken", err)
	}
}

func TestWithExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("valid jwt passes", func(t *testing.T) {
		inner := NewMemoryStore()
		token := signedToken(t, "u1", now.Add(time.Hour))
		_ = inner.Set(token)

		got, ok := WithExpiry(inner, clock).Get()
		if !ok || got != token {
			t.Errorf("Get() = %q, %v", got, ok)
		}
	})

	t.Run("expired jwt is cleared", func(t *testing.T) {
		inner := NewMemoryStore()
		_ = inner.Set(signedToken(t, "u1", now.Add(-time.Minute)))

		if _, ok := WithExpiry(inner, clock).Get(); ok {
			t.Errorf("expired token should read as absent")
		}
		if _, ok := inner.Get(); ok {
			t.Errorf("expired token should be cleared from the underlying store")
		}
	})

	t.Run("opaque token passes", func(t *testing.T) {
		inner := NewMemoryStore()
		_ = inner.Set("opaque")

		if got, ok := WithExpiry(inner, clock).Get(); !ok || got != "opaque" {
			t.Errorf("Get() = %q, %v", got, ok)
		}
	})
}
