package facebook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telegram-uid-keeper/internal/config"
	"telegram-uid-keeper/internal/domain"
)

func newTestClient(t *testing.T, token string, handler http.Handler) *GraphClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewGraphClient(&config.FacebookConfig{
		AccessToken: token,
		GraphURL:    srv.URL,
		Timeout:     2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}
	return c
}

func TestGraphClient_ResolveID(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric input needs no network", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected HTTP call")
		}))
		uid, err := c.ResolveID(ctx, "https://facebook.com/profile.php?id=1234567")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if uid != "1234567" {
			t.Errorf("expected 1234567, got %q", uid)
		}
	})

	t.Run("vanity without token fails", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected HTTP call")
		}))
		_, err := c.ResolveID(ctx, "https://facebook.com/zuck")
		if !errors.Is(err, domain.ErrLookupFailed) {
			t.Errorf("expected ErrLookupFailed, got %v", err)
		}
	})

	t.Run("vanity with token resolves via graph", func(t *testing.T) {
		c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("access_token"); got != "tok" {
				t.Errorf("expected access_token to be sent, got %q", got)
			}
			fmt.Fprint(w, `{"id":"4"}`)
		}))
		uid, err := c.ResolveID(ctx, "https://facebook.com/zuck")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if uid != "4" {
			t.Errorf("expected 4, got %q", uid)
		}
	})

	t.Run("graph error maps to ErrLookupFailed", func(t *testing.T) {
		c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		}))
		_, err := c.ResolveID(ctx, "https://facebook.com/zuck")
		if !errors.Is(err, domain.ErrLookupFailed) {
			t.Errorf("expected ErrLookupFailed, got %v", err)
		}
	})
}

func TestGraphClient_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches id, name and picture", func(t *testing.T) {
		c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"99","name":"Some One","picture":{"data":{"url":"https://cdn.example/pic.jpg"}}}`)
		}))
		p, err := c.Profile(ctx, "99")
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if p.Name != "Some One" || p.PictureURL != "https://cdn.example/pic.jpg" {
			t.Errorf("unexpected profile %+v", p)
		}
	})

	t.Run("no token fails fast", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected HTTP call")
		}))
		_, err := c.Profile(ctx, "99")
		if !errors.Is(err, domain.ErrLookupFailed) {
			t.Errorf("expected ErrLookupFailed, got %v", err)
		}
	})
}

func TestGraphClient_PictureURL(t *testing.T) {
	c, err := NewGraphClient(&config.FacebookConfig{GraphURL: "https://graph.facebook.com/v17.0", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}
	want := "https://graph.facebook.com/v17.0/123/picture?type=large"
	if got := c.PictureURL("123"); got != want {
		t.Errorf("PictureURL = %q, want %q", got, want)
	}
}
