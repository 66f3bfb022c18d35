package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mycelian/mycelian-identities/devmode"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	if _, err := New("", StaticToken("t")); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
	if _, err := New("not a url", StaticToken("t")); err == nil {
		t.Fatal("expected error for invalid baseURL")
	}
	c, err := New("http://localhost:8000/", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://localhost:8000" {
		t.Fatalf("trailing slash not trimmed: %s", c.BaseURL())
	}
}

func TestNew_BaseURLWithAPIPrefix(t *testing.T) {
	t.Parallel()
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api/", StaticToken("t"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()
	if c.BaseURL() != srv.URL {
		t.Fatalf("api prefix not trimmed: %s", c.BaseURL())
	}
	if _, err := c.ListCareers(context.Background(), "i1"); err != nil {
		t.Fatalf("ListCareers: %v", err)
	}
	if path != "/api/identities/i1/careers" {
		t.Fatalf("request path = %s", path)
	}
}

func TestBearerHeader_ReadPerRequest(t *testing.T) {
	t.Parallel()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var n int32
	tokens := TokenFunc(func(context.Context) (string, error) {
		if atomic.AddInt32(&n, 1) == 1 {
			return "first", nil
		}
		return "second", nil
	})
	c, err := New(srv.URL, tokens)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	for i := 0; i < 2; i++ {
		if _, err := c.ListCareers(context.Background(), "i1"); err != nil {
			t.Fatalf("ListCareers: %v", err)
		}
	}
	if len(seen) != 2 || seen[0] != "Bearer first" || seen[1] != "Bearer second" {
		t.Fatalf("unexpected headers: %v", seen)
	}
}

func TestBearerHeader_OmittedWhenTokenEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Fatalf("Authorization header must be absent, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	c, err := New(srv.URL, StaticToken(""))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListKnowledge(context.Background(), "i1"); err != nil {
		t.Fatal(err)
	}
}

func TestTokenSourceError_SurfacesAsAPIError(t *testing.T) {
	t.Parallel()
	c, err := New("http://127.0.0.1:1", TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("keychain locked")
	}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GetIdentity(context.Background(), "i1")
	ae, ok := AsAPIError(err)
	if !ok || ae.StatusCode != 0 {
		t.Fatalf("expected transport-class APIError, got %v", err)
	}
}

func TestNewWithDevMode_SendsDevToken(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+devmode.Token {
			t.Fatalf("dev token not sent: %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	c, err := NewWithDevMode(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListProjectCharacters(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
}

func TestErrNotFound_MatchesAPIError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Identity not found"}`))
	}))
	defer srv.Close()
	c, _ := New(srv.URL, StaticToken("t"))
	_, err := c.DeleteIdentity(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if Message(err) != "Identity not found" {
		t.Fatalf("unexpected message %q", Message(err))
	}
}

func TestMessage_Fallbacks(t *testing.T) {
	t.Parallel()
	if Message(nil) != "" {
		t.Fatal("nil error should have empty message")
	}
	if Message(errors.New("plain")) != "plain" {
		t.Fatal("plain error text expected")
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	c, _ := New("http://example.com", nil)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFileTokenSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "token")

	src := FileTokenSource{Path: path}
	if tok, err := src.Token(context.Background()); err != nil || tok != "" {
		t.Fatalf("missing file should yield empty token, got %q %v", tok, err)
	}
	if err := os.WriteFile(path, []byte("  abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if tok, _ := src.Token(context.Background()); tok != "abc123" {
		t.Fatalf("unexpected token %q", tok)
	}
	if err := os.WriteFile(path, []byte("rotated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if tok, _ := src.Token(context.Background()); tok != "rotated" {
		t.Fatalf("token not re-read: %q", tok)
	}
	if tok, _ := (FileTokenSource{}).Token(context.Background()); tok != "" {
		t.Fatal("empty path should yield empty token")
	}
}

func TestPtr(t *testing.T) {
	t.Parallel()
	p := Ptr(StatusBurned)
	if p == nil || *p != StatusBurned {
		t.Fatal("Ptr broken")
	}
}
