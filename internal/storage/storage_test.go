package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"server/internal/domain"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "http://localhost:8080/static/")

	url, err := store.Put(context.Background(), Object{
		Key:         "previews/c1/diwali.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if url != "http://localhost:8080/static/previews/c1/diwali.png" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "previews", "c1", "diwali.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("stored %d bytes, want 4", len(data))
	}
}

func TestAcceptanceContract(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost/static")

	cases := []struct {
		name string
		obj  Object
	}{
		{"disallowed content type", Object{Key: "a", ContentType: "application/pdf", Data: []byte("x")}},
		{"empty file", Object{Key: "a", ContentType: "image/png"}},
		{"oversized file", Object{Key: "a", ContentType: "image/png", Data: make([]byte, MaxPreviewBytes+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Put(context.Background(), tc.obj)
			var rejected *domain.StorageRejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("Put error = %v, want StorageRejectedError", err)
			}
		})
	}
}

func TestAcceptanceAllowsCharsetSuffix(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost/static")
	_, err := store.Put(context.Background(), Object{
		Key:         "a.jpg",
		ContentType: "image/jpeg; charset=binary",
		Data:        []byte("jpeg"),
	})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
}

func TestSupabaseStorePut(t *testing.T) {
	var gotPath, gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewSupabaseStore(srv.URL, "service-key", "previews")
	url, err := store.Put(context.Background(), Object{
		Key:         "c1/diwali.png",
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if gotPath != "/storage/v1/object/previews/c1/diwali.png" {
		t.Fatalf("unexpected upload path %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Fatalf("unexpected authorization %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Fatalf("unexpected content type %q", gotType)
	}
	if url != srv.URL+"/storage/v1/object/public/previews/c1/diwali.png" {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestSupabaseStoreRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"message":"payload too large"}`))
	}))
	defer srv.Close()

	store := NewSupabaseStore(srv.URL, "service-key", "previews")
	_, err := store.Put(context.Background(), Object{Key: "a.png", ContentType: "image/png", Data: []byte("png")})
	var rejected *domain.StorageRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Put error = %v, want StorageRejectedError", err)
	}
}
