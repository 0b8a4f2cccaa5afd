package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

func TestGeneratedObjectKeyShape(t *testing.T) {
	now := time.UnixMilli(1724400000000)
	key := GeneratedObjectKey("biz-1", now)
	pattern := regexp.MustCompile(`^biz-1/generated/1724400000000_[0-9a-f]{8}\.png$`)
	if !pattern.MatchString(key) {
		t.Fatalf("key = %q does not match expected shape", key)
	}

	other := GeneratedObjectKey("biz-1", now)
	if key == other {
		t.Fatalf("consecutive keys should differ: %q", key)
	}
}

func TestFileStoreWriteReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	if err != nil {
		t.Fatal(err)
	}

	url, err := store.Write(context.Background(), "biz/generated/1_a.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://localhost:8080/static/biz/generated/1_a.png" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "biz", "generated", "1_a.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://localhost/static")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Write(context.Background(), "../escape.png", []byte("x"), "image/png"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := store.Write(context.Background(), "", []byte("x"), "image/png"); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestBucketStoreUploads(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewBucketStore(srv.URL, "service-key", "business-assets", nil)
	if err != nil {
		t.Fatal(err)
	}

	url, err := store.Write(context.Background(), "biz/generated/1_a.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q", gotMethod)
	}
	if gotPath != "/storage/v1/object/business-assets/biz/generated/1_a.png" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Errorf("content type = %q", gotType)
	}
	if string(gotBody) != "png-bytes" {
		t.Errorf("body = %q", gotBody)
	}
	want := srv.URL + "/storage/v1/object/public/business-assets/biz/generated/1_a.png"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestBucketStoreSurfacesUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"access denied"}`))
	}))
	defer srv.Close()

	store, err := NewBucketStore(srv.URL, "bad-key", "business-assets", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Write(context.Background(), "k.png", []byte("x"), "image/png"); err == nil {
		t.Fatalf("expected error for denied upload")
	}
}

func TestNewBucketStoreValidation(t *testing.T) {
	if _, err := NewBucketStore("", "key", "bucket", nil); err == nil {
		t.Errorf("expected error for missing endpoint")
	}
	if _, err := NewBucketStore("http://x", "", "bucket", nil); err == nil {
		t.Errorf("expected error for missing service key")
	}
	if _, err := NewBucketStore("http://x", "key", "", nil); err == nil {
		t.Errorf("expected error for missing bucket")
	}
}
