package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meal-delivery-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func TestImageKey(t *testing.T) {
	a := ImageKey("user_2abc", "my pizza.png")
	b := ImageKey("user_2abc", "my pizza.png")

	assert.True(t, strings.HasPrefix(a, "meals/user_2abc_"), a)
	assert.True(t, strings.HasSuffix(a, "_my_pizza.png"), a)
	assert.NotEqual(t, a, b, "same file name must not collide")

	assert.NotContains(t, ImageKey("v", "../../etc/passwd"), "..")
	assert.True(t, strings.HasSuffix(ImageKey("v", "///"), "_image"))
}

func TestReadImage(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(pngBytes), 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = ReadImage(strings.NewReader("just some text"), 1024)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = ReadImage(bytes.NewReader(pngBytes), 10)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.ErrorContains(t, err, "10 B")
}

func TestLocalStoreUploadAndLink(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	path, err := store.Upload(context.Background(), "meals/v1_abc_pizza.png", "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "meals/v1_abc_pizza.png", path)

	onDisk, err := os.ReadFile(filepath.Join(dir, "meals", "v1_abc_pizza.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, onDisk)

	assert.Equal(t, "http://localhost:8080/media/meals/v1_abc_pizza.png", store.PublicURL(path))
	assert.Empty(t, store.PublicURL(""))

	_, err = store.Upload(context.Background(), "meals/v1_abc_pizza.png", "image/png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrUpload, "existing keys are never overwritten")

	_, err = store.Upload(context.Background(), "../escape.png", "image/png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrUpload)
}

func TestSupabaseStoreUpload(t *testing.T) {
	var gotPath, gotAuth, gotKey, gotType, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"mealbucket/meals/v1_abc_pizza.png"}`))
	}))
	defer srv.Close()

	store := NewSupabaseStore(srv.URL+"/", "service-key", "mealbucket", srv.Client())
	path, err := store.Upload(context.Background(), "meals/v1_abc_pizza.png", "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "meals/v1_abc_pizza.png", path)
	assert.Equal(t, "/storage/v1/object/mealbucket/meals/v1_abc_pizza.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, pngBytes, gotBody)

	assert.Equal(t, srv.URL+"/storage/v1/object/public/mealbucket/meals/v1_abc_pizza.png", store.PublicURL(path))
}

func TestSupabaseStoreUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	store := NewSupabaseStore(srv.URL, "k", "mealbucket", srv.Client())
	_, err := store.Upload(context.Background(), "meals/x.png", "image/png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrUpload)
	assert.ErrorContains(t, err, "409")
	assert.ErrorContains(t, err, "already exists")
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(config.Config{StorageBackend: config.StorageLocal, LocalStorageDir: t.TempDir(), PublicBaseURL: "http://x"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	s, err = New(config.Config{StorageBackend: config.StorageSupabase, SupabaseURL: "https://p.supabase.co", SupabaseServiceKey: "k", StorageBucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStore{}, s)
}
