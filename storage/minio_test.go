package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"JerseyFM/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves a single bucket holding objects, path-style.
func fakeS3(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Format(http.TimeFormat)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == bucket || path == bucket+"/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		key := strings.TrimPrefix(path, bucket+"/")
		body, ok := objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Last-Modified", modified)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			io.WriteString(w, body)
		}
	}))
}

func minioConfig(endpoint string) *config.Config {
	return &config.Config{
		StagingBackend: "minio",
		MinioEndpoint:  strings.TrimPrefix(endpoint, "http://"),
		MinioAccessKey: "access",
		MinioSecretKey: "secret",
		MinioBucket:    "jerseyfm-staging",
		MinioRegion:    "us-east-1",
	}
}

func TestMinioSourceStatAndOpen(t *testing.T) {
	srv := fakeS3(t, "jerseyfm-staging", map[string]string{"cover-1.png": "png-bytes"})
	defer srv.Close()

	src, err := NewSource(context.Background(), minioConfig(srv.URL))
	require.NoError(t, err)
	require.IsType(t, &MinioSource{}, src)

	size, err := src.Stat(context.Background(), "/cover-1.png")
	require.NoError(t, err)
	assert.Equal(t, int64(len("png-bytes")), size)

	rc, err := src.Open(context.Background(), "cover-1.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestMinioSourceMissingObject(t *testing.T) {
	srv := fakeS3(t, "jerseyfm-staging", nil)
	defer srv.Close()

	src, err := NewMinioSource(context.Background(), minioConfig(srv.URL))
	require.NoError(t, err)

	_, err = src.Stat(context.Background(), "nope.wav")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "covers/a.png", objectKey("/covers/a.png"))
	assert.Equal(t, "a.png", objectKey("a.png"))
}
