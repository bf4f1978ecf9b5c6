package idsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestAcquireReturnsServiceID(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Path, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"2bT0x7c0kQ6Wn1"}`))
	})

	got := NewHTTPSource(url, time.Second, nil).Acquire(context.Background())
	assert.Equal(t, "2bT0x7c0kQ6Wn1", got)
}

func TestAcquireAcceptsLegacyField(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ksuid":"legacy-id"}`))
	})

	got := NewHTTPSource(url+"/", time.Second, nil).Acquire(context.Background())
	assert.Equal(t, "legacy-id", got)
}

func TestAcquireFallsBackOnFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to generate ID"}`))
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
		"empty id": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":""}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			src := NewHTTPSource(serve(t, h), time.Second, zap.New(core))

			got := src.Acquire(context.Background())
			_, err := uuid.Parse(got)
			require.NoError(t, err, "expected uuid fallback, got %q", got)
			assert.Equal(t, 1, logs.FilterMessage("identifier service unavailable, using local id").Len())
		})
	}
}

func TestAcquireFallsBackOnTimeout(t *testing.T) {
	release := make(chan struct{})
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	start := time.Now()
	got := NewHTTPSource(url, 50*time.Millisecond, nil).Acquire(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestAcquireOfflineSkipsNetwork(t *testing.T) {
	src := NewHTTPSource("", time.Second, nil)
	src.fallback = func() string { return "local" }
	assert.Equal(t, "local", src.Acquire(context.Background()))
}

func TestAcquireUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := NewHTTPSource(url, time.Second, nil).Acquire(context.Background())
	assert.NotEmpty(t, got)
}

func TestFuncAdapter(t *testing.T) {
	var src Source = Func(func(context.Context) string { return "fixed" })
	assert.Equal(t, "fixed", src.Acquire(context.Background()))
}
