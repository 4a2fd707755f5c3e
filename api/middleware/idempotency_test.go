package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdeskhq/orderdesk-backend/pkg/config"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func idempotencyTestRouter(store *fakeIdempotencyStore, handled *atomic.Int64) http.Handler {
	r := chi.NewRouter()
	r.Use(Idempotency(store, config.IdempotencyConfig{TTL: time.Hour}, nil))
	r.Post("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		handled.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"id":"abc"}}`)
	})
	r.Get("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		handled.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestIdempotencyRequiresKeyHeader(t *testing.T) {
	var handled atomic.Int64
	router := idempotencyTestRouter(newFakeIdempotencyStore(), &handled)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, handled.Load())
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var handled atomic.Int64
	store := newFakeIdempotencyStore()
	router := idempotencyTestRouter(store, &handled)

	body := `{"items":[{"product_id":1,"quantity":2}]}`

	first := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)

	require.Equal(t, http.StatusCreated, firstRec.Code)
	require.Equal(t, int64(1), handled.Load())

	second := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	assert.Equal(t, http.StatusCreated, secondRec.Code)
	assert.Equal(t, firstRec.Body.String(), secondRec.Body.String())
	assert.Equal(t, int64(1), handled.Load(), "handler must not run twice for the same key")
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	var handled atomic.Int64
	store := newFakeIdempotencyStore()
	router := idempotencyTestRouter(store, &handled)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[{"product_id":1,"quantity":2}]}`))
	first.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[{"product_id":9,"quantity":1}]}`))
	second.Header.Set("Idempotency-Key", "key-1")
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	assert.Equal(t, http.StatusConflict, secondRec.Code)
	assert.Equal(t, int64(1), handled.Load())
}

func TestIdempotencyDoesNotStoreServerErrors(t *testing.T) {
	var handled atomic.Int64
	store := newFakeIdempotencyStore()

	r := chi.NewRouter()
	r.Use(Idempotency(store, config.IdempotencyConfig{TTL: time.Hour}, nil))
	r.Post("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		if handled.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	body := `{"items":[{"product_id":1,"quantity":2}]}`

	first := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	firstRec := httptest.NewRecorder()
	r.ServeHTTP(firstRec, first)

	require.Equal(t, http.StatusServiceUnavailable, firstRec.Code)
	assert.Empty(t, store.values, "failed responses must not be cached")

	second := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	secondRec := httptest.NewRecorder()
	r.ServeHTTP(secondRec, second)

	assert.Equal(t, http.StatusCreated, secondRec.Code)
	assert.Equal(t, int64(2), handled.Load(), "retry after a server error must reach the handler")
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	var handled atomic.Int64
	router := idempotencyTestRouter(newFakeIdempotencyStore(), &handled)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), handled.Load())
}
