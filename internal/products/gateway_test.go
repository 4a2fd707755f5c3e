package products

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orderdeskhq/orderdesk-backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	client, err := NewClient(config.ProductServiceConfig{BaseURL: baseURL}, nil, opts...)
	require.NoError(t, err)
	return client
}

func TestGetReturnsProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":42,"name":"Widget","description":"A widget","price":"9.99"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	product := client.Get(context.Background(), 42)
	require.NotNil(t, product)
	require.Equal(t, int64(42), product.ID)
	require.Equal(t, "Widget", product.Name)
	require.NotNil(t, product.Description)
	require.Equal(t, "A widget", *product.Description)
	require.True(t, decimal.RequireFromString("9.99").Equal(product.Price))
}

func TestGetResolvesNilOnFailure(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"price":`)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			require.Nil(t, client.Get(context.Background(), 7))
		})
	}
}

func TestGetResolvesNilOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(t, srv.URL)
	require.Nil(t, client.Get(context.Background(), 7))
}

func TestGetBatchOmitsUnresolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			fmt.Fprint(w, `{"id":1,"name":"One","price":"1.00"}`)
		case "/products/2":
			fmt.Fprint(w, `{"id":2,"name":"Two","price":"2.50"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	resolved := client.GetBatch(context.Background(), []int64{1, 2, 999})
	require.Len(t, resolved, 2)
	require.Contains(t, resolved, int64(1))
	require.Contains(t, resolved, int64(2))
	require.NotContains(t, resolved, int64(999))
	require.True(t, decimal.RequireFromString("2.50").Equal(resolved[2].Price))
}

func TestGetBatchDeduplicatesIDs(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"id":5,"name":"Five","price":"5.00"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	resolved := client.GetBatch(context.Background(), []int64{5, 5, 5})
	require.Len(t, resolved, 1)
	require.Equal(t, int64(1), calls.Load())
}

func TestGetBatchBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		<-release

		mu.Lock()
		inFlight--
		mu.Unlock()

		fmt.Fprint(w, `{"id":1,"name":"N","price":"1.00"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, WithLookupLimit(2))

	done := make(chan map[int64]Product, 1)
	go func() {
		done <- client.GetBatch(context.Background(), []int64{1, 2, 3, 4, 5, 6})
	}()

	close(release)
	resolved := <-done

	require.Len(t, resolved, 6)
	mu.Lock()
	defer mu.Unlock()
	require.LessOrEqual(t, peak, 2)
}
