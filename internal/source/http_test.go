package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquee-led/marquee/internal/parser"
)

func textParser(t *testing.T) parser.Func {
	t.Helper()
	r := parser.NewRegistry()
	parser.RegisterBuiltins(r)
	fn, err := r.Resolve("text")
	require.NoError(t, err)
	return fn
}

func jsonPathParser(t *testing.T) parser.Func {
	t.Helper()
	r := parser.NewRegistry()
	parser.RegisterBuiltins(r)
	fn, err := r.Resolve("json_path")
	require.NoError(t, err)
	return fn
}

func TestHTTPFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "Hello World!"}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, jsonPathParser(t), parser.Options{"path": "message"})

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Hello World!", res.Text)
}

func TestHTTPFetchSendsHeaders(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, map[string]string{"Authorization": "token abc"}, textParser(t), nil)
	res := h.Fetch(context.Background())

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "token abc", gotAuth.Load())
}

func TestHTTPFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, textParser(t), nil)

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusTransportFailure, res.Status)
	assert.ErrorContains(t, res.Err, "status 500")
}

func TestHTTPFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	h := NewHTTP(srv.URL, nil, textParser(t), nil)

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusTransportFailure, res.Status)
}

func TestHTTPFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	h := NewHTTP(srv.URL, nil, textParser(t), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := h.Fetch(ctx)
	assert.Equal(t, StatusTransportFailure, res.Status)
}

func TestHTTPFetchParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other": 1}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, jsonPathParser(t), parser.Options{"path": "message"})

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusParseFailure, res.Status)
}

func TestHTTPFetchEmptyExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "  "}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, jsonPathParser(t), parser.Options{"path": "message"})

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusEmpty, res.Status)
}

func TestHTTPFetchRecoversAfterFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, textParser(t), nil)

	for i := 0; i < 3; i++ {
		res := h.Fetch(context.Background())
		assert.Equal(t, StatusTransportFailure, res.Status)
	}

	res := h.Fetch(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "recovered", res.Text)
}

func TestHTTPBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, nil, textParser(t), nil)

	for i := 0; i < 7; i++ {
		res := h.Fetch(context.Background())
		assert.Equal(t, StatusTransportFailure, res.Status)
	}

	// breaker trips after 5 consecutive failures; later attempts short-circuit
	assert.Equal(t, int64(5), calls.Load())
}
