package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_ServeAndShutdownOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := New(handler, Options{ShutdownTimeout: 5 * time.Second}, testLogger())

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("postgres", record("postgres"))
	srv.OnShutdown("redis", record("redis"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	require.Equal(t, []string{"redis", "postgres"}, order)
}

func TestServer_ShutdownErrorsAreJoined(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second}, testLogger())

	errRedis := errors.New("redis close failed")
	errPool := errors.New("pool close failed")
	srv.OnShutdown("postgres", func(context.Context) error { return errPool })
	srv.OnShutdown("redis", func(context.Context) error { return errRedis })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	require.ErrorIs(t, err, errRedis)
	require.ErrorIs(t, err, errPool)
}
