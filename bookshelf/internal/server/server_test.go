package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/config"
	"github.com/stretchr/testify/require"
)

func TestServer_StopBeforeRun(t *testing.T) {
	t.Parallel()
	srv := NewServer(config.HTTPServer{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, http.NotFoundHandler())
	require.Equal(t, "127.0.0.1:0", srv.Addr())

	require.NoError(t, srv.Stop(context.Background()))
	require.NoError(t, srv.Run())
}
