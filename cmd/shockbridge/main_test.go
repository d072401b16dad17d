package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartServersSurvivesBusyPort(t *testing.T) {

	require := require.New(t)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	defer busy.Close()

	free, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	freeAddr := free.Addr().String()
	require.NoError(free.Close())

	core, logs := observer.New(zap.InfoLevel)

	failing := &http.Server{Addr: busy.Addr().String(), Handler: http.NotFoundHandler()}
	healthy := &http.Server{Addr: freeAddr, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})}
	servers := []*http.Server{failing, healthy}

	startServers(servers, zap.New(core))

	require.Eventually(func() bool {
		return logs.FilterMessage("listener failed").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(func() bool {
		resp, err := http.Get("http://" + freeAddr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond, "the remaining listener keeps serving")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, srv := range servers {
		require.NoError(srv.Shutdown(ctx))
	}
}
