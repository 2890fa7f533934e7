package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/thalesfsp/suggest"
	"github.com/thalesfsp/suggest/internal/config"
	"github.com/thalesfsp/suggest/rpc"
)

func TestServeAndShutdown(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	opts := config.NewOptions()
	opts.Seed = 17
	opts.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- serve(ctx, lis, opts)
	}()

	client, err := rpc.NewClient(lis.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	resp, err := client.GetSuggestions(callCtx, &suggest.Request{
		Algorithm:        suggest.AlgorithmRandom,
		RequiredSampling: 2,
		Parameters: []suggest.ParameterSpec{
			{Name: "replicas", FeasibleValues: []string{"1", "2", "3"}},
		},
	}, grpc.WaitForReady(true))
	require.NoError(t, err)
	assert.Len(t, resp.AssignmentSets, 2)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	health, err := healthpb.NewHealthClient(conn).Check(callCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunInvalidAddress(t *testing.T) {
	opts := config.NewOptions()
	opts.ListenAddress = "not-an-address"

	assert.Error(t, Run(context.Background(), opts))
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand()

	for _, name := range []string{"config", "listen-address", "max-message-bytes", "shutdown-timeout", "seed", "max-retries", "v"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
}
