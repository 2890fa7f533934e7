// Package app wires the suggestion daemon together.
package app

import (
	"context"
	"flag"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"k8s.io/klog/v2"

	"github.com/thalesfsp/suggest"
	"github.com/thalesfsp/suggest/internal/config"
	"github.com/thalesfsp/suggest/rpc"
)

// NewCommand creates the suggestd root command.
func NewCommand() *cobra.Command {
	opts := config.NewOptions()

	cmd := &cobra.Command{
		Use:          "suggestd",
		Short:        "Serve grid and random parameter suggestions over gRPC",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Complete(cmd.Flags()); err != nil {
				return err
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return Run(ctx, opts)
		},
	}

	opts.AddFlags(cmd.Flags())

	goFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(goFlags)
	cmd.Flags().AddGoFlagSet(goFlags)

	return cmd
}

// Run listens on opts.ListenAddress and serves until ctx is done.
func Run(ctx context.Context, opts *config.Options) error {
	lis, err := net.Listen("tcp", opts.ListenAddress)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", opts.ListenAddress)
	}

	return serve(ctx, lis, opts)
}

func serve(ctx context.Context, lis net.Listener, opts *config.Options) error {
	conf := suggest.DefaultConfig()
	if err := opts.ApplyTo(&conf); err != nil {
		return err
	}

	server := grpc.NewServer(
		grpc.MaxRecvMsgSize(opts.MaxMessageBytes),
		grpc.MaxSendMsgSize(opts.MaxMessageBytes),
	)
	hs := rpc.RegisterServices(server, rpc.NewServer(suggest.New(conf)))

	errCh := make(chan error, 1)

	go func() {
		klog.InfoS("Suggestion service listening", "address", lis.Addr().String(), "seed", conf.Seed, "maxRetries", conf.MaxRetries)
		errCh <- server.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "grpc serve")
	case <-ctx.Done():
	}

	klog.InfoS("Shutting down suggestion service", "timeout", opts.ShutdownTimeout)
	hs.Shutdown()

	stopped := make(chan struct{})

	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(opts.ShutdownTimeout):
		klog.InfoS("Graceful shutdown timed out, closing remaining connections")
		server.Stop()
		<-stopped
	}

	return nil
}
