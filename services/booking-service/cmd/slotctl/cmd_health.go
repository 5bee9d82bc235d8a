package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/md-rashed-zaman/consultbook/libs/grpcx"
)

func newHealthCmd() *cobra.Command {
	var (
		addr    string
		service string
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the booking service gRPC health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 3 * time.Second})
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer func() { _ = conn.Close() }()

			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus().String())
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("%s is %s", addr, resp.GetStatus())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9093", "gRPC address")
	cmd.Flags().StringVar(&service, "service", "booking-service", "health service name; empty checks the whole server")
	return cmd
}
