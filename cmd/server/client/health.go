package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var service string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Long:  `Call the gRPC health service and fail unless the server reports SERVING.`,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&service, "service", "", "Service name to check (empty checks the whole server)")
}

func runHealth(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createHealthClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	slog.Debug("Checking health", "server", serverAddr, "service", service)

	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return fmt.Errorf("failed to check health: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus().String())
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("server is %s", resp.GetStatus())
	}
	return nil
}
