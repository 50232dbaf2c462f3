// Package client provides probe commands for a running rpg-compendium server
package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/KirkDiggler/rpg-compendium/internal/config"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client probe commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Probe a running rpg-compendium server",
	Long:  `Client commands talk to the gRPC health endpoint of a running server.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server",
		fmt.Sprintf("localhost:%d", config.DefaultGRPCHealthPort), "gRPC health server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")

	ClientCmd.AddCommand(healthCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createHealthClient creates a health service client
func createHealthClient() (grpc_health_v1.HealthClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return grpc_health_v1.NewHealthClient(conn), cleanup, nil
}
