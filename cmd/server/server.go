package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-compendium/internal/handlers/http/v1alpha1"
)

const serviceName = "rpg-compendium"

var (
	httpPort   int
	healthPort int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long: `Start the JSON HTTP API. A gRPC health endpoint is served alongside it
when grpc.health_port is set.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", 0, "HTTP server port (overrides http.port)")
	serverCmd.Flags().IntVar(&healthPort, "health-port", -1, "gRPC health port, 0 disables (overrides grpc.health_port)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	if httpPort > 0 {
		cfg.HTTP.Port = httpPort
	}
	if healthPort >= 0 {
		cfg.GRPC.HealthPort = healthPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		SearchService:    svc.search,
		CharacterService: svc.character,
		Features:         svc.features,
	})
	if err != nil {
		return fmt.Errorf("failed to create http handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      otelhttp.NewHandler(handler.Routes(), serviceName),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("HTTP server starting", "port", cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPC.HealthPort != 0 {
		grpcServer, healthServer, err = startHealthServer(cfg.GRPC.HealthPort, errChan)
		if err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if healthServer != nil {
		healthServer.Shutdown()
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}

	if grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
	}

	slog.Info("Server stopped gracefully")
	return nil
}

// startHealthServer serves grpc.health.v1 and reflection on port
func startHealthServer(port int, errChan chan<- error) (*grpc.Server, *health.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	go func() {
		slog.Info("gRPC health server starting", "port", port)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()

	return srv, healthServer, nil
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
