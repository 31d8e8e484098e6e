package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/metrics"
	orderListenerPkg "github.com/fekuna/omnipos-admin-console/internal/order/listener"
	orderUCPkg "github.com/fekuna/omnipos-admin-console/internal/order/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Follow storefront order events and expose health and metrics",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return auth.Require(cmd.Context(), auth.RouteOrders)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	// 1. Order view kept fresh by the listener; its per-status counts are
	// exported as the omnipos_admin_orders gauge
	orderUC := orderUCPkg.NewOrderUseCase(a.client, a.session, a.observer, a.logger)
	defer orderUC.Close()

	// 2. Initialize Kafka Consumer
	reader := orderListenerPkg.NewReader(a.cfg.Kafka)
	defer reader.Close()
	a.logger.Info("Connected to Kafka Consumer", zap.Strings("brokers", a.cfg.Kafka.Brokers), zap.String("topic", a.cfg.Kafka.Topic))
	orderListener := orderListenerPkg.NewOrderListener(reader, orderUC, a.metrics, a.logger)
	if err := orderListener.Sync(ctx); err != nil {
		a.logger.Warn("Initial order load failed, waiting for events", zap.Error(err))
	}

	// 3. gRPC health and reflection
	port := a.cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// 4. Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	metricsServer := &http.Server{
		Addr:              a.cfg.Server.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orderListener.Start(gctx)
		return nil
	})
	g.Go(func() error {
		a.logger.Info("Starting gRPC server", zap.String("port", port))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		a.logger.Info("Starting metrics server", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server...")
		healthServer.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return metricsServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	a.logger.Info("Server stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
