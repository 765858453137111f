package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	appcontact "github.com/smyva-leather/storefront-backend/internal/application/contact"
	apporder "github.com/smyva-leather/storefront-backend/internal/application/order"
	apppayment "github.com/smyva-leather/storefront-backend/internal/application/payment"
	"github.com/smyva-leather/storefront-backend/internal/config"
	"github.com/smyva-leather/storefront-backend/internal/infrastructure/firestoredb"
	httptransport "github.com/smyva-leather/storefront-backend/internal/infrastructure/http"
	"github.com/smyva-leather/storefront-backend/internal/infrastructure/mailer"
	"github.com/smyva-leather/storefront-backend/internal/infrastructure/midtranspay"
	"github.com/smyva-leather/storefront-backend/internal/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger needs config too; this is the one pre-logger exit.
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)
	httpDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	reconciliations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_reconciliations_total",
			Help: "Payment notifications processed, by outcome.",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(httpRequests, httpDurations, reconciliations)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := firestoredb.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		baseLogger.Fatal("firestore_init_failed", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	gateway := midtranspay.New(cfg.Midtrans.ServerKey, cfg.Midtrans.Production)
	smtp := mailer.New(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.User, cfg.Email.Pass)

	paymentService := apppayment.NewService(gateway)
	orderService := apporder.NewService(store, cfg.Midtrans.ServerKey, reconciliations)
	contactService := appcontact.NewService(smtp, cfg.Email.Inbox)

	handler := httptransport.NewHandler(paymentService, orderService, contactService)
	middleware := httptransport.ObservabilityMiddleware(baseLogger, &httptransport.Metrics{
		Requests:  httpRequests,
		Durations: httpDurations,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", middleware(handler.Router()))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}
