package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/pagetally/internal/archive"
	"github.com/mmynk/pagetally/internal/auth"
	"github.com/mmynk/pagetally/internal/config"
	"github.com/mmynk/pagetally/internal/estimator"
	"github.com/mmynk/pagetally/internal/metrics"
	"github.com/mmynk/pagetally/internal/middleware"
	"github.com/mmynk/pagetally/internal/service"
	"github.com/mmynk/pagetally/internal/upload"
	"github.com/mmynk/pagetally/pkg/api/apiconnect"
	"github.com/mmynk/pagetally/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logCloser := logging.SetupWithOptions(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer logCloser.Close()
	logger := slog.Default()

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	draftStore, err := openDrafts(cfg.Drafts)
	if err != nil {
		return err
	}
	defer draftStore.Close()

	var archiver estimator.Archiver
	if cfg.Archive.Bucket != "" {
		a, err := archive.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			return err
		}
		archiver = a
		slog.Info("Archiving uploads", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}

	est := estimator.New(estimator.WithObserver(func(e estimator.Estimate, elapsed time.Duration) {
		metrics.ObserveEstimate(string(e.Format), string(e.Method), e.Pages, elapsed)
	}))
	intake := estimator.NewIntake(est, cfg.MaxUploadBytes(), archiver)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, store, jwtManager, draftStore, logger)
	calcSvc := service.NewCalculatorService(store, draftStore, service.CalculatorOptions{
		DefaultPrice:  cfg.Calculator.DefaultPrice,
		DefaultPayers: cfg.Calculator.DefaultPayers,
	}, logger)
	paymentSvc := service.NewPaymentService(store, logger)
	historySvc := service.NewHistoryService(store, logger)

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(),
	)

	r := mux.NewRouter()

	for _, register := range []func() (string, http.Handler){
		func() (string, http.Handler) { return apiconnect.NewAuthServiceHandler(authSvc, interceptors) },
		func() (string, http.Handler) { return apiconnect.NewCalculatorServiceHandler(calcSvc, interceptors) },
		func() (string, http.Handler) { return apiconnect.NewPaymentServiceHandler(paymentSvc, interceptors) },
		func() (string, http.Handler) { return apiconnect.NewHistoryServiceHandler(historySvc, interceptors) },
	} {
		path, handler := register()
		r.PathPrefix(path).Handler(handler)
	}

	// Uploads count against the whole request body, so allow a few files.
	uploads := upload.NewHandler(intake, calcSvc, 4*cfg.MaxUploadBytes(), logger)
	r.Handle("/api/uploads", middleware.RequireAuthHTTP(jwtManager)(uploads)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	static, err := staticHandler(cfg.StaticPath)
	if err != nil {
		return err
	}
	r.PathPrefix("/").Handler(static)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}).Handler(middleware.LoggingHandler(r))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
