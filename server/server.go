package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"JerseyFM/cache"
	"JerseyFM/config"
	"JerseyFM/db"
	"JerseyFM/logger"
	"JerseyFM/repository"

	"github.com/gorilla/mux"
)

// RouterOptions holds everything the HTTP surface is built from.
type RouterOptions struct {
	Minter   Minter
	Receipts *ReceiptBook
	Metrics  *Metrics
	Auth     *Authenticator
}

// NewRouter 使用 gorilla/mux 创建路由器.
func NewRouter(opts RouterOptions) *mux.Router {
	h := NewMintHandler(opts.Minter, opts.Receipts, opts.Metrics)
	auth := opts.Auth.AuthMiddleware

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestIDMiddleware)

	// The method check on /api/mint lives in the handler chain rather than in
	// .Methods() so that the 405 body is ours.
	router.HandleFunc("/api/mint", postOnly(auth(h.Mint)))
	router.HandleFunc("/api/mint/ws", auth(h.MintProgress)).Methods(http.MethodGet)
	router.HandleFunc("/api/mints/{assetId}", auth(h.GetReceipt)).Methods(http.MethodGet)
	router.HandleFunc("/api/mints", auth(h.ListReceipts)).Methods(http.MethodGet)

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}

// Start initializes and starts the HTTP server, blocking until SIGINT or
// SIGTERM.
func Start(cfg *config.Config) error {
	ctx := context.Background()

	stack, err := Assemble(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("mint pipeline ready",
		logger.String("operator", stack.Wallet.Address()),
		logger.String("irysNode", cfg.IrysNodeURL),
		logger.String("staging", cfg.StagingBackend))

	var receiptCache ReceiptStore
	if cfg.RedisEnabled() {
		client, err := cache.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		receiptCache = cache.NewReceiptCache(client, cache.DefaultReceiptTTL)
		logger.Info("Successfully connected to Redis", logger.String("host", cfg.RedisHost))
	}

	var ledger ReceiptLedger
	if cfg.DBEnabled() {
		gdb, err := db.ConnectGormDB(cfg)
		if err != nil {
			return err
		}
		defer db.CloseGormDB(gdb)
		repo := repository.NewReceiptRepository(gdb)
		if err := repo.Migrate(); err != nil {
			return err
		}
		ledger = repo
	}

	metrics, err := NewMetrics()
	if err != nil {
		return err
	}

	auth := NewAuthenticator(cfg.JWTSecret)
	if !auth.Enabled() {
		logger.Warn("JWT_SECRET not set, mint endpoints are unauthenticated")
	}

	router := NewRouter(RouterOptions{
		Minter:   stack.Pipeline,
		Receipts: NewReceiptBook(receiptCache, ledger),
		Metrics:  metrics,
		Auth:     auth,
	})

	// 设置服务器超时. Uploads plus the mint call can take minutes.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		logger.Info("Mint via POST to /api/mint, progress via /api/mint/ws, metrics at /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	logger.Info("Shutting down server...")

	// In-flight mints get a while to finish; a submitted mint cannot be
	// recalled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
