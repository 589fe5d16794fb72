package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-society-manager/internal/config"
	"go-society-manager/internal/database"
	"go-society-manager/internal/event"
	"go-society-manager/internal/handler"
	"go-society-manager/internal/metrics"
	"go-society-manager/internal/middleware"
	"go-society-manager/internal/repository"
	"go-society-manager/internal/router"
	"go-society-manager/internal/service"
	"go-society-manager/internal/storage"
	"go-society-manager/internal/web"
)

type App struct {
	server  *http.Server
	db      *database.DB
	workers sync.WaitGroup
	stop    context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	store, err := storage.New(cfg.AttachmentRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attachment storage: %w", err)
	}
	if err := os.MkdirAll(cfg.ThumbnailRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail root: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	c := Wire(cfg, db, store)

	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set; no default admin will be created")
	} else if err := c.Auth.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default admin: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           c.Handler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	ctx, stop := context.WithCancel(context.Background())
	a := &App{server: server, db: db, stop: stop}

	a.goWorker(func() { c.Audit.Run(ctx, c.Bus) })
	a.goWorker(func() {
		runEvery(ctx, cfg.OverdueInterval, "mark overdue bills", func(ctx context.Context) error {
			n, err := c.Billing.MarkOverdue(ctx, time.Now().UTC())
			if n > 0 {
				slog.Info("bills marked overdue", "count", n)
			}
			return err
		})
	})
	a.goWorker(func() {
		runEvery(ctx, cfg.TokenCleanupInterval, "clean expired refresh tokens", func(ctx context.Context) error {
			n, err := c.Auth.CleanExpiredTokens(ctx)
			if n > 0 {
				slog.Debug("expired refresh tokens removed", "count", n)
			}
			return err
		})
	})

	return a, nil
}

// Components is the wired object graph behind the HTTP server.
type Components struct {
	Handler http.Handler
	Bus     *event.InMemoryBus
	Auth    *service.AuthService
	Billing *service.BillingService
	Audit   *service.AuditService
}

// Wire builds repositories, services, handlers and pages over db and store.
func Wire(cfg *config.Config, db *database.DB, store *storage.Storage) *Components {
	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	societyRepo := repository.NewSocietyRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	residentRepo := repository.NewResidentRepository(pool)
	incomeRepo := repository.NewIncomeRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)
	billRepo := repository.NewBillRepository(pool)

	bus := event.NewBus()
	appMetrics := metrics.New()

	authService := service.NewAuthService(userRepo, tokenRepo, residentRepo, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, bus)
	societyService := service.NewSocietyService(societyRepo, bus)
	unitService := service.NewUnitService(unitRepo, societyRepo, bus)
	residentService := service.NewResidentService(residentRepo, unitRepo, societyRepo, bus)
	incomeService := service.NewIncomeService(incomeRepo, societyRepo, bus)
	attachmentService := service.NewAttachmentService(expenseRepo, store, cfg.ThumbnailRoot, cfg.MaxUploadSize, bus)
	expenseService := service.NewExpenseService(expenseRepo, societyRepo, attachmentService, bus)
	billingService := service.NewBillingService(billRepo, unitRepo, residentRepo, societyRepo, bus)
	receiptService := service.NewReceiptService(billRepo, societyRepo)
	auditService := service.NewAuditService(auditRepo)

	pages := web.New(web.Services{
		Auth:      authService,
		Societies: societyService,
		Units:     unitService,
		Residents: residentService,
		Incomes:   incomeService,
		Expenses:  expenseService,
		Bills:     billingService,
	}, appMetrics, web.Config{
		DefaultPageSize: cfg.DefaultPageSize,
		Breakpoint:      cfg.TableBreakpoint,
		SecureCookies:   cfg.SecureCookies,
		SessionTTL:      cfg.JWTAccessTTL,
	})

	root := router.New(cfg, middleware.NewAuthMiddleware(authService), appMetrics, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.DefaultPageSize),
		Society:    handler.NewSocietyHandler(societyService, cfg.DefaultPageSize),
		Unit:       handler.NewUnitHandler(unitService, cfg.DefaultPageSize),
		Resident:   handler.NewResidentHandler(residentService, cfg.DefaultPageSize),
		Income:     handler.NewIncomeHandler(incomeService, cfg.DefaultPageSize),
		Expense:    handler.NewExpenseHandler(expenseService, cfg.DefaultPageSize),
		Attachment: handler.NewAttachmentHandler(attachmentService, cfg.MaxUploadSize),
		Bill:       handler.NewBillHandler(billingService, receiptService, cfg.DefaultPageSize),
		Audit:      handler.NewAuditHandler(auditService),
	}, pages)

	return &Components{
		Handler: root,
		Bus:     bus,
		Auth:    authService,
		Billing: billingService,
		Audit:   auditService,
	}
}

func (a *App) goWorker(fn func()) {
	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		fn()
	}()
}

// runEvery calls task immediately and then on every tick until ctx ends.
func runEvery(ctx context.Context, interval time.Duration, name string, task func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := task(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("background task failed", "task", name, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	// Workers stop after the last request so its audit events are written.
	a.stop()
	a.workers.Wait()
	a.db.Close()

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
