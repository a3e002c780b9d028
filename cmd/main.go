package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/config"
	"rentledger/internal/repository"
	"rentledger/internal/service"
	"rentledger/internal/transport/rest"
	"rentledger/internal/transport/websocket"
	"rentledger/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	db := mustInitPostgres(cfg.Postgres)
	defer postgres.Close(db)

	redisClient := mustInitRedis(cfg.Redis)
	defer redisClient.Close()

	storageClient, err := clients.NewLocalStorage(cfg.ReportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	var s3Client *clients.S3Client
	if cfg.S3.Enabled {
		s3Client, err = clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	eventsClient := clients.NewEventsClient(wsHub)

	tenantRepo := repository.NewTenantRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pendingRepo := repository.NewPendingPaymentRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	settingsSvc := service.NewSettingsService(settingsRepo, redisClient, eventsClient)
	statusSvc := service.NewStatusService(tenantRepo, settingsSvc, eventsClient)
	schedulerSvc := service.NewSchedulerService(tenantRepo, eventsClient)
	chargeSvc := service.NewChargeService(chargeRepo, tenantRepo, eventsClient)
	tenantSvc := service.NewTenantService(tenantRepo, propertyRepo, chargeRepo, paymentRepo, settingsSvc, eventsClient)
	reconcilerSvc := service.NewReconcilerService(db, settingsSvc, eventsClient)
	propertySvc := service.NewPropertyService(propertyRepo, tenantRepo, eventsClient)
	expenseSvc := service.NewExpenseService(expenseRepo, eventsClient)
	summarySvc := service.NewSummaryService(tenantRepo, paymentRepo, pendingRepo, chargeRepo, settingsSvc)
	reminderSvc := service.NewReminderService(tenantRepo, propertyRepo, settingsSvc)
	reportSvc := service.NewReportService(
		tenantRepo, paymentRepo, propertyRepo, expenseRepo, chargeRepo,
		settingsSvc, redisClient, storageClient, s3Client, eventsClient,
	)

	handler := rest.NewHandler(
		tenantSvc, statusSvc, schedulerSvc, chargeSvc, reconcilerSvc,
		propertySvc, expenseSvc, settingsSvc, summarySvc, reminderSvc, reportSvc,
	)
	router := handler.InitRouter()

	root := chi.NewRouter()

	// public: serve generated report files
	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer original filename in Content-Disposition (strip random prefix)
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	root.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsHub.HandleWebSocket(w, r)
	})

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run HTTP server in goroutine so we can listen for shutdown signals
	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// background evaluation pass: tenant statuses and rent increments
	go func() {
		interval := time.Duration(cfg.EvaluateIntervalMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			now := time.Now()
			if n, err := statusSvc.EvaluateAll(ctx, now); err != nil {
				log.Printf("status evaluation error: %v", err)
			} else if n > 0 {
				log.Printf("status evaluation: %d tenant(s) updated", n)
			}
			if n, err := schedulerSvc.ApplyDueIncrements(ctx, now); err != nil {
				log.Printf("rent increment pass error: %v", err)
			} else if n > 0 {
				log.Printf("rent increment pass: %d tenant(s) updated", n)
			}
		}

		run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()

	// background cleaner that deletes report files older than 30 minutes
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(30 * time.Minute); err != nil {
					log.Printf("storage cleanup error: %v", err)
				}
			}
		}
	}()

	// Listen for OS shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		// Give server up to 10 seconds to finish ongoing requests
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		// Cancel top-level context so background services (websocket hub) stop
		cancel()

		// Close database & redis explicitly to free resources promptly
		postgres.Close(db)
		redisClient.Close()

		log.Println("Shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
