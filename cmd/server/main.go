package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "gstbill/docs"
	"gstbill/internal/config"
	"gstbill/internal/email/noop"
	"gstbill/internal/email/ses"
	"gstbill/internal/handler"
	"gstbill/internal/logging"
	"gstbill/internal/port"
	"gstbill/internal/repository/postgres"
	"gstbill/internal/router"
	"gstbill/internal/service"
	s3storage "gstbill/internal/storage/s3"
)

// @title gstbill API
// @version 1.0
// @description GST invoicing: tax computation, invoice register and GSTR-1 reporting.
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	businessRepo := postgres.NewBusinessRepo(db)
	userRepo := postgres.NewUserRepo(db)
	customerRepo := postgres.NewCustomerRepo(db)
	productRepo := postgres.NewProductRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	hsnRepo := postgres.NewHSNRepo(db)

	ctx := context.Background()
	rates, err := service.LoadRateTable(ctx, hsnRepo, log)
	if err != nil {
		return err
	}

	// Report archive storage is optional
	var storage port.ObjectStorage
	if cfg.Report.ArchiveEnabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender(log)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, businessRepo, cfg.JWT)
	registrationSvc := service.NewRegistrationService(businessRepo, userRepo, authSvc)
	businessSvc := service.NewBusinessService(businessRepo)
	userSvc := service.NewUserService(userRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	productSvc := service.NewProductService(productRepo, rates)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, customerRepo, productRepo, businessRepo,
		rates, cfg.Report.RejectOnMismatch, log)
	reportSvc := service.NewReportService(invoiceRepo, businessRepo, userRepo, storage, sender,
		service.ReportConfig{
			ArchiveEnabled: cfg.Report.ArchiveEnabled,
			Bucket:         cfg.S3.Bucket,
			KeyPrefix:      cfg.Report.KeyPrefix,
			PresignExpiry:  cfg.S3.PresignExpiry,
			MaxPeriodDays:  cfg.Report.MaxPeriodDays,
		}, log)

	// Setup router
	r := router.Setup(cfg, log, authSvc, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, registrationSvc),
		Business: handler.NewBusinessHandler(businessSvc),
		User:     handler.NewUserHandler(userSvc),
		Customer: handler.NewCustomerHandler(customerSvc),
		Product:  handler.NewProductHandler(productSvc),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc, businessSvc),
		Report:   handler.NewReportHandler(reportSvc),
		Health:   handler.NewHealthHandler(db, rates.Len()),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
