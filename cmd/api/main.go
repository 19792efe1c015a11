package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/audit"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/repuestos-api/internal/interfaces/http"
	"github.com/jhoicas/repuestos-api/pkg/config"
	"github.com/jhoicas/repuestos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	auditSink := audit.NewLogSink(log)

	invoiceUC := billing.NewInvoiceUseCase(txRunner, auditSink)
	purchaseUC := billing.NewPurchaseUseCase(txRunner, auditSink)
	quoteUC := billing.NewQuoteUseCase(txRunner, invoiceUC, auditSink)
	creditNoteUC := billing.NewCreditNoteUseCase(txRunner, auditSink)
	sessionUC := inventory.NewSessionUseCase(txRunner, auditSink)
	adjustUC := ledger.NewAdjustmentUseCase(txRunner, auditSink)
	listUC := ledger.NewListMovementsUseCase(movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseUC:   purchaseUC,
		InvoiceUC:    invoiceUC,
		QuoteUC:      quoteUC,
		CreditNoteUC: creditNoteUC,
		SessionUC:    sessionUC,
		ListUC:       listUC,
		AdjustUC:     adjustUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
