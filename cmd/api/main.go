package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/invoice-form/internal/application/auth"
	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/application/form"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
	infraexcel "github.com/jhoicas/invoice-form/internal/infrastructure/excel"
	"github.com/jhoicas/invoice-form/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/invoice-form/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-form/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/invoice-form/internal/interfaces/http"
	"github.com/jhoicas/invoice-form/pkg/config"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

// storage adaptadores de persistencia según STORAGE.
type storage struct {
	invoices repository.InvoiceRepository
	users    repository.UserRepository
	tx       billing.TxRunner
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("STORAGE=memory: las facturas se pierden al reiniciar")
		invoices := memory.NewInvoiceRepository()
		return &storage{
			invoices: invoices,
			users:    memory.NewUserRepository(),
			tx:       memory.NewTxRunner(invoices),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		invoices: postgres.NewInvoiceRepository(pool),
		users:    postgres.NewUserRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	company := entity.Company{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
	}

	invoiceUC := billing.NewInvoiceUseCase(store.tx, store.invoices, log)
	exportUC := billing.NewExportUseCase(
		store.invoices, infrapdf.NewMarotoPDFGenerator(), infraexcel.NewExcelizeGenerator(), company, log,
	)
	formUC := form.NewSessionUseCase(invoiceUC, cfg.Forms.SessionTTL, log)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureDefaultUser(ctx, cfg.Seed.Username, cfg.Seed.Password); err != nil {
		log.Fatal().Err(err).Msg("crear usuario inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerPath != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerPath,
				Path:     "docs",
				Title:    "Invoice Form API",
			}))
		} else {
			log.Warn().Str("path", cfg.HTTP.SwaggerPath).Msg("swagger.json no encontrado, /docs desactivado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		InvoiceUC: invoiceUC,
		ExportUC:  exportUC,
		FormUC:    formUC,
		JWTSecret: cfg.JWT.Secret,
	})

	// Sesiones de formulario abandonadas.
	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeSessions(purgeCtx, formUC, cfg.Forms.SessionTTL)

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

	log.Info().Msg("aplicación detenida")
}

// purgeSessions revisa las sesiones expiradas cada ttl/4 (mínimo un minuto).
func purgeSessions(ctx context.Context, uc *form.SessionUseCase, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			uc.PurgeExpired(now)
		}
	}
}
