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
	_ "github.com/jhoicas/kardex-api/docs"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	infrapdf "github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// @title        Kardex API
// @version      1.0
// @description  Kardex físico-valorado de insumos odontológicos: lotes, consumo FIFO, ajustes y vencimientos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}
	loc, err := cfg.Kardex.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de la clínica")
	}
	clock := kardex.Clock(func() time.Time { return time.Now().In(loc) })

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	pdfGenerator := infrapdf.NewKardexPDFGenerator(cfg.Kardex.Institution)

	deps := httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		SupplyUC:  kardex.NewSupplyUseCase(repos, clock),
		LedgerUC:  kardex.NewLedgerUseCase(txRunner, repos, pdfGenerator, clock, cfg.Kardex.DefaultLocation, log.Component("kardex")),
		ConsumeUC: kardex.NewConsumeUseCase(txRunner, repos, clock, log.Component("consumo")),
		ReceiveUC: kardex.NewReceiveUseCase(txRunner, clock, cfg.Kardex.DefaultLocation, log.Component("recepcion")),
		AdjustUC:  kardex.NewAdjustUseCase(txRunner, clock, log.Component("ajustes")),
		ExpiryUC:  kardex.NewExpiryUseCase(repos, clock, cfg.Kardex.ExpiryWarningDays, log.Component("vencimientos")),
		JWTSecret: cfg.JWT.Secret,
		Location:  loc,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

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
