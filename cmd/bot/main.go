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

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/attendance"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/auth"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/bot"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/usecase"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/schedule"
	infrapdf "github.com/AsutoshPati/TelegramAttendanceBot/internal/infrastructure/pdf"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/infrastructure/postgres"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/infrastructure/telegram"
	httpRouter "github.com/AsutoshPati/TelegramAttendanceBot/internal/interfaces/http"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/config"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/logger"
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

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	resolver, err := schedule.NewResolver(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Attendance.Timezone).Msg("zona horaria inválida")
	}

	userRepo := postgres.NewUserRepository(pool)
	attRepo := postgres.NewAttendanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	correlator := attendance.NewCorrelator(txRunner, resolver, cfg.Attendance.DelaySeconds)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := report.NewReportUseCase(attRepo, userRepo, resolver, pdfGenerator, cfg.App.Name)

	dispatcher := bot.NewDispatcher(authUC, userUC, correlator, reportUC, log)
	sender := telegram.NewClient(cfg.Bot.Token)

	if err := seedSuperHR(ctx, cfg, userUC, userRepo); err != nil {
		log.Fatal().Err(err).Msg("semilla del usuario super HR")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	// El middleware hace panic si el archivo no existe, así que solo se
	// registra cuando el despliegue incluye el JSON.
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; UI de docs deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	webhook := httpRouter.NewWebhookHandler(dispatcher, sender, cfg.Bot.WebhookSecret, log)
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ReportUC:  reportUC,
		Webhook:   webhook,
		JWTSecret: cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}

// seedSuperHR crea el usuario HR semilla si no existe todavía. Sin al menos
// un HR nadie puede dar de alta cuentas por el bot.
func seedSuperHR(ctx context.Context, cfg *config.Config, userUC *usecase.UserUseCase, userRepo *postgres.UserRepo) error {
	if cfg.SuperHR.EmployeeID == "" || cfg.SuperHR.Password == "" {
		return nil
	}
	existing, err := userRepo.GetByEmployeeID(ctx, cfg.SuperHR.EmployeeID, false)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = userUC.Create(ctx, dto.CreateUserRequest{
		EmployeeID: cfg.SuperHR.EmployeeID,
		FullName:   cfg.SuperHR.FullName,
		Role:       entity.RoleHR,
		Password:   cfg.SuperHR.Password,
	})
	return err
}
