package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/auth"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/usecase"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ReportUC  *report.ReportUseCase
	Webhook   *WebhookHandler
	JWTSecret string
}

// Router registra las rutas del webhook y de la API administrativa.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook del bot (autenticado por el secreto del path)
	app.Post("/bot/webhook/:secret", deps.Webhook.Receive)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token + rol HR)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleHR))

	// Users (solo HR)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/:employee_id", userHandler.GetByEmployeeID)
	users.Put("/:employee_id/password", userHandler.ResetPassword)
	users.Delete("/:employee_id", userHandler.Deactivate)
	users.Post("/:employee_id/reactivate", userHandler.Reactivate)

	// Reports (solo HR)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/attendance", reportHandler.Attendance)
}
