package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/invoice-form/internal/application/auth"
	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/application/form"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	InvoiceUC *billing.InvoiceUseCase
	ExportUC  *billing.ExportUseCase
	FormUC    *form.SessionUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, 10 intentos por minuto e IP)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, espere un minuto"})
		},
	}), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Formulario de factura
	forms := protected.Group("/forms")
	formHandler := NewFormHandler(deps.FormUC)
	forms.Post("/", formHandler.Open)
	forms.Get("/:id", formHandler.Get)
	forms.Delete("/:id", formHandler.Discard)
	forms.Post("/:id/rows", formHandler.AddRow)
	forms.Patch("/:id/rows/:rowId", formHandler.Input)
	forms.Delete("/:id/rows/:rowId", formHandler.RemoveRow)
	forms.Patch("/:id/rates", formHandler.SetRate)
	forms.Post("/:id/submit", formHandler.Submit)

	// Libro de facturas
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ExportUC, deps.FormUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/form", invoiceHandler.Edit)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/excel", invoiceHandler.Excel)
}
