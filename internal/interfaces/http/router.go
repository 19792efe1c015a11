package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseUC   *billing.PurchaseUseCase
	InvoiceUC    *billing.InvoiceUseCase
	QuoteUC      *billing.QuoteUseCase
	CreditNoteUC *billing.CreditNoteUseCase
	SessionUC    *inventory.SessionUseCase
	ListUC       *ledger.ListMovementsUseCase
	AdjustUC     *ledger.AdjustmentUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo el motor exige Bearer Token:
// la boutique del token delimita cada operación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Borrar documentos y ajustar stock a mano queda reservado a los roles
	// de gestión.
	manage := RequireRole("admin", "gerente")

	// Compras
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Patch("/:id/status", purchaseHandler.UpdateStatus)
	purchases.Delete("/:id", manage, purchaseHandler.Delete)

	// Facturas
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", manage, invoiceHandler.Delete)

	// Cotizaciones
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Put("/:id/lines", quoteHandler.ReplaceLines)
	quotes.Post("/:id/convert", quoteHandler.Convert)
	quotes.Delete("/:id", manage, quoteHandler.Delete)

	// Notas de crédito
	creditNotes := protected.Group("/credit-notes")
	creditNoteHandler := NewCreditNoteHandler(deps.CreditNoteUC)
	creditNotes.Post("/", creditNoteHandler.Create)
	creditNotes.Get("/:id", creditNoteHandler.GetByID)
	creditNotes.Patch("/:id/status", creditNoteHandler.UpdateStatus)
	creditNotes.Put("/:id/lines", creditNoteHandler.ReplaceLines)
	creditNotes.Delete("/:id", manage, creditNoteHandler.Delete)

	// Inventario físico
	sessions := protected.Group("/inventory-sessions")
	inventoryHandler := NewInventoryHandler(deps.SessionUC)
	sessions.Post("/", inventoryHandler.CreateSession)
	sessions.Get("/:id", inventoryHandler.GetByID)
	sessions.Put("/:id/lines/:lineId", inventoryHandler.CountLine)
	sessions.Patch("/:id/status", inventoryHandler.UpdateStatus)

	// Libro de movimientos y ajustes manuales
	movementHandler := NewMovementHandler(deps.ListUC, deps.AdjustUC)
	protected.Get("/movements", movementHandler.List)
	protected.Post("/adjustments", manage, movementHandler.Adjust)
}
