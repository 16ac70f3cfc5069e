package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents documentService
	Approval  approvalService
	Receipts  receiptService
	Views     inventoryViews
	JWTSecret string
	Log       zerolog.Logger
}

// Roles que pueden aprobar documentos.
var approverRoles = []string{"admin", "supervisor"}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	errs := errorWriter{log: logger.Component(deps.Log, "http")}
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	docs := protected.Group("/documents")
	docHandler := NewDocumentHandler(deps.Documents, deps.Approval, deps.Receipts, errs)
	docs.Post("/", docHandler.Create)
	docs.Get("/", docHandler.List)
	docs.Get("/:id", docHandler.Get)
	docs.Put("/:id", docHandler.Update)
	docs.Post("/:id/submit", docHandler.Submit)
	docs.Post("/:id/approve", RequireRole(approverRoles...), docHandler.Approve)
	docs.Post("/:id/cancel", docHandler.Cancel)
	docs.Post("/:id/receipts", docHandler.CreateAdditionalGRN)
	docs.Get("/:id/receipt-status", docHandler.GetReceiptStatus)

	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Views, errs)
	inv.Get("/on-hand", invHandler.GetOnHand)
	inv.Get("/ledger", invHandler.GetLedger)
	inv.Get("/low-stock", invHandler.GetLowStock)
}
