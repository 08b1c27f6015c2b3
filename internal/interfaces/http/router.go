package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/analytics"
	"github.com/jhoicas/swarna-khata-api/internal/application/auth"
	"github.com/jhoicas/swarna-khata-api/internal/application/billing"
	"github.com/jhoicas/swarna-khata-api/internal/application/inventory"
	"github.com/jhoicas/swarna-khata-api/internal/application/notification"
	"github.com/jhoicas/swarna-khata-api/internal/application/usecase"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ShopUC          *usecase.ShopUseCase
	MetalRateUC     *usecase.MetalRateUseCase
	SubscriptionSvc *usecase.SubscriptionService
	CustomerUC      *billing.CustomerUseCase
	ItemUC          *inventory.ItemUseCase
	InvoiceUC       *billing.InvoiceUseCase
	DocumentUC      *billing.DocumentUseCase
	RecycleBinUC    *billing.RecycleBinUseCase
	NotificationSvc *notification.Service
	ReportsUC       *analytics.ReportsUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	readers := RequireRole(entity.RoleAdmin, entity.RoleStaff, entity.RoleReadOnly)
	writers := RequireRole(entity.RoleAdmin, entity.RoleStaff)
	admins := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/otp", authHandler.RequestOTP)
	authGroup.Post("/verify", authHandler.VerifyOTP)

	// Rutas con token; el usuario puede no tener tienda todavía.
	authed := api.Group("", AuthMiddleware(deps.JWTSecret))
	authed.Get("/auth/me", authHandler.Me)
	authed.Post("/auth/refresh", authHandler.Refresh)

	shopHandler := NewShopHandler(deps.ShopUC, deps.AuthUC)
	authed.Post("/shop", shopHandler.Create)

	// Rutas de la tienda del token
	protected := authed.Group("", RequireShop())

	protected.Get("/shop", readers, shopHandler.Get)
	protected.Put("/shop", admins, shopHandler.Update)
	protected.Get("/shop/pdf-settings", readers, shopHandler.GetPDFSettings)
	protected.Put("/shop/pdf-settings", admins, shopHandler.UpdatePDFSettings)

	rateHandler := NewMetalRateHandler(deps.MetalRateUC)
	protected.Get("/metal-rates", readers, rateHandler.List)
	protected.Put("/metal-rates", admins, rateHandler.Set)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Post("/", writers, customerHandler.Create)
	customers.Get("/", readers, customerHandler.List)
	customers.Get("/:id", readers, customerHandler.GetByID)
	customers.Put("/:id", writers, customerHandler.Update)
	customers.Delete("/:id", admins, customerHandler.Delete)
	customers.Get("/:id/credit", readers, customerHandler.CreditSummary)

	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Post("/", writers, itemHandler.Create)
	items.Get("/", readers, itemHandler.List)
	items.Get("/:id", readers, itemHandler.GetByID)
	items.Put("/:id", writers, itemHandler.Update)
	items.Post("/:id/stock", writers, itemHandler.AdjustStock)
	items.Delete("/:id", admins, itemHandler.Delete)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices := protected.Group("/invoices")
	invoices.Post("/", writers, invoiceHandler.Create)
	invoices.Get("/", readers, invoiceHandler.List)
	invoices.Post("/preview", readers, invoiceHandler.Preview)
	invoices.Get("/export/tally", readers,
		RequireFeature(entity.FeatureTallyExport, deps.SubscriptionSvc), invoiceHandler.ExportTally)
	invoices.Get("/:id", readers, invoiceHandler.GetByID)
	invoices.Delete("/:id", admins, invoiceHandler.Delete)
	invoices.Get("/:id/audit", readers, invoiceHandler.Audit)
	invoices.Get("/:id/pdf", readers,
		RequireFeature(entity.FeaturePDFExport, deps.SubscriptionSvc), invoiceHandler.DownloadPDF)
	invoices.Post("/:id/items", writers, invoiceHandler.AddItem)
	invoices.Patch("/:id/items/:lineId", writers, invoiceHandler.UpdateItemQuantity)
	invoices.Put("/:id/items/:lineId", writers, invoiceHandler.EditItem)
	invoices.Delete("/:id/items/:lineId", writers, invoiceHandler.RemoveItem)
	invoices.Post("/:id/payments", writers, invoiceHandler.AddPayment)
	invoices.Put("/:id/payments/:paymentId", writers, invoiceHandler.EditPayment)
	invoices.Delete("/:id/payments/:paymentId", writers, invoiceHandler.RemovePayment)
	invoices.Post("/:id/metal-exchange", writers,
		RequireFeature(entity.FeatureMetalExchange, deps.SubscriptionSvc), invoiceHandler.ApplyMetalExchange)

	recycleHandler := NewRecycleBinHandler(deps.RecycleBinUC)
	protected.Get("/recycle-bin", readers, recycleHandler.List)
	protected.Post("/recycle-bin/:id/restore", admins, recycleHandler.Restore)

	notificationHandler := NewNotificationHandler(deps.NotificationSvc)
	protected.Get("/notifications", readers, notificationHandler.List)
	protected.Get("/notifications/unread-count", readers, notificationHandler.UnreadCount)
	protected.Post("/notifications/read-all", readers, notificationHandler.MarkAllRead)
	protected.Post("/notifications/:id/read", readers, notificationHandler.MarkRead)
	protected.Post("/devices", readers, notificationHandler.RegisterDevice)
	protected.Delete("/devices", readers, notificationHandler.UnregisterDevice)

	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionSvc)
	protected.Get("/subscription", readers, subscriptionHandler.Current)
	protected.Post("/subscription/purchases", admins, subscriptionHandler.RecordPurchase)

	reportHandler := NewReportHandler(deps.ReportsUC)
	reports := protected.Group("/reports", readers, RequireFeature(entity.FeatureReports, deps.SubscriptionSvc))
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/dues", reportHandler.CustomerDues)
}
