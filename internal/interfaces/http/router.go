package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pos/internal/application/auth"
	"github.com/tu-usuario/almacen-pos/internal/application/inventory"
	"github.com/tu-usuario/almacen-pos/internal/application/purchases"
	"github.com/tu-usuario/almacen-pos/internal/application/sales"
	"github.com/tu-usuario/almacen-pos/internal/application/usecase"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	ClientUC   *usecase.ClientUseCase
	ProductUC  *usecase.ProductUseCase
	ReportUC   *usecase.ReportUseCase
	PurchaseUC *purchases.PurchaseUseCase
	SaleUC     *sales.SaleUseCase
	MovementUC *inventory.MovementUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API bajo /api/v1.
//
// Política de acceso: todos los GET son públicos (consulta anónima);
// las escrituras de catálogo, compras, ventas y deudas son solo admin;
// los movimientos directos de stock los escriben admin y vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	adminOnly := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin)}
	adminOrVendedor := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleVendedor)}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categorias")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", append(adminOnly, categoryHandler.Create)...)
	categories.Put("/:id", append(adminOnly, categoryHandler.Update)...)
	categories.Delete("/:id", append(adminOnly, categoryHandler.Delete)...)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := api.Group("/proveedores")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", append(adminOnly, supplierHandler.Create)...)
	suppliers.Put("/:id", append(adminOnly, supplierHandler.Update)...)
	suppliers.Delete("/:id", append(adminOnly, supplierHandler.Delete)...)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := api.Group("/clientes")
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", append(adminOnly, clientHandler.Create)...)
	clients.Put("/:id", append(adminOnly, clientHandler.Update)...)
	clients.Delete("/:id", append(adminOnly, clientHandler.Delete)...)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/productos")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", append(adminOnly, productHandler.Create)...)
	products.Put("/:id", append(adminOnly, productHandler.Update)...)
	products.Post("/:id/desactivar", append(adminOnly, productHandler.Deactivate)...)
	products.Delete("/:id", append(adminOnly, productHandler.Delete)...)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reportes")
	reports.Get("/bajo-stock", reportHandler.LowStock)
	reports.Get("/bajo-stock.pdf", reportHandler.LowStockPDF)

	// Compras
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup := api.Group("/compras")
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Post("/", append(adminOnly, purchaseHandler.Create)...)
	purchasesGroup.Put("/lineas/:lineId", append(adminOnly, purchaseHandler.UpdateLine)...)
	purchasesGroup.Delete("/:id", append(adminOnly, purchaseHandler.Delete)...)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup := api.Group("/ventas")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/", append(adminOnly, saleHandler.Create)...)
	salesGroup.Put("/lineas/:lineId", append(adminOnly, saleHandler.UpdateLine)...)

	// Deudas
	debtHandler := NewDebtHandler(deps.SaleUC)
	api.Get("/deudores", debtHandler.ListDebtors)
	api.Get("/deudores/:clientId", debtHandler.DebtorDetail)
	api.Post("/deudas/:id/pagar", append(adminOnly, debtHandler.Settle)...)
	api.Delete("/deudas/:id", append(adminOnly, debtHandler.Delete)...)

	// Movimientos de stock (el único recurso que el vendedor escribe)
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements := api.Group("/movimientos")
	movements.Get("/", movementHandler.List)
	movements.Post("/", append(adminOrVendedor, movementHandler.Register)...)
}
