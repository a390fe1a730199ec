package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"storefront/auth"
	"storefront/cart"
	"storefront/middleware"
	"storefront/orders"
	"storefront/products"
	"storefront/ratelim"
	"storefront/utils"
)

// Handlers bundles everything the route tables need.
type Handlers struct {
	Auth       *auth.Handler
	Products   *products.Handler
	Cart       *cart.Handler
	Orders     *orders.Handler
	AdminOrder *orders.AdminHandler
	Receipts   *orders.ReceiptHandler
}

// Wire registers every route group on the router.
func Wire(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	AddAuthRoutes(router, h, a, rl)
	AddProductRoutes(router, h, a, rl)
	AddCartRoutes(router, h, a, rl)
	AddOrderRoutes(router, h, a, rl)
	AddAdminRoutes(router, h, a, rl)

	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		utils.SendSuccess(w, http.StatusOK, "ok", nil)
	})
}

func AddAuthRoutes(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/signup", rl.Limit(h.Auth.Signup))
	router.POST("/api/auth/login", rl.Limit(h.Auth.Login))
	router.POST("/api/auth/logout", a.Authenticate(h.Auth.Logout))
	router.GET("/api/auth/profile", a.Authenticate(h.Auth.Profile))
}

func AddProductRoutes(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(h.Products.ListProducts))
	router.GET("/api/products/:id", rl.Limit(h.Products.GetProduct))
	// Serves /api/products/category/:category; the handler enforces the
	// "category" literal because httprouter rejects a static sibling of :id.
	router.GET("/api/products/:id/:category", rl.Limit(h.Products.ListByCategory))

	router.POST("/api/products", a.Authenticate(h.Products.CreateProduct))
	router.PATCH("/api/products/:id", a.Authenticate(h.Products.UpdateProduct))
	router.DELETE("/api/products/:id", a.Authenticate(h.Products.DeleteProduct))
}

func AddCartRoutes(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", a.Authenticate(h.Cart.GetCart))
	router.GET("/api/cart/count", a.Authenticate(h.Cart.GetCount))
	router.POST("/api/cart/add", rl.Limit(a.Authenticate(h.Cart.AddItem)))
	router.PATCH("/api/cart/update/:productId", a.Authenticate(h.Cart.UpdateItem))
	router.DELETE("/api/cart/remove/:productId", a.Authenticate(h.Cart.RemoveItem))
	router.DELETE("/api/cart/clear", a.Authenticate(h.Cart.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/checkout", rl.Limit(a.Authenticate(h.Orders.Checkout)))
	router.GET("/api/orders", a.Authenticate(h.Orders.ListOrders))
	router.GET("/api/orders/:id", a.Authenticate(h.Orders.GetOrder))
	router.PATCH("/api/orders/:id/status", a.Authenticate(h.Orders.UpdateStatus))
	// Serves /api/orders/stats/summary; the handler enforces the "stats"
	// literal, same wildcard constraint as the products category route.
	router.GET("/api/orders/:id/summary", a.Authenticate(h.Orders.GetStats))
	router.GET("/api/orders/:id/receipt", a.Authenticate(h.Receipts.PrintReceipt))
}

func AddAdminRoutes(router *httprouter.Router, h Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/orders", a.Authenticate(a.RequireAdmin(h.AdminOrder.ListOrders)))
	router.GET("/api/admin/orders/:id", a.Authenticate(a.RequireAdmin(h.AdminOrder.GetOrder)))
	router.PATCH("/api/admin/orders/:id/status", a.Authenticate(a.RequireAdmin(h.AdminOrder.UpdateStatus)))
	router.DELETE("/api/admin/orders/:id", a.Authenticate(a.RequireAdmin(h.AdminOrder.CancelOrder)))
	// Serves /api/admin/orders/statistics/overview with the "statistics"
	// literal enforced in the handler.
	router.GET("/api/admin/orders/:id/overview", a.Authenticate(a.RequireAdmin(h.AdminOrder.GetStatistics)))
}
