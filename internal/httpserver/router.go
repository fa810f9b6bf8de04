package httpserver

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type handler struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.ProductSvc == nil || deps.CategorySvc == nil || deps.AccountSvc == nil || deps.Identity == nil {
		return nil, errors.New("httpserver: all services must be provided")
	}
	h := &handler{deps: deps, opts: opts.withDefaults(), logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// Credential endpoints ignore the Authorization header so a client holding
	// a stale access token can still log in.
	public := router.Group("/api")
	public.POST("/register/", h.register)
	public.GET("/verify-email/", h.verifyEmail)
	public.POST("/token/", h.login)
	public.POST("/token/refresh/", h.refresh)
	public.POST("/password-reset/", h.requestPasswordReset)
	public.POST("/password-reset/confirm/", h.confirmPasswordReset)

	api := router.Group("/api", h.authenticate())

	api.GET("/categories/", h.listCategories)
	api.GET("/products/", h.listProducts)
	api.GET("/products/:id/", h.getProduct)

	cartGroup := api.Group("", h.cartOwner())
	cartGroup.GET("/cart/", h.getCart)
	cartGroup.POST("/cart/add/", h.addToCart)
	cartGroup.GET("/orders/:orderId/", h.orderDetail)
	cartGroup.GET("/orders/:orderId/items/", h.orderItems)
	cartGroup.PATCH("/order-items/:itemId/", h.updateItem)
	cartGroup.DELETE("/order-items/:itemId/", h.deleteItem)
	cartGroup.POST("/shipping-addresses/", h.addShippingAddress)


	authed := api.Group("", requireUser())
	authed.GET("/orders/", h.orderHistory)
	authed.GET("/shipping-addresses/", h.listShippingAddresses)
	authed.GET("/protected/", h.protected)
	authed.GET("/profile/", h.profile)
	authed.PATCH("/profile/", h.updateProfile)
	authed.DELETE("/account/", h.deleteAccount)

	return router, nil
}
