package router

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/interfaces/http/handler"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the handlers mounted under the API prefix
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Restaurant    *handler.RestaurantHandler
	MenuItem      *handler.MenuItemHandler
	Order         *handler.OrderHandler
	PaymentMethod *handler.PaymentMethodHandler
	Image         *handler.ImageHandler
	MenuImport    *handler.MenuImportHandler
}

// APIOptions tunes the API route table
type APIOptions struct {
	// AuthLimiter throttles the public credential endpoints. Nil disables it.
	AuthLimiter gin.HandlerFunc
	// Logger records denied operations at debug level
	Logger *zap.Logger
}

// APIRoutes builds the food ordering route groups. Every route outside the
// credential endpoints is gated by the role table before its handler runs.
func APIRoutes(h Handlers, opts APIOptions) []RouteRegistrar {
	gate := func(op access.Operation) gin.HandlerFunc {
		return middleware.RequireOperationWithLogger(op, opts.Logger)
	}
	throttled := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if opts.AuthLimiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{opts.AuthLimiter, handler}
	}

	authRoutes := NewDomainGroup("auth", "/auth").WithGate(gate)
	authRoutes.POST("/register", throttled(h.Auth.Register)...)
	authRoutes.POST("/login", throttled(h.Auth.Login)...)
	authRoutes.POST("/refresh", h.Auth.Refresh)
	authRoutes.For(access.OpAuthLogout).POST("/logout", h.Auth.Logout)
	authRoutes.For(access.OpAuthMe).GET("/me", h.Auth.Me)

	userRoutes := NewDomainGroup("users", "/users").WithGate(gate)
	userRoutes.For(access.OpUserCreate).POST("", h.User.Create)
	userRoutes.For(access.OpUserList).GET("", h.User.List)
	userRoutes.For(access.OpUserRead).GET("/:id", h.User.Get)
	userRoutes.For(access.OpUserUpdate).PATCH("/:id", h.User.Update)
	userRoutes.For(access.OpUserDelete).DELETE("/:id", h.User.Delete)

	restaurantRoutes := NewDomainGroup("restaurants", "/restaurants").WithGate(gate)
	restaurantRoutes.For(access.OpRestaurantCreate).POST("", h.Restaurant.Create)
	restaurantRoutes.For(access.OpRestaurantList).GET("", h.Restaurant.List)
	restaurantRoutes.For(access.OpRestaurantRead).GET("/:id", h.Restaurant.Get)
	restaurantRoutes.For(access.OpRestaurantUpdate).PATCH("/:id", h.Restaurant.Update)
	restaurantRoutes.For(access.OpRestaurantDelete).DELETE("/:id", h.Restaurant.Delete)
	restaurantRoutes.For(access.OpRestaurantUpdate).POST("/:id/image/upload-url", h.Image.InitiateRestaurantUpload)
	restaurantRoutes.For(access.OpRestaurantUpdate).PUT("/:id/image", h.Image.ConfirmRestaurantUpload)
	restaurantRoutes.For(access.OpMenuItemCreate).POST("/:id/menu-items/import", h.MenuImport.Import)

	menuItemRoutes := NewDomainGroup("menu-items", "/menu-items").WithGate(gate)
	menuItemRoutes.For(access.OpMenuItemCreate).POST("", h.MenuItem.Create)
	menuItemRoutes.For(access.OpMenuItemList).GET("", h.MenuItem.List)
	menuItemRoutes.For(access.OpMenuItemRead).GET("/:id", h.MenuItem.Get)
	menuItemRoutes.For(access.OpMenuItemUpdate).PATCH("/:id", h.MenuItem.Update)
	menuItemRoutes.For(access.OpMenuItemDelete).DELETE("/:id", h.MenuItem.Delete)
	menuItemRoutes.For(access.OpMenuItemUpdate).POST("/:id/image/upload-url", h.Image.InitiateMenuItemUpload)
	menuItemRoutes.For(access.OpMenuItemUpdate).PUT("/:id/image", h.Image.ConfirmMenuItemUpload)

	orderRoutes := NewDomainGroup("orders", "/orders").WithGate(gate)
	orderRoutes.For(access.OpOrderListMine).GET("/my-orders", h.Order.MyOrders)
	orderRoutes.For(access.OpOrderCreate).POST("", h.Order.Create)
	orderRoutes.For(access.OpOrderList).GET("", h.Order.List)
	orderRoutes.For(access.OpOrderRead).GET("/:id", h.Order.Get)
	orderRoutes.For(access.OpOrderCancel).DELETE("/:id", h.Order.Cancel)
	orderRoutes.For(access.OpOrderAddItem).POST("/:id/items", h.Order.AddItem)
	orderRoutes.For(access.OpOrderUpdateItem).PATCH("/:id/items/:itemId", h.Order.UpdateItem)
	orderRoutes.For(access.OpOrderRemoveItem).DELETE("/:id/items/:itemId", h.Order.RemoveItem)
	orderRoutes.For(access.OpOrderCheckout).POST("/:id/checkout", h.Order.Checkout)
	orderRoutes.For(access.OpOrderUpdateStatus).PATCH("/:id/status", h.Order.UpdateStatus)

	paymentRoutes := NewDomainGroup("payment-methods", "/payment-methods").WithGate(gate)
	paymentRoutes.For(access.OpPaymentMethodCreate).POST("", h.PaymentMethod.Create)
	paymentRoutes.For(access.OpPaymentMethodUpdate).PUT("", h.PaymentMethod.Update)
	paymentRoutes.For(access.OpPaymentMethodRead).GET("", h.PaymentMethod.Get)
	paymentRoutes.For(access.OpPaymentMethodDelete).DELETE("", h.PaymentMethod.Delete)

	return []RouteRegistrar{
		authRoutes,
		userRoutes,
		restaurantRoutes,
		menuItemRoutes,
		orderRoutes,
		paymentRoutes,
	}
}
