package server

import (
	"unispace/internal/config"
	"unispace/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlersはルーティングに必要なハンドラ一式
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	CartWS        *handler.CartWSHandler
	Order         *handler.OrderHandler
	Message       *handler.MessageHandler
	AdminProduct  *handler.AdminProductHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminMessage  *handler.AdminMessageHandler
	AdminOverview *handler.AdminOverviewHandler
	AdminBoardWS  *handler.AdminBoardWSHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Message.RegisterRoutes(e)

	h.Cart.RegisterRoutes(e, cfg)
	h.CartWS.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)

	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminMessage.RegisterRoutes(e, cfg)
	h.AdminOverview.RegisterRoutes(e, cfg)
	h.AdminBoardWS.RegisterRoutes(e, cfg)
}
