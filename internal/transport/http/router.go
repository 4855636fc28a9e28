package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/handlers"
	"github.com/necohost/pos/internal/service/token"
)

type Deps struct {
	DB            *gorm.DB
	AuthHandler   *handlers.AuthHandler
	MenuHandler   *handlers.MenuHandler
	POSHandler    *handlers.POSHandler
	SalesHandler  *handlers.SalesHandler
	SearchHandler *handlers.SearchHandler
	StreamHandler *handlers.StreamHandler
	TokenService  *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.LogOut)

	api := e.Group("/api")
	api.GET("/categories", d.MenuHandler.Categories)
	api.GET("/menu", d.MenuHandler.MenusByCategory)
	api.GET("/menu/search", d.SearchHandler.Search)
	api.GET("/menu/:id", d.MenuHandler.GetMenu)

	adminMenu := api.Group("/menu", d.TokenService.AutoRefreshMiddlewareAdmin)
	adminMenu.POST("", d.MenuHandler.CreateMenu)
	adminMenu.PATCH("/:id", d.MenuHandler.PatchMenu)
	adminMenu.DELETE("/:id", d.MenuHandler.DeleteMenu)

	pos := e.Group("/pos", d.TokenService.AutoRefreshMiddleware)
	pos.POST("/order", d.POSHandler.SubmitOrder)
	pos.GET("/orders/stream", d.StreamHandler.Stream)
	pos.GET("/orderList/dates", d.POSHandler.OrderDates)
	pos.GET("/orderList/orderNums", d.POSHandler.OrderNums)
	pos.GET("/orderList/order", d.POSHandler.OrderLines)
	pos.POST("/orderList/confirm", d.POSHandler.ConfirmOrder)
	pos.POST("/applyCoupon", d.POSHandler.ApplyCoupon)
	pos.POST("/makeCoupon", d.POSHandler.MakeCoupon, d.TokenService.AutoRefreshMiddlewareAdmin)

	reports := api.Group("/sales", d.TokenService.AutoRefreshMiddlewareAdmin)
	reports.GET("/day", d.SalesHandler.Day)
	reports.GET("/week", d.SalesHandler.Week)
	reports.GET("/month", d.SalesHandler.Month)
	reports.GET("/monthly", d.SalesHandler.Monthly)
	reports.GET("/year", d.SalesHandler.Year)
	reports.GET("/growth", d.SalesHandler.Growth)
	reports.GET("/category", d.SalesHandler.ByCategory)
	reports.GET("/menu", d.SalesHandler.ByMenu)
	reports.GET("/menu/:id", d.SalesHandler.MenuSummary)
}
