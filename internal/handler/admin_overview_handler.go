package handler

import (
	"net/http"

	"unispace/internal/config"
	"unispace/internal/middleware"
	"unispace/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOverviewHandler struct {
	uc *usecase.AdminOverviewUsecase
}

func NewAdminOverviewHandler(uc *usecase.AdminOverviewUsecase) *AdminOverviewHandler {
	return &AdminOverviewHandler{uc: uc}
}

func (h *AdminOverviewHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/overview", h.overview)
}

func (h *AdminOverviewHandler) overview(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Overview(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
