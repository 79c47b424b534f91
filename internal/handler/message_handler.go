package handler

import (
	"net/http"

	"unispace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// お問い合わせフォームの公開API
type MessageHandler struct {
	uc *usecase.MessageUsecase
}

func NewMessageHandler(uc *usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

type MessageSubmitRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

func (h *MessageHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/messages", h.submit)
}

func (h *MessageHandler) submit(c echo.Context) error {
	var req MessageSubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	m, err := h.uc.Submit(c.Request().Context(), usecase.SubmitMessageInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Body:  req.Body,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, m)
}
