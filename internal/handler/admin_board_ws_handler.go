package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"unispace/internal/config"
	"unispace/internal/domain/model"
	"unispace/internal/middleware"
	"unispace/internal/repository"
	"unispace/internal/session"
	"unispace/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// 管理画面の盤面。接続時に注文とお問い合わせを一度だけ読み、
// 以降はコマンドごとにストアへ書いてから手元の一覧を書き換えて返す。
// 再取得はしない。
type AdminBoardWSHandler struct {
	orderUc     *usecase.AdminOrderUsecase
	messageUc   *usecase.MessageUsecase
	orderRepo   repository.OrderRepository
	messageRepo repository.MessageRepository
}

func NewAdminBoardWSHandler(
	orderUc *usecase.AdminOrderUsecase,
	messageUc *usecase.MessageUsecase,
	orderRepo repository.OrderRepository,
	messageRepo repository.MessageRepository,
) *AdminBoardWSHandler {
	return &AdminBoardWSHandler{
		orderUc:     orderUc,
		messageUc:   messageUc,
		orderRepo:   orderRepo,
		messageRepo: messageRepo,
	}
}

func (h *AdminBoardWSHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/ws/admin")
	g.Use(middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	g.GET("/board", h.board)
}

// 盤面への書き込みはユースケース経由。遷移ガードと監査ログを迂回させない。
type guardedOrderStore struct {
	actorID int64
	uc      *usecase.AdminOrderUsecase
	repo    repository.OrderRepository
}

func (s guardedOrderStore) ListAdmin(ctx context.Context, f repository.AdminOrderListFilter) ([]model.Order, int64, error) {
	return s.repo.ListAdmin(ctx, f)
}

func (s guardedOrderStore) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return s.uc.UpdateStatus(ctx, s.actorID, orderID, usecase.AdminUpdateOrderStatusInput{
		Status: string(status),
	})
}

type guardedMessageStore struct {
	actorID int64
	uc      *usecase.MessageUsecase
	repo    repository.MessageRepository
}

func (s guardedMessageStore) List(ctx context.Context, f repository.MessageListFilter) ([]model.Message, int64, error) {
	return s.repo.List(ctx, f)
}

func (s guardedMessageStore) UpdateStatus(ctx context.Context, messageID int64, _ model.MessageStatus) error {
	// 盤面はunread→readしか頼まない
	return s.uc.MarkRead(ctx, s.actorID, messageID)
}

type boardCommand struct {
	Type   string `json:"type"` // update_order_status / mark_message_read
	ID     int64  `json:"id"`
	Status string `json:"status,omitempty"`
}

type boardPayload struct {
	Type     string          `json:"type"`
	Orders   []model.Order   `json:"orders,omitempty"`
	Messages []model.Message `json:"messages,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func (h *AdminBoardWSHandler) board(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // upgraderが応答済み
	}
	defer conn.Close()

	ctx := c.Request().Context()

	orders := session.NewOrderBoard(guardedOrderStore{actorID: actorID, uc: h.orderUc, repo: h.orderRepo})
	messages := session.NewMessageBoard(guardedMessageStore{actorID: actorID, uc: h.messageUc, repo: h.messageRepo})

	orderFilter := repository.AdminOrderListFilter{Page: 1, Limit: 50, Status: c.QueryParam("status")}
	if err := orders.Load(ctx, orderFilter); err != nil {
		log.Printf("admin board: load orders failed: %v", err)
		return nil
	}
	if err := messages.Load(ctx, repository.MessageListFilter{Page: 1, Limit: 50}); err != nil {
		log.Printf("admin board: load messages failed: %v", err)
		return nil
	}

	if err := conn.WriteJSON(boardPayload{
		Type:     "board",
		Orders:   orders.Orders(),
		Messages: messages.Messages(),
	}); err != nil {
		return nil
	}

	cmds := make(chan boardCommand)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			var cmd boardCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-cmds:
			if err := conn.WriteJSON(h.apply(ctx, cmd, orders, messages)); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (h *AdminBoardWSHandler) apply(ctx context.Context, cmd boardCommand, orders *session.OrderBoard, messages *session.MessageBoard) boardPayload {
	switch cmd.Type {
	case "update_order_status":
		if err := orders.UpdateStatus(ctx, cmd.ID, model.OrderStatus(cmd.Status)); err != nil {
			return boardPayload{Type: "error", Error: errorMessage(err)}
		}
		return boardPayload{Type: "orders", Orders: orders.Orders()}

	case "mark_message_read":
		if err := messages.MarkRead(ctx, cmd.ID); err != nil {
			return boardPayload{Type: "error", Error: errorMessage(err)}
		}
		return boardPayload{Type: "messages", Messages: messages.Messages()}

	default:
		return boardPayload{Type: "error", Error: "unknown command"}
	}
}

func errorMessage(err error) string {
	if he, ok := usecase.AsHTTPError(err); ok {
		return he.Message
	}
	return "internal error"
}
