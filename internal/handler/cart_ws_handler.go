package handler

import (
	"log"
	"net/http"
	"time"

	"unispace/internal/config"
	"unispace/internal/middleware"
	"unispace/internal/repository"
	"unispace/internal/session"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// オリジンはCORS側で制御する
		return true
	},
}

// カートのリアルタイム同期。接続中はcart_itemsの変更イベントごとに
// ストアを読み直し、数量とバッジ件数をクライアントへ押し出す。
type CartWSHandler struct {
	cartRepo repository.CartItemRepository
	feed     session.ChangeFeed
}

func NewCartWSHandler(cartRepo repository.CartItemRepository, feed session.ChangeFeed) *CartWSHandler {
	return &CartWSHandler{cartRepo: cartRepo, feed: feed}
}

func (h *CartWSHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/ws")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/cart", h.sync)
}

type cartSyncPayload struct {
	Type       string          `json:"type"`
	Quantities map[int64]int64 `json:"quantities,omitempty"`
	BadgeCount int64           `json:"badge_count"`
}

func (h *CartWSHandler) sync(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // upgraderが応答済み
	}
	defer conn.Close()

	ctx := c.Request().Context()

	badge := session.NewBadge()
	state := session.NewCartState(userID, h.cartRepo, badge, h.feed)

	// バッジ変動を書き込みループへ流す。詰まったら捨てる（次で追い付く）。
	updates := make(chan int64, 8)
	unsubBadge := badge.Subscribe(func(total int64) {
		select {
		case updates <- total:
		default:
		}
	})
	defer unsubBadge()

	// 初回スナップショット
	if err := state.Resync(ctx); err != nil {
		log.Printf("ws cart: %v", err)
	}

	stop, err := state.Watch(ctx)
	if err != nil {
		log.Printf("ws cart: watch: %v", err)
		return nil
	}
	defer stop()

	if err := conn.WriteJSON(cartSyncPayload{
		Type:       "connected",
		Quantities: state.Quantities(),
		BadgeCount: badge.Total(),
	}); err != nil {
		return nil
	}

	// 読み取りは切断検知のためだけに回す
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case total := <-updates:
			if err := conn.WriteJSON(cartSyncPayload{
				Type:       "cart_updated",
				Quantities: state.Quantities(),
				BadgeCount: total,
			}); err != nil {
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
