package usecase

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"
)

type OrderUsecase struct {
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	tx            repo.TransactionManager
}

func NewOrderUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	tx repo.TransactionManager,
) *OrderUsecase {
	return &OrderUsecase{
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		tx:            tx,
	}
}

type PlaceOrderInput struct {
	DeliveryAddress string
	PhoneNumber     string
	PaymentCode     string // 任意（M-Pesa等の支払い参照コード）
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	TotalPrice      int64             `json:"total_price"`
	DeliveryAddress string            `json:"delivery_address"`
	PhoneNumber     string            `json:"phone_number"`
	PaymentCode     string            `json:"payment_code,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 注文確定。意図的にトランザクションにしていない。
//
// 各ステップの失敗方針：
//  1. カートが空なら拒否（注文は作らない）
//  2. 注文本体の作成に失敗したら全体を中断（何も残らない）
//  3. 明細の作成に失敗しても注文本体は消さない（補償削除はしない。
//     エラーとして返し、ユーザーにはサポート窓口で対応する）
//  4. カートの全消しに失敗してもログだけ残して成功扱い
//     （注文を失うよりカートに残骸が残る方がまし）
//
// 明細の単価と商品名はこの瞬間の商品から写し取る。以後の価格変更は
// この注文に影響しない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_address")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid phone_number")
	}

	//カート取得。空なら拒否。
	cartItems, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	//合計計算とスナップショット。価格は現在の商品価格。
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	var total int64 = 0

	for _, ci := range cartItems {
		p, err := u.productRepo.FindByID(ctx, ci.ProductID)
		if err == repo.ErrNotFound {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart")
		}
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:         ci.ProductID,
			NameSnapshot:      p.Name,
			UnitPriceSnapshot: p.Price,
			Quantity:          ci.Quantity,
			CreatedAt:         time.Now(),
		})

		total += p.Price * ci.Quantity
	}

	//注文本体の作成。失敗したらここで中断。
	now := time.Now()
	order := model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		TotalPrice:      total,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		PhoneNumber:     strings.TrimSpace(in.PhoneNumber),
		PaymentCode:     strings.TrimSpace(in.PaymentCode),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	orderID, err := u.orderRepo.Create(ctx, order)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to create order")
	}

	//明細の一括作成。失敗しても注文本体は残る。
	if err := u.orderItemRepo.CreateBulk(ctx, orderID, orderItems); err != nil {
		log.Printf("order %d: order items failed, order left without items: %v", orderID, err)
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to save order items")
	}

	//カート全消し。失敗しても注文は成立している。
	if err := u.cartItemRepo.DeleteAllByUserID(ctx, userID); err != nil {
		log.Printf("order %d: cart clear failed for user %d: %v", orderID, userID, err)
	}

	order.ID = orderID
	return toOrderOutput(order, orderItems), nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.NameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalPrice:      o.TotalPrice,
		DeliveryAddress: o.DeliveryAddress,
		PhoneNumber:     o.PhoneNumber,
		PaymentCode:     o.PaymentCode,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
