package session

import (
	"context"
	"sync"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"
)

// 盤面が必要とする読み書きだけを約束。書き込み側に遷移ガード等を
// 挟みたい呼び出し元は、ここを満たす薄いラッパーを渡す。
type OrderStore interface {
	ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}

// 管理画面の注文一覧。ステータス更新は単一フィールドの
// last-write-winsで、成功したら一覧を再取得せずその場で書き換える。
// バッジのような派生集計が無いので巻き戻しは持たない。
type OrderBoard struct {
	mu     sync.Mutex
	orders []model.Order
	store  OrderStore
}

func NewOrderBoard(store OrderStore) *OrderBoard {
	return &OrderBoard{store: store}
}

func (b *OrderBoard) Load(ctx context.Context, f repo.AdminOrderListFilter) error {
	orders, _, err := b.store.ListAdmin(ctx, f)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.orders = orders
	b.mu.Unlock()
	return nil
}

func (b *OrderBoard) Orders() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// ストアへ書いてから、手元の一覧の該当行だけ書き換える。
func (b *OrderBoard) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	if err := b.store.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	b.mu.Lock()
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			b.orders[i].Status = status
			break
		}
	}
	b.mu.Unlock()
	return nil
}

type MessageStore interface {
	List(ctx context.Context, f repo.MessageListFilter) ([]model.Message, int64, error)
	UpdateStatus(ctx context.Context, messageID int64, status model.MessageStatus) error
}

// お問い合わせ一覧。unread→read だけを扱う。
type MessageBoard struct {
	mu       sync.Mutex
	messages []model.Message
	store    MessageStore
}

func NewMessageBoard(store MessageStore) *MessageBoard {
	return &MessageBoard{store: store}
}

func (b *MessageBoard) Load(ctx context.Context, f repo.MessageListFilter) error {
	messages, _, err := b.store.List(ctx, f)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.messages = messages
	b.mu.Unlock()
	return nil
}

func (b *MessageBoard) Messages() []model.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *MessageBoard) MarkRead(ctx context.Context, messageID int64) error {
	if err := b.store.UpdateStatus(ctx, messageID, model.MessageStatusRead); err != nil {
		return err
	}

	b.mu.Lock()
	for i := range b.messages {
		if b.messages[i].ID == messageID {
			b.messages[i].Status = model.MessageStatusRead
			break
		}
	}
	b.mu.Unlock()
	return nil
}
