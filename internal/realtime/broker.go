package realtime

import "context"

// テーブル単位の変更通知。行の中身は運ばない（受信側が再読込する）。
type Event struct {
	ID    string `json:"id"`
	Table string `json:"table"`
	Op    string `json:"op"` // insert / update / delete
}

const (
	TableCartItems = "cart_items"
	TableOrders    = "orders"
	TableMessages  = "messages"

	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// 変更イベントの配送。Subscribeは解除関数を返す。
// 同一テーブルの全変更を全購読者に届ける（フィルタは受信側の仕事）。
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, table string, fn func(Event)) (func(), error)
}
