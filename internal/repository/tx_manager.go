package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CartItems() CartItemRepository
	Products() ProductRepository
	Messages() MessageRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 注文確定パイプラインはここを通さない（各ステップ独立の失敗方針のため）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
