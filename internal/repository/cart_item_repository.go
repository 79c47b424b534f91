package repository

import (
	"context"

	"unispace/internal/domain/model"
)

// カート行の約束。(user_id, product_id) 単位で操作する。
type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// 行が無ければ作成、あれば数量をqtyへ上書き（加算ではない）。
	Upsert(ctx context.Context, userID int64, productID int64, qty int64) error
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error

	// チェックアウト後のカート全消し。
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
